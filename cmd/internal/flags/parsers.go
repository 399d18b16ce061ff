package flags

import (
	"flag"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.senan.xyz/tagbridge/metadata"
	"go.senan.xyz/tagbridge/tags"
)

var _ flag.Value = (*sourceParser)(nil)

// sources may be extended by build tags
var sources = map[string]metadata.Source{
	"taglib": tags.TagLib{},
}

func sourceNames() string {
	return strings.Join(slices.Sorted(maps.Keys(sources)), ", ")
}

type sourceParser struct{ src *metadata.Source }

func (sp *sourceParser) Set(value string) error {
	src, ok := sources[value]
	if !ok {
		return fmt.Errorf("unknown tag reader %q, want one of %s", value, sourceNames())
	}
	*sp.src = src
	return nil
}
func (sp sourceParser) String() string {
	if sp.src == nil {
		return ""
	}
	for name, src := range sources {
		if src == *sp.src {
			return name
		}
	}
	return ""
}
