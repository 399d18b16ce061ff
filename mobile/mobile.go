// Package mobile is the gomobile bind surface. Bound languages can't receive Go
// maps, so metadata comes back as a handle with indexed keys. A nil return means
// no result.
//
//	gomobile bind -target android -o tagbridge.aar go.senan.xyz/tagbridge/mobile
package mobile

import (
	"maps"
	"slices"

	"go.senan.xyz/tagbridge"
)

type Metadata struct {
	keys   []string
	fields map[string]string
}

// ExtractMetadata returns nil when the file can't be read.
func ExtractMetadata(path string) *Metadata {
	fields := tagbridge.ExtractMetadata(path)
	if fields == nil {
		return nil
	}
	return &Metadata{
		keys:   slices.Sorted(maps.Keys(fields)),
		fields: fields,
	}
}

// ExtractArtwork returns nil when the file has no embedded picture or can't be read.
func ExtractArtwork(path string) []byte {
	return tagbridge.ExtractArtwork(path)
}

// Len is the number of fields present.
func (m *Metadata) Len() int { return len(m.keys) }

// Key returns the i'th field name in sorted order, or "" when out of range.
func (m *Metadata) Key(i int) string {
	if i < 0 || i >= len(m.keys) {
		return ""
	}
	return m.keys[i]
}

func (m *Metadata) Get(key string) string { return m.fields[key] }

func (m *Metadata) Has(key string) bool {
	_, ok := m.fields[key]
	return ok
}
