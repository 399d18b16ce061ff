//go:build audiotags

// audiotags reads tags through a cgo binding to the system TagLib. Build with
// -tags audiotags to use it in place of the WASM reader.
package audiotags

import (
	"errors"
	"fmt"
	"time"

	"github.com/sentriz/audiotags"
	"go.senan.xyz/tagbridge/tags"
)

var ErrNoProperties = errors.New("no audio properties")

type AudioTags struct{}

func (AudioTags) ReadTags(path string) (tags.Tags, error) {
	f, err := audiotags.Open(path)
	if err != nil {
		return tags.Tags{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return tags.FromMap(f.ReadTags()), nil
}

func (AudioTags) ReadProperties(path string) (tags.Properties, error) {
	f, err := audiotags.Open(path)
	if err != nil {
		return tags.Properties{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	props := f.ReadAudioProperties()
	if props == nil {
		return tags.Properties{}, ErrNoProperties
	}
	return tags.Properties{
		Length:     time.Duration(props.LengthMs) * time.Millisecond,
		Bitrate:    uint(max(props.Bitrate, 0)),
		SampleRate: uint(max(props.Samplerate, 0)),
		Channels:   uint(max(props.Channels, 0)),
	}, nil
}
