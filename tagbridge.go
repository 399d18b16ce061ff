// Package tagbridge reads the metadata and embedded artwork of audio files by path.
//
// The Read functions report why a call produced nothing. The Extract functions
// keep the narrow boundary contract: a value, or nil for any failure.
package tagbridge

import (
	"errors"
	"fmt"
	"log/slog"

	"go.senan.xyz/tagbridge/artwork"
	"go.senan.xyz/tagbridge/metadata"
	"go.senan.xyz/tagbridge/tags"
)

// Outcome classifies the result of a read.
type Outcome uint8

const (
	Ok Outcome = iota
	NotFound
	Unsupported
	ReadError
)

func (o Outcome) String() string {
	switch o {
	case Ok:
		return "ok"
	case NotFound:
		return "not found"
	case Unsupported:
		return "unsupported"
	case ReadError:
		return "read error"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// Classify maps an error from [ReadMetadata] or [ReadArtwork] to its outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return Ok
	case errors.Is(err, artwork.ErrNotFound):
		return NotFound
	case errors.Is(err, artwork.ErrUnsupported):
		return Unsupported
	default:
		return ReadError
	}
}

// DefaultSource reads tags and audio properties for [ReadMetadata].
var DefaultSource metadata.Source = tags.TagLib{}

func ReadMetadata(path string) (metadata.Record, error) {
	return metadata.Read(DefaultSource, path)
}

func ReadArtwork(path string) ([]byte, error) {
	return artwork.Read(path)
}

// ExtractMetadata returns the metadata record of path as a plain map, or nil if
// the file can't be read.
func ExtractMetadata(path string) (r map[string]string) {
	defer recoverNil(path, "metadata", func() { r = nil })

	rec, err := ReadMetadata(path)
	if err != nil {
		slog.Debug("no metadata", "path", path, "outcome", Classify(err), "err", err)
		return nil
	}
	return rec
}

// ExtractArtwork returns the first embedded picture of path, or nil if there is
// none or the file can't be read.
func ExtractArtwork(path string) (data []byte) {
	defer recoverNil(path, "artwork", func() { data = nil })

	data, err := ReadArtwork(path)
	if err != nil {
		slog.Debug("no artwork", "path", path, "outcome", Classify(err), "err", err)
		return nil
	}
	return data
}

func recoverNil(path, op string, reset func()) {
	if r := recover(); r != nil {
		slog.Debug("recovered reader panic", "path", path, "op", op, "panic", r)
		reset()
	}
}
