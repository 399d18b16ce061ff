// Package artwork locates the embedded cover image of an audio file. The file
// extension picks a format, and each format follows its own convention for storing
// pictures. Only the first picture in the format's native order is returned.
package artwork

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupported = errors.New("format unsupported")
	ErrInvalid     = errors.New("invalid file")
	ErrNotFound    = errors.New("no embedded artwork")
)

type Format string

const (
	MP3     Format = "mp3"
	FLAC    Format = "flac"
	MP4     Format = "mp4"
	Vorbis  Format = "vorbis"
	Opus    Format = "opus"
	ASF     Format = "asf"
	APE     Format = "ape"
	WavPack Format = "wavpack"
)

var extensions = map[string]Format{
	"mp3":  MP3,
	"flac": FLAC,
	"m4a":  MP4,
	"mp4":  MP4,
	"aac":  MP4,
	"alac": MP4,
	"ogg":  Vorbis,
	"oga":  Vorbis,
	"opus": Opus,
	"wma":  ASF,
	"asf":  ASF,
	"ape":  APE,
	"wv":   WavPack,
}

// Locator opens path with a format specific reader and returns the first embedded
// picture. The file is released before Locate returns.
type Locator interface {
	Locate(path string) ([]byte, error)
}

type LocatorFunc func(path string) ([]byte, error)

func (f LocatorFunc) Locate(path string) ([]byte, error) { return f(path) }

var locators = map[Format]Locator{
	MP3:     LocatorFunc(readMP3),
	FLAC:    LocatorFunc(readFLAC),
	MP4:     LocatorFunc(readMP4),
	Vorbis:  LocatorFunc(readVorbis),
	Opus:    LocatorFunc(readOpus),
	ASF:     LocatorFunc(readASF),
	APE:     LocatorFunc(readAPE),
	WavPack: LocatorFunc(readWavPack),
}

func (f Format) Locate(path string) ([]byte, error) {
	l, ok := locators[f]
	if !ok {
		return nil, ErrUnsupported
	}
	return l.Locate(path)
}

// Extension is the ASCII-lowercased text after the last '.' of the last path
// segment, or "" if there is none.
func Extension(path string) string {
	seg := path[strings.LastIndexAny(path, "/"+string(filepath.Separator))+1:]
	i := strings.LastIndexByte(seg, '.')
	if i < 0 {
		return ""
	}
	return asciiLower(seg[i+1:])
}

func FormatOf(path string) (Format, bool) {
	f, ok := extensions[Extension(path)]
	return f, ok
}

func CanRead(path string) bool {
	_, ok := FormatOf(path)
	return ok
}

// Read returns the first embedded picture of path. An empty picture is reported as
// [ErrNotFound], never as an empty buffer.
func Read(path string) ([]byte, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("extension %q: %w", Extension(path), ErrUnsupported)
	}
	data, err := format.Locate(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", format, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: empty picture: %w", format, ErrNotFound)
	}
	return data, nil
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func invalidf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, a...))
}
