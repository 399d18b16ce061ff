// Package metadata builds the flat field map of a media file: the common text tags
// and its audio properties.
package metadata

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go.senan.xyz/tagbridge/tags"
)

var ErrNoTags = errors.New("no tags")

const (
	Title      = "TITLE"
	Artist     = "ARTIST"
	Album      = "ALBUM"
	Comment    = "COMMENT"
	Genre      = "GENRE"
	Year       = "YEAR"
	Track      = "TRACK"
	Duration   = "DURATION" // milliseconds
	Bitrate    = "BITRATE"  // kb/s
	SampleRate = "SAMPLE_RATE"
	Channels   = "CHANNELS"
)

// Fields lists every key a Record may hold.
var Fields = []string{Title, Artist, Album, Comment, Genre, Year, Track, Duration, Bitrate, SampleRate, Channels}

// Record maps a field from [Fields] to its value. Absent fields are omitted rather
// than stored empty.
type Record map[string]string

// Source opens a file by path and exposes its tag and audio properties.
type Source interface {
	ReadTags(path string) (tags.Tags, error)
	ReadProperties(path string) (tags.Properties, error)
}

// Read makes a single pass over path. The error wraps [ErrNoTags] when the file
// can't be opened as a tagged media file. Unreadable audio properties only omit
// their fields.
func Read(src Source, path string) (Record, error) {
	t, err := src.ReadTags(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTags, err)
	}

	r := Record{}
	r.text(Title, t.Text(tags.Title))
	r.text(Artist, t.Text(tags.Artist))
	r.text(Album, t.Text(tags.Album))
	r.text(Comment, t.Text(tags.Comment))
	r.text(Genre, t.Text(tags.Genre))
	r.positive(Year, t.Year())
	r.positive(Track, t.Track())

	props, err := src.ReadProperties(path)
	if err != nil {
		slog.Debug("no audio properties", "path", path, "err", err)
		return r, nil
	}
	r[Duration] = strconv.FormatInt(props.Length.Milliseconds(), 10)
	r[Bitrate] = strconv.FormatUint(uint64(props.Bitrate), 10)
	r[SampleRate] = strconv.FormatUint(uint64(props.SampleRate), 10)
	r[Channels] = strconv.FormatUint(uint64(props.Channels), 10)
	return r, nil
}

func (r Record) text(k, v string) {
	if v == "" {
		return
	}
	r[k] = strings.ToValidUTF8(v, "�")
}

func (r Record) positive(k string, v int) {
	if v <= 0 {
		return
	}
	r[k] = strconv.Itoa(v)
}
