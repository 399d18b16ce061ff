package metadata_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.senan.xyz/tagbridge/internal/testfiles"
	"go.senan.xyz/tagbridge/metadata"
	"go.senan.xyz/tagbridge/tags"
)

type fakeSource struct {
	tags     tags.Tags
	tagsErr  error
	props    tags.Properties
	propsErr error
}

func (f fakeSource) ReadTags(string) (tags.Tags, error)             { return f.tags, f.tagsErr }
func (f fakeSource) ReadProperties(string) (tags.Properties, error) { return f.props, f.propsErr }

func TestRead(t *testing.T) {
	t.Parallel()

	src := fakeSource{
		tags: tags.NewTags(
			"title", "Koloss",
			"artist", "Meshuggah",
			"album", "Koloss",
			"genre", "Metal",
			"year", "2012",
			"tracknumber", "1/10",
		),
		props: tags.Properties{Length: 4*time.Minute + 500*time.Millisecond, Bitrate: 320, SampleRate: 44100, Channels: 2},
	}

	rec, err := metadata.Read(src, "a.flac")
	require.NoError(t, err)
	assert.Equal(t, metadata.Record{
		metadata.Title:      "Koloss",
		metadata.Artist:     "Meshuggah",
		metadata.Album:      "Koloss",
		metadata.Genre:      "Metal",
		metadata.Year:       "2012",
		metadata.Track:      "1",
		metadata.Duration:   "240500",
		metadata.Bitrate:    "320",
		metadata.SampleRate: "44100",
		metadata.Channels:   "2",
	}, rec)
}

func TestReadOmitsAbsent(t *testing.T) {
	t.Parallel()

	src := fakeSource{
		tags: tags.NewTags("title", "a", "comment", "", "tracknumber", "0"),
	}
	rec, err := metadata.Read(src, "a.flac")
	require.NoError(t, err)

	assert.Equal(t, "a", rec[metadata.Title])
	assert.NotContains(t, rec, metadata.Comment)
	assert.NotContains(t, rec, metadata.Year)
	assert.NotContains(t, rec, metadata.Track)

	// zero properties are still reported
	assert.Equal(t, "0", rec[metadata.Duration])
	assert.Equal(t, "0", rec[metadata.Channels])

	for k, v := range rec {
		assert.Contains(t, metadata.Fields, k)
		assert.NotEmpty(t, v, k)
	}
}

func TestReadNoProperties(t *testing.T) {
	t.Parallel()

	src := fakeSource{
		tags:     tags.NewTags("title", "a"),
		propsErr: errors.New("no properties"),
	}
	rec, err := metadata.Read(src, "a.flac")
	require.NoError(t, err)
	assert.Equal(t, metadata.Record{metadata.Title: "a"}, rec)
}

func TestReadNoTags(t *testing.T) {
	t.Parallel()

	cause := errors.New("invalid file")
	rec, err := metadata.Read(fakeSource{tagsErr: cause}, "a.flac")
	require.ErrorIs(t, err, metadata.ErrNoTags)
	require.ErrorIs(t, err, cause)
	require.Nil(t, rec)
}

func TestReadInvalidUTF8(t *testing.T) {
	t.Parallel()

	src := fakeSource{tags: tags.NewTags("title", "a\xffb")}
	rec, err := metadata.Read(src, "a.flac")
	require.NoError(t, err)
	assert.Equal(t, "a�b", rec[metadata.Title])
}

func TestReadTagLib(t *testing.T) {
	t.Parallel()

	const title = "Ünïcödé 日本語"
	data, err := testfiles.FLAC(map[string]string{
		"TITLE":       title,
		"ALBUM":       "Album",
		"TRACKNUMBER": "7",
	})
	require.NoError(t, err)
	path := newFile(t, data, ".flac")

	rec, err := metadata.Read(tags.TagLib{}, path)
	require.NoError(t, err)
	assert.Equal(t, []byte(title), []byte(rec[metadata.Title]))
	assert.Equal(t, "Album", rec[metadata.Album])
	assert.Equal(t, "7", rec[metadata.Track])
	assert.NotContains(t, rec, metadata.Year)
	assert.Equal(t, "2000", rec[metadata.Duration])
	assert.Equal(t, "44100", rec[metadata.SampleRate])
	assert.Equal(t, "2", rec[metadata.Channels])

	again, err := metadata.Read(tags.TagLib{}, path)
	require.NoError(t, err)
	assert.Equal(t, rec, again)
}

func TestReadTagLibMissing(t *testing.T) {
	t.Parallel()

	_, err := metadata.Read(tags.TagLib{}, filepath.Join(t.TempDir(), "nope.flac"))
	require.ErrorIs(t, err, metadata.ErrNoTags)
}

func newFile(t *testing.T, data []byte, ext string) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "*"+ext)
	require.NoError(t, err)
	defer f.Close()

	_, err = io.Copy(f, bytes.NewReader(data))
	require.NoError(t, err)

	return f.Name()
}
