package tags

import (
	"bytes"
	"io"
	"maps"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.senan.xyz/tagbridge/internal/testfiles"
)

func TestNormalise(t *testing.T) {
	t.Parallel()

	got := NewTags(
		"title", "Koloss",
		"trackc", "14",
		"year", "1967",
		"Genre", "Metal",
	)

	exp := map[string][]string{
		"TITLE":       {"Koloss"},
		"TRACKNUMBER": {"14"},
		"DATE":        {"1967"},
		"GENRE":       {"Metal"},
	}

	require.Equal(t, exp, maps.Collect(got.Iter()))
}

func TestFromMapCanonicalWins(t *testing.T) {
	t.Parallel()

	got := FromMap(map[string][]string{
		"YEAR":        {"1999"},
		"DATE":        {"2004-05-06"},
		"TRACK":       {"9"},
		"TRACKNUMBER": {"3/12"},
	})
	assert.Equal(t, 2004, got.Year())
	assert.Equal(t, 3, got.Track())

	got = FromMap(map[string][]string{"YEAR": {"1999"}})
	assert.Equal(t, 1999, got.Year())
}

func TestText(t *testing.T) {
	t.Parallel()

	tags := NewTags("artist", "a")
	tags.Set(Artist, "a", "b")
	assert.Equal(t, "a b", tags.Text(Artist))
	assert.Equal(t, "a", tags.Get(Artist))
	assert.Equal(t, []string{"a", "b"}, tags.Values("Artist"))
	assert.Equal(t, "", tags.Text(Album))
}

func TestYear(t *testing.T) {
	t.Parallel()

	for in, exp := range map[string]int{
		"":           0,
		"2019":       2019,
		"2019-03-01": 2019,
		"  1967 ":    1967,
		"unknown":    0,
	} {
		assert.Equal(t, exp, NewTags(Date, in).Year(), in)
	}
	assert.Equal(t, 0, Tags{}.Year())
}

func TestTrack(t *testing.T) {
	t.Parallel()

	for in, exp := range map[string]int{
		"":     0,
		"5":    5,
		"5/12": 5,
		" 07 ": 7,
		"0":    0,
		"3a":   3,
		"/12":  0,
		"x":    0,
	} {
		assert.Equal(t, exp, NewTags(TrackNumber, in).Track(), in)
	}
}

func TestReadFLAC(t *testing.T) {
	t.Parallel()

	data, err := testfiles.FLAC(map[string]string{
		"TITLE":       "Sunday Bloody Sunday",
		"ARTIST":      "Ünïcödé",
		"DATE":        "1983",
		"TRACKNUMBER": "1/10",
	})
	require.NoError(t, err)
	path := newFile(t, data, ".flac")

	tags, err := TagLib{}.ReadTags(path)
	require.NoError(t, err)
	assert.Equal(t, "Sunday Bloody Sunday", tags.Get(Title))
	assert.Equal(t, "Ünïcödé", tags.Get(Artist))
	assert.Equal(t, 1983, tags.Year())
	assert.Equal(t, 1, tags.Track())

	props, err := TagLib{}.ReadProperties(path)
	require.NoError(t, err)
	assert.Equal(t, uint(testfiles.FLACSampleRate), props.SampleRate)
	assert.Equal(t, uint(testfiles.FLACChannels), props.Channels)
	assert.Equal(t, testfiles.FLACLength*time.Millisecond, props.Length)
}

func TestReadInvalid(t *testing.T) {
	t.Parallel()

	path := newFile(t, []byte("not audio"), ".flac")
	_, err := ReadTags(path)
	require.Error(t, err)
}

func newFile(t *testing.T, data []byte, ext string) string {
	t.Helper()

	f, err := os.CreateTemp("", "*"+ext)
	require.NoError(t, err)
	t.Cleanup(func() {
		os.Remove(f.Name())
	})
	defer f.Close()

	_, err = io.Copy(f, bytes.NewReader(data))
	require.NoError(t, err)

	return f.Name()
}
