package artwork

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.senan.xyz/tagbridge/internal/testfiles"
)

func TestExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mp3", Extension("a.mp3"))
	assert.Equal(t, "mp3", Extension("/music/A.MP3"))
	assert.Equal(t, "flac", Extension("/music/a.b.FlAc"))
	assert.Equal(t, "", Extension("/music/noext"))
	assert.Equal(t, "", Extension("/music.d/noext"))
	assert.Equal(t, "", Extension("/music/trailing."))
	assert.Equal(t, "opus", Extension(".opus"))

	// only ascii letters fold
	assert.Equal(t, "mpİ", Extension("a.MPİ"))
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	for ext, exp := range map[string]Format{
		"mp3": MP3, "flac": FLAC,
		"m4a": MP4, "mp4": MP4, "aac": MP4, "alac": MP4,
		"ogg": Vorbis, "oga": Vorbis, "opus": Opus,
		"wma": ASF, "asf": ASF,
		"ape": APE, "wv": WavPack,
	} {
		f, ok := FormatOf("track." + ext)
		assert.True(t, ok, ext)
		assert.Equal(t, exp, f, ext)
	}

	_, ok := FormatOf("track.xyz")
	assert.False(t, ok)
	assert.False(t, CanRead("track"))
	assert.True(t, CanRead("track.WV"))
}

func TestUnsupported(t *testing.T) {
	t.Parallel()

	mp3, err := testfiles.MP3(nil, testfiles.JPEG)
	require.NoError(t, err)

	// contents are never sniffed
	path := newFile(t, mp3, ".xyz")
	_, err = Read(path)
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = Read(newFile(t, mp3, ""))
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Read(filepath.Join(t.TempDir(), "nope.flac"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrUnsupported)
}

func TestCorrupt(t *testing.T) {
	t.Parallel()

	junk := bytes.Repeat([]byte("not audio "), 64)
	for _, ext := range []string{".flac", ".m4a", ".ogg", ".opus", ".wma"} {
		t.Run(ext, func(t *testing.T) {
			t.Parallel()

			_, err := Read(newFile(t, junk, ext))
			require.ErrorIs(t, err, ErrInvalid)
		})
	}

	// these readers find no tag in junk rather than rejecting it
	for _, ext := range []string{".mp3", ".ape", ".wv"} {
		t.Run(ext, func(t *testing.T) {
			t.Parallel()

			data, err := Read(newFile(t, junk, ext))
			require.Error(t, err)
			require.Nil(t, data)
		})
	}
}

func TestEmptyFile(t *testing.T) {
	t.Parallel()

	for ext := range extensions {
		data, err := Read(newFile(t, nil, "."+ext))
		require.Error(t, err, ext)
		require.Nil(t, data, ext)
	}
}

func TestIdempotent(t *testing.T) {
	t.Parallel()

	flac, err := testfiles.FLAC(nil, testfiles.PNG)
	require.NoError(t, err)
	path := newFile(t, flac, ".flac")

	a, err := Read(path)
	require.NoError(t, err)
	b, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, testfiles.PNG, a)
}

func TestLocatorFunc(t *testing.T) {
	t.Parallel()

	var l Locator = LocatorFunc(func(string) ([]byte, error) { return []byte("x"), nil })
	data, err := l.Locate("any")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)

	_, err = Format("tracker").Locate("any")
	require.ErrorIs(t, err, ErrUnsupported)
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
