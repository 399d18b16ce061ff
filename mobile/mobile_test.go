package mobile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.senan.xyz/tagbridge/internal/testfiles"
	"go.senan.xyz/tagbridge/mobile"
)

func TestExtractMetadata(t *testing.T) {
	t.Parallel()

	data, err := testfiles.FLAC(map[string]string{"TITLE": "title", "ARTIST": "artist"}, testfiles.PNG)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "track.flac")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	m := mobile.ExtractMetadata(path)
	require.NotNil(t, m)

	var keys []string
	for i := range m.Len() {
		keys = append(keys, m.Key(i))
	}
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, "TITLE")
	assert.Contains(t, keys, "ARTIST")
	assert.NotContains(t, keys, "YEAR")

	assert.Equal(t, "title", m.Get("TITLE"))
	assert.True(t, m.Has("ARTIST"))
	assert.False(t, m.Has("YEAR"))
	assert.Equal(t, "", m.Key(-1))
	assert.Equal(t, "", m.Key(m.Len()))

	assert.Equal(t, testfiles.PNG, mobile.ExtractArtwork(path))
}

func TestNoResult(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.opus")
	assert.Nil(t, mobile.ExtractMetadata(missing))
	assert.Nil(t, mobile.ExtractArtwork(missing))
}
