package artwork

import (
	"fmt"

	"github.com/bogem/id3v2/v2"
)

const frameAttachedPicture = "APIC"

func readMP3(path string) ([]byte, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{frameAttachedPicture}})
	if err != nil {
		return nil, fmt.Errorf("%w: id3v2: %w", ErrInvalid, err)
	}
	defer tag.Close()

	frames := tag.GetFrames(frameAttachedPicture)
	if len(frames) == 0 {
		return nil, ErrNotFound
	}
	pic, ok := frames[0].(id3v2.PictureFrame)
	if !ok {
		return nil, invalidf("unexpected %s frame %T", frameAttachedPicture, frames[0])
	}
	return pic.Picture, nil
}
