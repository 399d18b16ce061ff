package artwork

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/go-flac"
)

func readFLAC(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta, err := flac.ParseMetadata(f)
	if err != nil {
		return nil, fmt.Errorf("%w: flac: %w", ErrInvalid, err)
	}
	for _, block := range meta.Meta {
		if block.Type != flac.Picture {
			continue
		}
		// unparsable blocks are left out of the picture list
		pic, err := flacpicture.ParseFromMetaDataBlock(*block)
		if err != nil {
			slog.Debug("skipping picture block", "path", path, "err", err)
			continue
		}
		return pic.ImageData, nil
	}
	return nil, ErrNotFound
}
