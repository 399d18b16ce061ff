package artwork

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// pictureTypeFront is how TagLib names the picture stored under an APE
// "COVER ART (FRONT)" item.
const pictureTypeFront = "Front Cover"

func readMP4(path string) ([]byte, error) {
	if err := checkContainer(path, tag.MP4, ""); err != nil {
		return nil, err
	}
	return readTagLib(path, firstPicture)
}

func readVorbis(path string) ([]byte, error) {
	if err := checkOgg(path, "\x01vorbis"); err != nil {
		return nil, err
	}
	return readTagLib(path, firstPicture)
}

func readOpus(path string) ([]byte, error) {
	if err := checkOgg(path, "OpusHead"); err != nil {
		return nil, err
	}
	return readTagLib(path, firstPicture)
}

var asfHeaderGUID = []byte{0x30, 0x26, 0xb2, 0x75, 0x8e, 0x66, 0xcf, 0x11, 0xa6, 0xd9, 0x00, 0xaa, 0x00, 0x62, 0xce, 0x6c}

func readASF(path string) ([]byte, error) {
	head, err := readHead(path, len(asfHeaderGUID))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(head, asfHeaderGUID) {
		return nil, invalidf("asf: no header object")
	}
	return readTagLib(path, firstPicture)
}

// APE and WavPack share the APEv2 tag. The picture is looked up by its key
// rather than by position.
func readAPE(path string) ([]byte, error) { return readTagLib(path, frontCover) }
func readWavPack(path string) ([]byte, error) { return readTagLib(path, frontCover) }

// pickFunc returns the index of the picture to read from TagLib's picture list,
// or -1 if there is none to read.
type pickFunc func(path string) (int, error)

func firstPicture(string) (int, error) { return 0, nil }

func frontCover(path string) (int, error) {
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return 0, fmt.Errorf("read properties: %w", err)
	}
	for i, img := range props.Images {
		if img.Type == pictureTypeFront {
			return i, nil
		}
	}
	return -1, nil
}

func readTagLib(path string, pick pickFunc) ([]byte, error) {
	// TagLib reports unreadable files as having no picture, so ask for tags first
	if _, err := taglib.ReadTags(path); err != nil {
		if errors.Is(err, taglib.ErrInvalidFile) {
			return nil, fmt.Errorf("%w: taglib: %w", ErrInvalid, err)
		}
		return nil, fmt.Errorf("read tags: %w", err)
	}

	i, err := pick(path)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, ErrNotFound
	}
	data, err := taglib.ReadImageOptions(path, i)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return data, nil
}

// checkContainer identifies the stream at path and reports [ErrInvalid] unless
// it has the wanted tag format, and file type if one is given.
func checkContainer(path string, format tag.Format, fileType tag.FileType) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gotFormat, gotFileType, err := tag.Identify(f)
	if err != nil {
		return fmt.Errorf("%w: identify: %w", ErrInvalid, err)
	}
	if gotFormat != format || (fileType != "" && gotFileType != fileType) {
		return invalidf("stream is %s/%s", gotFormat, gotFileType)
	}
	return nil
}

const (
	oggPageHeaderSize = 27
	oggSegmentCount   = 26
)

// checkOgg reports [ErrInvalid] unless path is an Ogg stream whose first packet
// starts with the codec's identification magic.
func checkOgg(path string, magic string) error {
	if err := checkContainer(path, tag.VORBIS, tag.OGG); err != nil {
		return err
	}
	head, err := readHead(path, oggPageHeaderSize)
	if err != nil {
		return err
	}
	// the first page holds only the identification packet, right after its lacing values
	packetStart := oggPageHeaderSize + int(head[oggSegmentCount])
	head, err = readHead(path, packetStart+len(magic))
	if err != nil {
		return err
	}
	if string(head[packetStart:]) != magic {
		return invalidf("ogg: first packet is not %q", magic)
	}
	return nil
}

// readHead returns the first n bytes of path. Short files are invalid.
func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, n)
	if _, err := io.ReadFull(f, head); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, invalidf("short file")
		}
		return nil, err
	}
	return head, nil
}
