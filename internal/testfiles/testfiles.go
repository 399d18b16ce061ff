// Package testfiles synthesizes small audio files for tests. The files carry real
// tag structures but no decodable audio.
package testfiles

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"golang.org/x/text/encoding/unicode"
)

// JPEG and PNG are payloads that start with the matching image signature.
var (
	JPEG = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00fake jpeg")
	PNG  = []byte("\x89PNG\r\n\x1a\nfake png")
)

// Picture returns a distinct payload for index i.
func Picture(i int) []byte {
	return fmt.Appendf(bytes.Clone(JPEG), " %d", i)
}

// MP3 returns an ID3v2.4 tag with one APIC frame per picture, followed by a
// single silent MPEG frame header.
func MP3(tags map[string]string, pictures ...[]byte) ([]byte, error) {
	tag := id3v2.NewEmptyTag()
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	for _, k := range slices.Sorted(maps.Keys(tags)) {
		tag.AddTextFrame(k, id3v2.EncodingUTF8, tags[k])
	}
	for i, p := range pictures {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: fmt.Sprintf("picture %d", i), // frames are unique by description
			Picture:     p,
		})
	}
	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write id3v2: %w", err)
	}
	buf.Write([]byte{0xff, 0xfb, 0x90, 0x64})
	buf.Write(make([]byte, 413))
	return buf.Bytes(), nil
}

// FLAC stream parameters used by [FLAC]. The stream is two seconds long.
const (
	FLACSampleRate = 44100
	FLACChannels   = 2
	FLACLength     = 2000 // ms
)

// FLAC returns a FLAC stream with a STREAMINFO block, a VORBIS_COMMENT block with
// comments, and one PICTURE block per picture.
func FLAC(comments map[string]string, pictures ...[]byte) ([]byte, error) {
	cmts := flacvorbis.New()
	for _, k := range slices.Sorted(maps.Keys(comments)) {
		if err := cmts.Add(k, comments[k]); err != nil {
			return nil, fmt.Errorf("add comment %q: %w", k, err)
		}
	}
	cmtsBlock := cmts.Marshal()

	f := &flac.File{
		Meta: []*flac.MetaDataBlock{
			{Type: flac.StreamInfo, Data: streamInfo(FLACSampleRate, FLACChannels, 16, FLACSampleRate*FLACLength/1000)},
			&cmtsBlock,
		},
	}
	for i, p := range pictures {
		block := PictureBlock(i, p)
		f.Meta = append(f.Meta, &block)
	}
	return f.Marshal(), nil
}

// PictureBlock returns a FLAC PICTURE metadata block holding data.
func PictureBlock(i int, data []byte) flac.MetaDataBlock {
	pic := &flacpicture.MetadataBlockPicture{
		PictureType: flacpicture.PictureTypeFrontCover,
		MIME:        "image/jpeg",
		Description: fmt.Sprintf("picture %d", i),
		Width:       1,
		Height:      1,
		ColorDepth:  24,
		ImageData:   data,
	}
	return pic.Marshal()
}

func streamInfo(sampleRate, channels, bitsPerSample int, totalSamples uint64) []byte {
	b := make([]byte, 34)
	binary.BigEndian.PutUint16(b[0:], 4096)
	binary.BigEndian.PutUint16(b[2:], 4096)
	// 20 bits sample rate, 3 bits channels-1, 5 bits bits-per-sample-1, 36 bits total samples
	v := uint64(sampleRate)<<44 | uint64(channels-1)<<41 | uint64(bitsPerSample-1)<<36 | totalSamples&(1<<36-1)
	binary.BigEndian.PutUint64(b[10:], v)
	return b
}

// MP4 returns an ftyp atom and a moov atom whose ilst carries a covr item with
// one data box per picture. class is the data boxes' type indicator: 13 for JPEG,
// 14 for PNG, 0 for implicit.
func MP4(class uint32, pictures ...[]byte) []byte {
	var buf bytes.Buffer
	buf.Write(atom("ftyp", []byte("M4A \x00\x00\x00\x00M4A mp42isom")))

	mvhd := atom("mvhd", make([]byte, 100))
	var ilst []byte
	if len(pictures) > 0 {
		var covr []byte
		for _, p := range pictures {
			data := binary.BigEndian.AppendUint32(nil, class) // version 0 then class
			data = append(data, 0, 0, 0, 0)                   // locale
			data = append(data, p...)
			covr = append(covr, atom("data", data)...)
		}
		ilst = atom("covr", covr)
	}
	meta := append([]byte{0, 0, 0, 0}, atom("ilst", ilst)...)
	moov := atom("moov", slices.Concat(mvhd, atom("udta", atom("meta", meta))))
	buf.Write(moov)
	buf.Write(atom("mdat", make([]byte, 16)))
	return buf.Bytes()
}

func atom(name string, body []byte) []byte {
	b := binary.BigEndian.AppendUint32(nil, uint32(8+len(body)))
	b = append(b, name...)
	return append(b, body...)
}

// Xiph comment picture encodings.
type XiphPicture int

const (
	BlockPicture XiphPicture = iota // METADATA_BLOCK_PICTURE
	CoverArt                        // legacy COVERART
)

// Comment is a Xiph comment field. Fields keep their order.
type Comment struct {
	Key, Value string
}

// PictureComment encodes data as a picture comment field.
func PictureComment(kind XiphPicture, data []byte) Comment {
	switch kind {
	case CoverArt:
		return Comment{"COVERART", base64.StdEncoding.EncodeToString(data)}
	default:
		block := PictureBlock(0, data)
		return Comment{"METADATA_BLOCK_PICTURE", base64.StdEncoding.EncodeToString(block.Data)}
	}
}

// Vorbis returns an Ogg Vorbis stream with the identification and comment
// headers. Pages hold at most segmentsPerPage lacing values, so a small value
// splits the comment packet across pages.
func Vorbis(segmentsPerPage int, comments ...Comment) []byte {
	ident := []byte("\x01vorbis")
	ident = binary.LittleEndian.AppendUint32(ident, 0) // version
	ident = append(ident, FLACChannels)
	ident = binary.LittleEndian.AppendUint32(ident, FLACSampleRate)
	ident = binary.LittleEndian.AppendUint32(ident, 0)
	ident = binary.LittleEndian.AppendUint32(ident, 128000)
	ident = binary.LittleEndian.AppendUint32(ident, 0)
	ident = append(ident, 0xb8, 1) // block sizes, framing

	cmts := append([]byte("\x03vorbis"), commentBlock(comments)...)
	cmts = append(cmts, 1) // framing

	return oggPages(0x1234, segmentsPerPage, ident, cmts, []byte("\x05vorbis"))
}

// Opus returns an Ogg Opus stream with the OpusHead and OpusTags packets.
func Opus(segmentsPerPage int, comments ...Comment) []byte {
	head := []byte("OpusHead")
	head = append(head, 1, FLACChannels)
	head = binary.LittleEndian.AppendUint16(head, 312)
	head = binary.LittleEndian.AppendUint32(head, 48000)
	head = binary.LittleEndian.AppendUint16(head, 0)
	head = append(head, 0)

	tags := append([]byte("OpusTags"), commentBlock(comments)...)

	return oggPages(0x5678, segmentsPerPage, head, tags)
}

func commentBlock(comments []Comment) []byte {
	const vendor = "testfiles"
	b := binary.LittleEndian.AppendUint32(nil, uint32(len(vendor)))
	b = append(b, vendor...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(comments)))
	for _, c := range comments {
		field := c.Key + "=" + c.Value
		b = binary.LittleEndian.AppendUint32(b, uint32(len(field)))
		b = append(b, field...)
	}
	return b
}

// oggPages lays packets out in pages of one logical stream. Each packet starts
// on a fresh page.
func oggPages(serial uint32, segmentsPerPage int, packets ...[]byte) []byte {
	if segmentsPerPage <= 0 || segmentsPerPage > 255 {
		segmentsPerPage = 255
	}
	var out []byte
	var seq uint32
	for pi, p := range packets {
		lacing := make([]byte, 0, len(p)/255+1)
		for n := len(p); ; n -= 255 {
			if n < 255 {
				lacing = append(lacing, byte(n))
				break
			}
			lacing = append(lacing, 255)
		}
		for first := true; len(lacing) > 0; first = false {
			n := min(segmentsPerPage, len(lacing))
			var size int
			for _, l := range lacing[:n] {
				size += int(l)
			}
			var flags byte
			if !first {
				flags |= 0x01 // continued
			}
			if pi == 0 && first {
				flags |= 0x02 // beginning of stream
			}
			if pi == len(packets)-1 && n == len(lacing) {
				flags |= 0x04 // end of stream
			}
			var page []byte
			page = append(page, "OggS"...)
			page = append(page, 0, flags)
			page = binary.LittleEndian.AppendUint64(page, 0)
			page = binary.LittleEndian.AppendUint32(page, serial)
			page = binary.LittleEndian.AppendUint32(page, seq)
			page = binary.LittleEndian.AppendUint32(page, 0)
			page = append(page, byte(n))
			page = append(page, lacing[:n]...)
			page = append(page, p[:size]...)
			binary.LittleEndian.PutUint32(page[22:], oggCRC(page))
			out = append(out, page...)
			p, lacing = p[size:], lacing[n:]
			seq++
		}
	}
	return out
}

// oggCRC is the page checksum: CRC-32 with polynomial 0x04c11db7, no reflection,
// zero initial value and no final xor.
func oggCRC(page []byte) uint32 {
	var crc uint32
	for _, b := range page {
		crc ^= uint32(b) << 24
		for range 8 {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ 0x04c11db7
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// ASF attribute locations.
type ASFObject int

const (
	ExtendedContentDescription ASFObject = iota
	MetadataLibrary
)

// ASF returns an ASF header whose WM/Picture attributes hold pictures, stored in
// the object given by where. The header also has the mandatory file and stream
// properties objects.
func ASF(where ASFObject, pictures ...[]byte) []byte {
	var values [][]byte
	for i, p := range pictures {
		values = append(values, WMPicture(fmt.Sprintf("picture %d", i), p))
	}
	objects := [][]byte{
		asfObject(guidFileProperties, make([]byte, 80)),
		asfObject(guidStreamProperties, make([]byte, 78)),
	}
	switch where {
	case MetadataLibrary:
		objects = append(objects, asfObject(guidHeaderExtension, headerExtension(asfObject(guidMetadataLibrary, metadataLibrary(values)))))
	default:
		objects = append(objects, asfObject(guidExtendedContentDescription, extendedContent(values)))
	}

	header := slices.Concat(guidHeader[:], make([]byte, 8))
	header = binary.LittleEndian.AppendUint32(header, uint32(len(objects)))
	header = append(header, 1, 2) // reserved
	header = append(header, slices.Concat(objects...)...)
	binary.LittleEndian.PutUint64(header[16:], uint64(len(header)))

	return append(header, asfObject(guidData, make([]byte, 26))...)
}

// WMPicture encodes a WM/Picture attribute value.
func WMPicture(description string, data []byte) []byte {
	b := []byte{3} // front cover
	b = binary.LittleEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, utf16z("image/jpeg")...)
	b = append(b, utf16z(description)...)
	return append(b, data...)
}

const asfTypeBytes = 1

func extendedContent(values [][]byte) []byte {
	b := binary.LittleEndian.AppendUint16(nil, uint16(len(values)+1))
	b = appendECD(b, "WM/AlbumTitle", 0, utf16z("album"))
	for _, v := range values {
		b = appendECD(b, "WM/Picture", asfTypeBytes, v)
	}
	return b
}

func appendECD(b []byte, name string, typ uint16, value []byte) []byte {
	n := utf16z(name)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(n)))
	b = append(b, n...)
	b = binary.LittleEndian.AppendUint16(b, typ)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(value)))
	return append(b, value...)
}

func metadataLibrary(values [][]byte) []byte {
	b := binary.LittleEndian.AppendUint16(nil, uint16(len(values)))
	for _, v := range values {
		n := utf16z("WM/Picture")
		b = binary.LittleEndian.AppendUint16(b, 0) // language
		b = binary.LittleEndian.AppendUint16(b, 0) // stream
		b = binary.LittleEndian.AppendUint16(b, uint16(len(n)))
		b = binary.LittleEndian.AppendUint16(b, asfTypeBytes)
		b = binary.LittleEndian.AppendUint32(b, uint32(len(v)))
		b = append(b, n...)
		b = append(b, v...)
	}
	return b
}

func headerExtension(objects []byte) []byte {
	b := slices.Clone(guidReserved1[:])
	b = binary.LittleEndian.AppendUint16(b, 6)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(objects)))
	return append(b, objects...)
}

func asfObject(id [16]byte, body []byte) []byte {
	b := slices.Clone(id[:])
	b = binary.LittleEndian.AppendUint64(b, uint64(24+len(body)))
	return append(b, body...)
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func utf16z(s string) []byte {
	b, err := utf16le.NewEncoder().Bytes([]byte(s + "\x00"))
	if err != nil {
		panic(err)
	}
	return b
}

var (
	guidHeader                     = guid("75B22630-668E-11CF-A6D9-00AA0062CE6C")
	guidData                       = guid("75B22636-668E-11CF-A6D9-00AA0062CE6C")
	guidFileProperties             = guid("8CABDCA1-A947-11CF-8EE4-00C00C205365")
	guidStreamProperties           = guid("B7DC0791-A9B7-11CF-8EE6-00C00C205365")
	guidExtendedContentDescription = guid("D2D0A440-E307-11D2-97F0-00A0C95EA850")
	guidHeaderExtension            = guid("5FBF03B5-A92E-11CF-8EE3-00C00C205365")
	guidMetadataLibrary            = guid("44231C94-9498-49D1-A141-1D134E457054")
	guidReserved1                  = guid("ABD3D211-A9BA-11CF-8EE6-00C00C205365")
)

func guid(s string) [16]byte {
	h, err := hex.DecodeString(strings.ReplaceAll(s, "-", ""))
	if err != nil || len(h) != 16 {
		panic("bad guid " + s)
	}
	return [16]byte{h[3], h[2], h[1], h[0], h[5], h[4], h[7], h[6], h[8], h[9], h[10], h[11], h[12], h[13], h[14], h[15]}
}

// APEItem is an APEv2 tag item. Binary items carry a description, a NUL, then
// the picture.
type APEItem struct {
	Key    string
	Value  []byte
	Binary bool
}

// CoverItem returns a binary COVER ART (FRONT) item.
func CoverItem(description string, data []byte) APEItem {
	return APEItem{Key: "Cover Art (Front)", Value: slices.Concat([]byte(description), []byte{0}, data), Binary: true}
}

// Stream magics for [APE].
const (
	MagicAPE     = "MAC "
	MagicWavPack = "wvpk"
)

// APE returns a stream starting with magic and ending with an APEv2 tag holding
// items. With id3v1 set, an ID3v1 tag follows the APE tag.
func APE(magic string, id3v1 bool, items ...APEItem) []byte {
	out := []byte(magic)
	out = append(out, make([]byte, 60)...)

	var body []byte
	for _, it := range items {
		var flags uint32
		if it.Binary {
			flags = 1 << 1
		}
		body = binary.LittleEndian.AppendUint32(body, uint32(len(it.Value)))
		body = binary.LittleEndian.AppendUint32(body, flags)
		body = append(body, it.Key...)
		body = append(body, 0)
		body = append(body, it.Value...)
	}
	out = append(out, body...)

	out = append(out, "APETAGEX"...)
	out = binary.LittleEndian.AppendUint32(out, 2000)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)+32))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(items)))
	out = binary.LittleEndian.AppendUint32(out, 0)
	out = append(out, make([]byte, 8)...)

	if id3v1 {
		tag := make([]byte, 128)
		copy(tag, "TAG")
		copy(tag[3:], "title")
		out = append(out, tag...)
	}
	return out
}
