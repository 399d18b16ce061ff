// Package tagdebug helps diagnose garbled tag text. Legacy tags often hold bytes
// in a local code page that a reader decoded as ISO-8859-1. tagdebug recovers
// those bytes and shows how they decode under common code pages.
package tagdebug

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rainycape/unidecode"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"go.senan.xyz/tagbridge/metadata"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrNoTag        = errors.New("no tag found or file unreadable")
)

// Fields are the record fields checked, in report order.
var Fields = []string{metadata.Title, metadata.Artist, metadata.Album}

type Result struct {
	Path   string
	Fields []Field
	Err    error
}

type Field struct {
	Name       string
	Value      string
	Raw        []byte
	Detected   string
	Certain    bool
	Candidates []Candidate
}

type Candidate struct {
	Charset string
	Text    string
}

// Hex renders the raw bytes as space separated upper case pairs.
func (f Field) Hex() string {
	var sb strings.Builder
	for i, b := range f.Raw {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

type codePage struct {
	name string
	enc  encoding.Encoding
}

var codePages = []codePage{
	{"GBK", simplifiedchinese.GBK},
	{"GB18030", simplifiedchinese.GB18030},
	{"Big5", traditionalchinese.Big5},
	{"UTF-8", encoding.Nop},
	{"ISO-8859-1", charmap.ISO8859_1},
	{"EUC-KR", korean.EUCKR},
	{"Shift_JIS", japanese.ShiftJIS},
	{"Windows-1252", charmap.Windows1252},
}

func Debug(src metadata.Source, path string) Result {
	res := Result{Path: path}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			res.Err = ErrFileNotFound
			return res
		}
		res.Err = err
		return res
	}

	rec, err := metadata.Read(src, path)
	if err != nil {
		slog.Debug("read tags", "path", path, "err", err)
		res.Err = ErrNoTag
		return res
	}

	for _, name := range Fields {
		v := rec[name]
		if v == "" {
			continue
		}
		f := analyse(name, v)
		slog.Debug("field", "path", path, "name", f.Name, "value", f.Value, "hex", f.Hex(), "detected", f.Detected)
		res.Fields = append(res.Fields, f)
	}
	return res
}

func analyse(name, value string) Field {
	// runes outside Latin-1 become the encoder's replacement byte
	raw, _ := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).Bytes([]byte(value))

	_, detected, certain := charset.DetermineEncoding(raw, "text/plain")

	f := Field{
		Name:     name,
		Value:    value,
		Raw:      raw,
		Detected: detected,
		Certain:  certain,
	}
	for _, cp := range codePages {
		f.Candidates = append(f.Candidates, Candidate{Charset: cp.name, Text: decode(cp.enc, raw)})
	}
	f.Candidates = append(f.Candidates, Candidate{Charset: "ASCII", Text: unidecode.Unidecode(value)})
	return f
}

func decode(enc encoding.Encoding, raw []byte) string {
	b, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	if !utf8.Valid(b) {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(b)
}
