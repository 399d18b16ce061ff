// tags wraps go-taglib to normalise known tag variants and read audio properties
package tags

import (
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
	"go.senan.xyz/taglib"
)

// https://taglib.org/api/p_propertymapping.html

const (
	Title       = "TITLE"
	Artist      = "ARTIST"
	Album       = "ALBUM"
	Comment     = "COMMENT"
	Genre       = "GENRE"
	Date        = "DATE"        //tag: alts "YEAR"
	TrackNumber = "TRACKNUMBER" //tag: alts "TRACK" "TRACKC"
)

var alternatives = map[string]string{
	"YEAR":   Date,
	"TRACK":  TrackNumber,
	"TRACKC": TrackNumber,
}

// TagLib reads through the WASM build of TagLib. Every call opens and releases the
// file on its own.
type TagLib struct{}

func (TagLib) ReadTags(path string) (Tags, error)             { return ReadTags(path) }
func (TagLib) ReadProperties(path string) (Properties, error) { return ReadProperties(path) }

func ReadTags(path string) (Tags, error) {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return Tags{}, err
	}
	return FromMap(raw), nil
}

type Properties struct {
	Length     time.Duration
	Bitrate    uint
	SampleRate uint
	Channels   uint
}

func ReadProperties(path string) (Properties, error) {
	p, err := taglib.ReadProperties(path)
	if err != nil {
		return Properties{}, err
	}
	return Properties{
		Length:     p.Length,
		Bitrate:    p.Bitrate,
		SampleRate: p.SampleRate,
		Channels:   p.Channels,
	}, nil
}

type Tags struct {
	t map[string][]string
}

func NewTags(vs ...string) Tags {
	if len(vs)%2 != 0 {
		panic("vs should be kv pairs")
	}
	var t Tags
	for i := 0; i < len(vs)-1; i += 2 {
		t.Set(vs[i], vs[i+1])
	}
	return t
}

// FromMap normalises the keys of a raw property map. When both a key and one of its
// alternatives are present, the canonical key wins.
func FromMap(raw map[string][]string) Tags {
	var t Tags
	for _, k := range slices.Sorted(maps.Keys(raw)) {
		nk := NormKey(k)
		if _, ok := t.t[nk]; ok && nk != strings.ToUpper(k) {
			continue
		}
		t.Set(nk, raw[k]...)
	}
	return t
}

func (t Tags) Iter() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, k := range slices.Sorted(maps.Keys(t.t)) {
			if !yield(k, t.t[k]) {
				break
			}
		}
	}
}

func (t *Tags) Set(key string, values ...string) {
	if t.t == nil {
		t.t = map[string][]string{}
	}
	t.t[NormKey(key)] = values
}

func (t Tags) Get(key string) string {
	if vs := t.t[NormKey(key)]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func (t Tags) Values(key string) []string {
	return t.t[NormKey(key)]
}

// Text joins every value of key with a space, like TagLib's scalar tag accessors.
func (t Tags) Text(key string) string {
	return strings.Join(t.Values(key), " ")
}

// Year is the year of DATE, or 0 when unset or unparsable.
func (t Tags) Year() int {
	v := strings.TrimSpace(t.Get(Date))
	if v == "" {
		return 0
	}
	if tm, err := dateparse.ParseAny(v); err == nil {
		return tm.Year()
	}
	return leadingInt(v)
}

// Track is the position part of TRACKNUMBER, eg. 5 for "5/12".
func (t Tags) Track() int {
	start, _, _ := strings.Cut(t.Get(TrackNumber), "/")
	return leadingInt(strings.TrimSpace(start))
}

func NormKey(k string) string {
	k = strings.ToUpper(k)
	if nk, ok := alternatives[k]; ok {
		return nk
	}
	return k
}

func leadingInt(s string) int {
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) || r > unicode.MaxASCII })
	if end < 0 {
		end = len(s)
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}
