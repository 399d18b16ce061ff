package fileutil

import (
	"path/filepath"
	"strings"

	"github.com/rainycape/unidecode"
)

var safePathReplacer = strings.NewReplacer(
	"\x00", "",
	":", "",
	string(filepath.Separator), " ",
)

// SafePath makes a single path segment from s, transliterated to ASCII.
func SafePath(s string) string {
	s = unidecode.Unidecode(s)
	s = safePathReplacer.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}
