// Package testcmds has helper commands for CLI test scripts.
package testcmds

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"maps"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"go.senan.xyz/tagbridge/internal/testfiles"
)

// Fixture writes a synthesized audio file.
//
//	fixture [-picture jpeg|png|none] KIND PATH [KEY VALUE]...
func Fixture() {
	picture := flag.String("picture", "jpeg", "embedded picture: jpeg, png or none")
	flag.Parse()

	kind, path := flag.Arg(0), flag.Arg(1)
	if kind == "" || path == "" {
		log.Fatalf("need a kind and a path")
	}
	pairs := flag.Args()[2:]
	if len(pairs)%2 != 0 {
		log.Fatalf("tags should be key value pairs")
	}
	tags := map[string]string{}
	for i := 0; i < len(pairs); i += 2 {
		tags[pairs[i]] = pairs[i+1]
	}

	var pictures [][]byte
	var class uint32
	switch *picture {
	case "jpeg":
		pictures, class = [][]byte{testfiles.JPEG}, 13
	case "png":
		pictures, class = [][]byte{testfiles.PNG}, 14
	case "none":
	default:
		log.Fatalf("bad picture %q", *picture)
	}

	keys := slices.Sorted(maps.Keys(tags))

	var comments []testfiles.Comment
	for _, k := range keys {
		comments = append(comments, testfiles.Comment{Key: k, Value: tags[k]})
	}
	for _, p := range pictures {
		comments = append(comments, testfiles.PictureComment(testfiles.BlockPicture, p))
	}
	var items []testfiles.APEItem
	for _, k := range keys {
		items = append(items, testfiles.APEItem{Key: k, Value: []byte(tags[k])})
	}
	for _, p := range pictures {
		items = append(items, testfiles.CoverItem("cover", p))
	}

	var data []byte
	var err error
	switch kind {
	case "flac":
		data, err = testfiles.FLAC(tags, pictures...)
	case "mp3":
		data, err = testfiles.MP3(tags, pictures...)
	case "m4a":
		data = testfiles.MP4(class, pictures...)
	case "ogg":
		data = testfiles.Vorbis(0, comments...)
	case "opus":
		data = testfiles.Opus(0, comments...)
	case "wma":
		data = testfiles.ASF(testfiles.ExtendedContentDescription, pictures...)
	case "ape":
		data = testfiles.APE(testfiles.MagicAPE, false, items...)
	case "wv":
		data = testfiles.APE(testfiles.MagicWavPack, false, items...)
	default:
		log.Fatalf("unknown kind %q", kind)
	}
	if err != nil {
		log.Fatalf("make %s: %v", kind, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		log.Fatalf("make parents: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("write: %v", err)
	}
}

func Find() {
	flag.Parse()

	paths := flag.Args()
	sort.Strings(paths)

	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			fmt.Println(filepath.Clean(path))
			return nil
		})
		if err != nil {
			log.Fatal(err)
		}
	}
}

func MIME() {
	flag.Parse()

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("error reading: %v", err)
	}

	mime := http.DetectContentType(data)
	fmt.Println(mime)
}
