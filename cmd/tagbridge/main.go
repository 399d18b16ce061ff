package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"go.senan.xyz/natcmp"
	"go.senan.xyz/table/table"
	"golang.org/x/sync/errgroup"

	"go.senan.xyz/tagbridge"
	"go.senan.xyz/tagbridge/artwork"
	"go.senan.xyz/tagbridge/cmd/internal/flags"
	"go.senan.xyz/tagbridge/fileutil"
	"go.senan.xyz/tagbridge/metadata"
	"go.senan.xyz/tagbridge/tagdebug"
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage:\n")
		fmt.Fprintf(flag.CommandLine.Output(), "  $ %s [<options>] metadata               -- PATH...\n", tagbridge.Name)
		fmt.Fprintf(flag.CommandLine.Output(), "  $ %s [<options>] artwork [-out <dir>]   -- PATH...\n", tagbridge.Name)
		fmt.Fprintf(flag.CommandLine.Output(), "  $ %s [<options>] debug                  -- PATH...\n", tagbridge.Name)
		fmt.Fprintf(flag.CommandLine.Output(), "\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Directories are walked for files with a known audio extension.\n")
		fmt.Fprintf(flag.CommandLine.Output(), "\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Examples:\n")
		fmt.Fprintf(flag.CommandLine.Output(), "  $ %s metadata -- a.flac b.mp3\n", tagbridge.Name)
		fmt.Fprintf(flag.CommandLine.Output(), "  $ %s -jobs 8 artwork -out covers/ -- ~/music\n", tagbridge.Name)
		fmt.Fprintf(flag.CommandLine.Output(), "  $ %s debug -- \"legacy.mp3\"\n", tagbridge.Name)
		fmt.Fprintf(flag.CommandLine.Output(), "\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Options:\n")
		flag.PrintDefaults()
	}
}

func main() {
	defer flags.ExitError()
	var (
		jobs   = flags.Jobs()
		source = flags.Source()
	)
	flags.EnvPrefix(tagbridge.Name)
	flags.Parse()

	command := flag.Arg(0)
	switch command {
	case "metadata", "artwork", "debug":
	default:
		flag.Usage()
		os.Exit(2)
	}

	subflag := flag.NewFlagSet(command, flag.ExitOnError)
	var outDir *string
	if command == "artwork" {
		outDir = subflag.String("out", "", "write pictures to this directory instead of listing them")
	}
	_ = subflag.Parse(flag.Args()[1:])

	if subflag.NArg() == 0 {
		fmt.Fprintf(flag.CommandLine.Output(), "no paths provided\n\n")
		flag.Usage()
		os.Exit(2)
	}

	paths, err := collectPaths(subflag.Args())
	if err != nil {
		slog.Error("collect paths", "err", err)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var run func(path string) (any, error)
	switch command {
	case "metadata":
		run = func(path string) (any, error) { return metadata.Read(*source, path) }
	case "artwork":
		run = func(path string) (any, error) { return tagbridge.ReadArtwork(path) }
	case "debug":
		run = func(path string) (any, error) {
			res := tagdebug.Debug(*source, path)
			return res, res.Err
		}
	}

	results := readAll(ctx, *jobs, paths, run)

	names := map[string]int{}
	for i, path := range paths {
		r := results[i]
		if r.err != nil {
			logResult(path, r.err)
			continue
		}
		switch v := r.value.(type) {
		case metadata.Record:
			printMetadata(os.Stdout, path, v)
		case []byte:
			if *outDir == "" {
				fmt.Printf("%s\t%d\t%s\n", path, len(v), http.DetectContentType(v))
				continue
			}
			dest, err := writeArtwork(*outDir, names, path, v)
			if err != nil {
				slog.Error("write artwork", "path", path, "err", err)
				continue
			}
			fmt.Printf("%s\t%s\n", path, dest)
		case tagdebug.Result:
			printDebug(os.Stdout, v)
		}
	}
}

type result struct {
	value any
	err   error
}

// readAll runs fn over paths with at most jobs in flight. Results keep the order of
// paths. Paths not started before ctx is done report its error.
func readAll(ctx context.Context, jobs int, paths []string, fn func(string) (any, error)) []result {
	results := make([]result, len(paths))

	var g errgroup.Group
	g.SetLimit(max(jobs, 1))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			results[i].err = err
			continue
		}
		g.Go(func() error {
			v, err := fn(path)
			results[i] = result{v, err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func logResult(path string, err error) {
	switch {
	case errors.Is(err, tagdebug.ErrNoTag):
		slog.Warn("no result", "path", path, "err", err)
	case tagbridge.Classify(err) == tagbridge.ReadError:
		slog.Error("read", "path", path, "err", err)
	default:
		slog.Warn("no result", "path", path, "outcome", tagbridge.Classify(err), "err", err)
	}
}

func printMetadata(w io.Writer, path string, rec metadata.Record) {
	for _, k := range metadata.Fields {
		if v, ok := rec[k]; ok {
			fmt.Fprintf(w, "%s\t%s\t%s\n", path, k, v)
		}
	}
}

func printDebug(w io.Writer, res tagdebug.Result) {
	t := table.NewStringWriter()
	for _, f := range res.Fields {
		detected := f.Detected
		if !f.Certain {
			detected += " (uncertain)"
		}
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\n", res.Path, f.Name, "value", f.Value)
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\n", res.Path, f.Name, "hex", f.Hex())
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\n", res.Path, f.Name, "detected", detected)
		for _, c := range f.Candidates {
			fmt.Fprintf(t, "%s\t%s\t%s\t%s\n", res.Path, f.Name, c.Charset, c.Text)
		}
	}
	fmt.Fprint(w, t.String())
}

var pictureExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/webp": ".webp",
}

// writeArtwork writes data to dir, named after the audio file. Names already
// taken in this run get a numeric suffix.
func writeArtwork(dir string, names map[string]int, path string, data []byte) (string, error) {
	ext, ok := pictureExtensions[http.DetectContentType(data)]
	if !ok {
		ext = ".bin"
	}

	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := fileutil.SafePath(base)
	if n := names[name]; n > 0 {
		names[name]++
		name = fmt.Sprintf("%s %d", name, n+1)
	} else {
		names[name] = 1
	}

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("make out dir: %w", err)
	}
	dest := filepath.Join(dir, name+ext)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	return dest, nil
}

// collectPaths expands directories to the files inside them with a known audio
// extension, then sorts the lot in natural order.
func collectPaths(args []string) ([]string, error) {
	var paths []string
	for _, p := range args {
		info, err := os.Stat(p)
		if err != nil {
			// let the reader report missing files
			if errors.Is(err, fs.ErrNotExist) {
				paths = append(paths, p)
				continue
			}
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !artwork.CanRead(path) {
				return nil
			}
			paths = append(paths, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk: %w", err)
		}
	}
	slices.SortFunc(paths, natcmp.Compare)
	return slices.Compact(paths), nil
}
