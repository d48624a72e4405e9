// Command grdinfo lists the gradients in a gradient (.grd) file and can
// render a preview swatch for each of them.
//
// Usage:
//
//	grdinfo [flags] FILE
//
// FILE may be gzip (.gz) or zstd (.zst) compressed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/grd"
)

type options struct {
	format   string
	swatches string
	width    int
	height   int
	scale    int
	ext      string
	jobs     int
	verbose  bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("grdinfo: ")
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("%v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("grdinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.format, "format", "text", "output format: text, json or yaml")
	fs.StringVar(&opts.swatches, "swatches", "", "write one swatch image per gradient into this directory")
	fs.IntVar(&opts.width, "width", 256, "swatch width")
	fs.IntVar(&opts.height, "height", 32, "swatch height")
	fs.IntVar(&opts.scale, "scale", 1, "integer swatch scale factor")
	fs.StringVar(&opts.ext, "ext", "png", "swatch image format: png, bmp or tiff")
	fs.IntVar(&opts.jobs, "j", 0, "swatches rendered in parallel (0 means GOMAXPROCS)")
	fs.BoolVar(&opts.verbose, "v", false, "log decoding progress to stderr")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: grdinfo [flags] FILE\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one FILE argument")
	}

	if opts.verbose {
		grd.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer grd.SetLogger(nil)
	}

	path := fs.Arg(0)
	data, err := readFile(path)
	if err != nil {
		return err
	}

	results, err := collect(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := report(stdout, opts.format, results); err != nil {
		return err
	}
	if opts.swatches != "" {
		return writeSwatches(opts, results)
	}
	return nil
}

// result is one record of the file: a gradient or the reason it could not
// be built.
type result struct {
	index    int
	gradient *grd.Gradient
	err      error
}

func collect(data []byte) ([]result, error) {
	var results []result
	err := grd.ParseAll(data, func(g *grd.Gradient, err error, index, _ int) bool {
		results = append(results, result{index: index, gradient: g, err: err})
		return true
	})
	return results, err
}
