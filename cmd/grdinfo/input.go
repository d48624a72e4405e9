package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// decompressors maps a file suffix to the reader that undoes it.
var decompressors = map[string]func(r io.Reader) (io.ReadCloser, error){
	".gz": func(r io.Reader) (io.ReadCloser, error) {
		z, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return z, nil
	},
	".zst": func(r io.Reader) (io.ReadCloser, error) {
		z, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return z.IOReadCloser(), nil
	},
}

// readFile returns the contents of path, decompressed according to its
// suffix.
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decomp, ok := decompressors[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return io.ReadAll(f)
	}
	rc, err := decomp(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}
