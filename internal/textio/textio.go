// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textio opens plain or gzip-compressed text inputs and reads them
// line by line.
package textio

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// CompressedSuffix marks files that are decompressed on open.
const CompressedSuffix = ".gz"

// maxLineSize bounds a single line. Feature and barcode lines are short, but
// some matrix files carry long metadata comments in the preamble.
const maxLineSize = 16 * 1024 * 1024

// IsCompressed reports whether path names a gzip file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, CompressedSuffix)
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens path for reading. Files ending in .gz are decompressed
// transparently; everything else is returned as is.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	if !IsCompressed(path) {
		return f, nil
	}
	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "reading gzip header of %s", path)
	}
	return &readCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
}

// NewScanner returns a line scanner over r with a buffer large enough for
// long preamble lines.
func NewScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}

// TrimEOL removes a trailing carriage return left by CRLF line endings.
func TrimEOL(line string) string {
	return strings.TrimSuffix(line, "\r")
}

// EachLine calls fn for every line of the file at path with its 1-based
// line number. Reading stops at the first error returned by fn.
func EachLine(path string, fn func(lineNo int, line string) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	sc := NewScanner(rc)
	n := 0
	for sc.Scan() {
		n++
		if err := fn(n, TrimEOL(sc.Text())); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	return nil
}
