// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mtx streams the body of a Matrix Market coordinate file as
// expression records. Each data line holds a feature ordinal, a barcode
// ordinal, and a value; ordinals are resolved against the dictionaries
// loaded from the same directory.
package mtx

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pdiddy/matrix-import/internal/dict"
	"github.com/pdiddy/matrix-import/internal/textio"
	"github.com/pdiddy/matrix-import/pkg/types"
)

// Reader yields one ExpressionRecord per data line, in file order. It is
// single-pass; reading again requires reopening the file.
type Reader struct {
	sc       *bufio.Scanner
	closer   io.Closer
	path     string
	features *dict.Features
	barcodes *dict.Barcodes
	policy   types.NumericPolicy

	header Header
	line   int
	count  int
	rec    types.ExpressionRecord
	err    error
	done   bool
}

// NewReader parses the preamble of r and checks the declared dimensions
// against the dictionaries. path is used in error messages.
func NewReader(r io.Reader, path string, features *dict.Features, barcodes *dict.Barcodes, policy types.NumericPolicy) (*Reader, error) {
	rd := &Reader{
		sc:       textio.NewScanner(r),
		path:     path,
		features: features,
		barcodes: barcodes,
		policy:   policy,
	}
	if err := rd.readHeader(); err != nil {
		return nil, err
	}
	return rd, nil
}

// Open opens the matrix file at path, decompressing it if needed, and
// returns a Reader positioned at the first data line. The caller must Close
// the Reader.
func Open(path string, features *dict.Features, barcodes *dict.Barcodes, policy types.NumericPolicy) (*Reader, error) {
	rc, err := textio.Open(path)
	if err != nil {
		return nil, err
	}
	rd, err := NewReader(rc, path, features, barcodes, policy)
	if err != nil {
		rc.Close()
		return nil, err
	}
	rd.closer = rc
	return rd, nil
}

func (r *Reader) readHeader() error {
	p := headerParser{path: r.path}
	for !p.done {
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return errors.Wrapf(err, "reading %s", r.path)
			}
			return &HeaderError{Path: r.path, Line: r.line, Reason: "missing dimension line"}
		}
		r.line++
		if err := p.feed(r.line, textio.TrimEOL(r.sc.Text())); err != nil {
			return err
		}
	}
	r.header = p.h

	if r.header.Rows != r.features.Len() {
		return &DimensionError{Path: r.path, What: "rows", Declared: r.header.Rows, Actual: r.features.Len()}
	}
	if r.header.Cols != r.barcodes.Len() {
		return &DimensionError{Path: r.path, What: "cols", Declared: r.header.Cols, Actual: r.barcodes.Len()}
	}
	return nil
}

// Header returns the parsed preamble.
func (r *Reader) Header() Header { return r.header }

// Next advances to the next record. It returns false at end of input or on
// the first error; Err distinguishes the two.
func (r *Reader) Next() bool {
	if r.done {
		return false
	}
	if !r.sc.Scan() {
		r.done = true
		if err := r.sc.Err(); err != nil {
			r.err = errors.Wrapf(err, "reading %s", r.path)
			return false
		}
		if r.count != r.header.Entries {
			r.err = &DimensionError{Path: r.path, What: "entries", Declared: r.header.Entries, Actual: r.count}
		}
		return false
	}
	r.line++

	rec, err := r.parse(textio.TrimEOL(r.sc.Text()))
	if err != nil {
		r.done = true
		r.err = err
		return false
	}
	r.count++
	if r.count > r.header.Entries {
		r.done = true
		r.err = &DimensionError{Path: r.path, What: "entries", Declared: r.header.Entries, Actual: r.count}
		return false
	}
	r.rec = rec
	return true
}

func (r *Reader) parse(line string) (types.ExpressionRecord, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return types.ExpressionRecord{}, r.lineError(line, "expected 3 fields, got "+strconv.Itoa(len(fields)))
	}

	fi, err := strconv.Atoi(fields[0])
	if err != nil {
		return types.ExpressionRecord{}, r.lineError(line, "invalid feature ordinal")
	}
	bi, err := strconv.Atoi(fields[1])
	if err != nil {
		return types.ExpressionRecord{}, r.lineError(line, "invalid barcode ordinal")
	}

	feat, ok := r.features.Lookup(fi)
	if !ok {
		return types.ExpressionRecord{}, &ResolveError{Path: r.path, Line: r.line, Axis: "feature", Ordinal: fi, Size: r.features.Len()}
	}
	barcode, ok := r.barcodes.Lookup(bi)
	if !ok {
		return types.ExpressionRecord{}, &ResolveError{Path: r.path, Line: r.line, Axis: "barcode", Ordinal: bi, Size: r.barcodes.Len()}
	}

	v, err := ParseValue(fields[2], r.policy)
	if err != nil {
		return types.ExpressionRecord{}, r.lineError(line, err.Error())
	}

	return types.ExpressionRecord{
		Feature:     feat.ID,
		FeatureType: feat.Type,
		Barcode:     barcode,
		Value:       v,
	}, nil
}

func (r *Reader) lineError(text, reason string) error {
	return &LineError{Path: r.path, Line: r.line, Text: text, Reason: reason}
}

// Record returns the record produced by the last successful Next.
func (r *Reader) Record() types.ExpressionRecord { return r.rec }

// Err returns the error that stopped iteration, if any.
func (r *Reader) Err() error { return r.err }

// Line returns the 1-based number of the last line read.
func (r *Reader) Line() int { return r.line }

// Count returns the number of records produced so far.
func (r *Reader) Count() int { return r.count }

// Close releases the underlying file when the Reader was created by Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
