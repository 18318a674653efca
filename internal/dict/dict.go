// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dict loads the feature and barcode side files of a matrix
// directory into ordinal-indexed lookup tables. Ordinals are 1-based and
// follow file order, matching the coordinate space of the matrix body.
package dict

import (
	"fmt"
	"strings"

	"github.com/pdiddy/matrix-import/internal/textio"
	"github.com/pdiddy/matrix-import/pkg/types"
)

// RowError reports a malformed row in a side file.
type RowError struct {
	Path   string
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

// Features maps feature ordinals to feature annotations.
type Features struct {
	entries []types.Feature
}

// Len returns the number of loaded features.
func (f *Features) Len() int { return len(f.entries) }

// Lookup returns the feature with the given 1-based ordinal.
func (f *Features) Lookup(ordinal int) (types.Feature, bool) {
	if ordinal < 1 || ordinal > len(f.entries) {
		return types.Feature{}, false
	}
	return f.entries[ordinal-1], true
}

// Barcodes maps barcode ordinals to barcode strings.
type Barcodes struct {
	entries []string
}

// Len returns the number of loaded barcodes.
func (b *Barcodes) Len() int { return len(b.entries) }

// Lookup returns the barcode with the given 1-based ordinal.
func (b *Barcodes) Lookup(ordinal int) (string, bool) {
	if ordinal < 1 || ordinal > len(b.entries) {
		return "", false
	}
	return b.entries[ordinal-1], true
}

// ParseFeature builds a Feature from one tab-delimited row. The type is the
// second column when it is present, non-empty, and differs from the
// identifier; otherwise it is types.DefaultFeatureType.
func ParseFeature(row string) (types.Feature, bool) {
	cols := strings.Split(row, "\t")
	if cols[0] == "" {
		return types.Feature{}, false
	}
	f := types.Feature{ID: cols[0], Type: types.DefaultFeatureType}
	if len(cols) > 1 && cols[1] != "" && cols[1] != cols[0] {
		f.Type = cols[1]
	}
	return f, true
}

// LoadFeatures reads a features.tsv or genes.tsv file, optionally gzipped.
// A row with an empty identifier column is fatal.
func LoadFeatures(path string) (*Features, error) {
	f := &Features{}
	err := textio.EachLine(path, func(n int, line string) error {
		feat, ok := ParseFeature(line)
		if !ok {
			return &RowError{Path: path, Line: n, Reason: "empty feature identifier"}
		}
		f.entries = append(f.entries, feat)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// LoadBarcodes reads a barcodes.tsv file, optionally gzipped. Each line is
// one opaque barcode; an empty line is fatal.
func LoadBarcodes(path string) (*Barcodes, error) {
	b := &Barcodes{}
	err := textio.EachLine(path, func(n int, line string) error {
		if line == "" {
			return &RowError{Path: path, Line: n, Reason: "empty barcode"}
		}
		b.entries = append(b.entries, line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
