// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover walks an input tree and classifies each directory by the
// import artifacts it holds: a matrix triple (matrix.mtx, features.tsv or
// genes.tsv, barcodes.tsv, each optionally gzipped), the cluster tree
// document, and the label table.
package discover

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/pkg/errors"
)

const (
	// TreeFile is the cluster tree document copied to the static directory.
	TreeFile = "cluster_tree.json"
	// LabelsFile is the label table copied to the static directory.
	LabelsFile = "labels.csv"
)

var (
	matrixFileRe = regexp.MustCompile(`(features\.tsv|genes\.tsv|barcodes\.tsv|matrix\.mtx)(\.gz)?$`)
	matrixRe     = regexp.MustCompile(`matrix\.mtx(\.gz)?$`)
	featuresRe   = regexp.MustCompile(`(features|genes)\.tsv(\.gz)?$`)
	barcodesRe   = regexp.MustCompile(`barcodes\.tsv(\.gz)?$`)
)

// Dir is one directory visited by Walk with the regular files it contains.
type Dir struct {
	Path string
	// Files holds base names sorted lexicographically.
	Files []string
}

// Walk visits root and every directory below it in pre-order. A directory's
// files are reported before any of its subdirectories are entered, and
// subdirectories are visited in lexical order. Symlinks and other
// non-regular entries are ignored. An error from fn stops the walk.
func Walk(root string, fn func(Dir) error) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(err, "data directory %s", root)
	}
	if !info.IsDir() {
		return errors.Errorf("data directory %s is not a directory", root)
	}
	return walk(root, fn)
}

func walk(path string, fn func(Dir) error) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return errors.Wrapf(err, "reading directory %s", path)
	}

	dir := Dir{Path: path}
	var subdirs []string
	for _, e := range entries {
		switch {
		case e.IsDir():
			subdirs = append(subdirs, filepath.Join(path, e.Name()))
		case e.Type().IsRegular():
			dir.Files = append(dir.Files, e.Name())
		}
	}
	sort.Strings(dir.Files)
	sort.Strings(subdirs)

	if err := fn(dir); err != nil {
		return err
	}
	for _, sub := range subdirs {
		if err := walk(sub, fn); err != nil {
			return err
		}
	}
	return nil
}

// Kind tags the classification of a directory.
type Kind int

const (
	KindNone Kind = iota
	KindMatrix
	KindTree
	KindLabels
	// KindMultiple marks a directory holding more than one artifact
	// category; Class carries all of them.
	KindMultiple
)

func (k Kind) String() string {
	switch k {
	case KindMatrix:
		return "matrix"
	case KindTree:
		return "tree"
	case KindLabels:
		return "labels"
	case KindMultiple:
		return "multiple"
	default:
		return "none"
	}
}

// MatrixFiles holds the full paths of a qualifying matrix triple.
type MatrixFiles struct {
	Matrix   string `json:"matrix" yaml:"matrix"`
	Features string `json:"features" yaml:"features"`
	Barcodes string `json:"barcodes" yaml:"barcodes"`
}

// Class is the result of classifying one directory.
type Class struct {
	Kind Kind
	Dir  string

	// Matrix is set when the directory holds a complete matrix triple.
	Matrix *MatrixFiles
	// Tree and Labels hold full paths of the auxiliary files, if present.
	Tree   string
	Labels string
}

// HasMatrix reports whether the directory qualifies for matrix import.
func (c Class) HasMatrix() bool { return c.Matrix != nil }

// HasTree reports whether the directory holds the cluster tree document.
func (c Class) HasTree() bool { return c.Tree != "" }

// HasLabels reports whether the directory holds the label table.
func (c Class) HasLabels() bool { return c.Labels != "" }

// Classify inspects the files of d. A directory qualifies as a matrix
// directory only when exactly three matrix-related files are present and
// they cover the matrix, feature, and barcode roles.
func Classify(d Dir) Class {
	c := Class{Dir: d.Path}
	if m, ok := matrixTriple(d); ok {
		c.Matrix = &m
	}
	for _, name := range d.Files {
		switch name {
		case TreeFile:
			c.Tree = filepath.Join(d.Path, name)
		case LabelsFile:
			c.Labels = filepath.Join(d.Path, name)
		}
	}

	n := 0
	for _, present := range []bool{c.HasMatrix(), c.HasTree(), c.HasLabels()} {
		if present {
			n++
		}
	}
	switch {
	case n > 1:
		c.Kind = KindMultiple
	case c.HasMatrix():
		c.Kind = KindMatrix
	case c.HasTree():
		c.Kind = KindTree
	case c.HasLabels():
		c.Kind = KindLabels
	}
	return c
}

func matrixTriple(d Dir) (MatrixFiles, bool) {
	var candidates []string
	for _, name := range d.Files {
		if matrixFileRe.MatchString(name) {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) != 3 {
		return MatrixFiles{}, false
	}

	var m MatrixFiles
	for _, name := range candidates {
		full := filepath.Join(d.Path, name)
		switch {
		case matrixRe.MatchString(name):
			m.Matrix = full
		case featuresRe.MatchString(name):
			m.Features = full
		case barcodesRe.MatchString(name):
			m.Barcodes = full
		}
	}
	if m.Matrix == "" || m.Features == "" || m.Barcodes == "" {
		return MatrixFiles{}, false
	}
	return m, true
}
