// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import "strings"

// Artifact names a category of required input.
type Artifact string

const (
	ArtifactMatrix Artifact = "matrix files"
	ArtifactTree   Artifact = "cluster tree"
	ArtifactLabels Artifact = "labels"
)

// ErrMissingFiles matches any *MissingError via errors.Is.
var ErrMissingFiles = &MissingError{}

// MissingError reports the artifact categories absent from the whole tree.
type MissingError struct {
	Root    string
	Missing []Artifact
}

func (e *MissingError) Error() string {
	lines := make([]string, len(e.Missing))
	for i, a := range e.Missing {
		lines[i] = string(a) + " not found"
	}
	return strings.Join(lines, "\n")
}

// Is reports whether target is a *MissingError, so that callers can test
// with errors.Is(err, ErrMissingFiles).
func (e *MissingError) Is(target error) bool {
	_, ok := target.(*MissingError)
	return ok
}

// Has reports whether a is among the missing categories.
func (e *MissingError) Has(a Artifact) bool {
	for _, m := range e.Missing {
		if m == a {
			return true
		}
	}
	return false
}

// FileSet records which artifact categories were seen during a walk.
type FileSet struct {
	Matrix bool
	Tree   bool
	Labels bool

	// MatrixDirs lists the qualifying matrix directories in walk order.
	MatrixDirs []string
}

// Add folds the classification of one directory into the set.
func (fs *FileSet) Add(c Class) {
	if c.HasMatrix() {
		fs.Matrix = true
		fs.MatrixDirs = append(fs.MatrixDirs, c.Dir)
	}
	if c.HasTree() {
		fs.Tree = true
	}
	if c.HasLabels() {
		fs.Labels = true
	}
}

// Complete returns a *MissingError naming every absent category, or nil.
func (fs *FileSet) Complete(root string) error {
	var missing []Artifact
	if !fs.Matrix {
		missing = append(missing, ArtifactMatrix)
	}
	if !fs.Tree {
		missing = append(missing, ArtifactTree)
	}
	if !fs.Labels {
		missing = append(missing, ArtifactLabels)
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingError{Root: root, Missing: missing}
}

// Check walks the full tree under root and verifies that at least one
// qualifying matrix directory and at least one of each auxiliary file exist.
// It is read-only and runs before any import work begins.
func Check(root string) (*FileSet, error) {
	fs := &FileSet{}
	err := Walk(root, func(d Dir) error {
		fs.Add(Classify(d))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := fs.Complete(root); err != nil {
		return fs, err
	}
	return fs, nil
}
