// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mtx

import "fmt"

// HeaderError reports an invalid or truncated preamble.
type HeaderError struct {
	Path   string
	Line   int
	Reason string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("%s:%d: invalid header: %s", e.Path, e.Line, e.Reason)
}

// LineError reports a data line that does not split into
// "feature barcode value" or whose fields do not parse.
type LineError struct {
	Path   string
	Line   int
	Text   string
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: malformed line %q: %s", e.Path, e.Line, e.Text, e.Reason)
}

// ResolveError reports a coordinate with no matching dictionary entry.
type ResolveError struct {
	Path    string
	Line    int
	Axis    string // "feature" or "barcode"
	Ordinal int
	Size    int
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s:%d: %s ordinal %d out of range (1-%d)", e.Path, e.Line, e.Axis, e.Ordinal, e.Size)
}

// DimensionError reports a disagreement between the dimension line and
// the side files or the body.
type DimensionError struct {
	Path     string
	What     string // "rows", "cols" or "entries"
	Declared int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: header declares %d %s, found %d", e.Path, e.Declared, e.What, e.Actual)
}
