// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mtx

import (
	"strconv"
	"strings"
)

const bannerPrefix = "%%MatrixMarket"

// Header is the parsed preamble of a Matrix Market coordinate file.
type Header struct {
	// Banner fields; empty when the file has no banner line.
	Object    string
	Format    string
	Field     string
	Symmetry  string
	HasBanner bool

	Rows    int
	Cols    int
	Entries int

	// Lines is the number of preamble lines, the dimension line included.
	Lines int
}

// headerParser consumes preamble lines one at a time until the dimension
// line has been read.
type headerParser struct {
	path string
	h    Header
	done bool
}

func (p *headerParser) feed(lineNo int, line string) error {
	p.h.Lines = lineNo
	trimmed := strings.TrimSpace(line)

	if lineNo == 1 && strings.HasPrefix(trimmed, bannerPrefix) {
		return p.banner(lineNo, trimmed)
	}
	if strings.HasPrefix(trimmed, "%") {
		return nil
	}
	if trimmed == "" {
		return &HeaderError{Path: p.path, Line: lineNo, Reason: "blank line before dimension line"}
	}
	return p.dimensions(lineNo, trimmed)
}

func (p *headerParser) banner(lineNo int, line string) error {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return &HeaderError{Path: p.path, Line: lineNo, Reason: "banner must have 5 fields"}
	}
	p.h.HasBanner = true
	p.h.Object = strings.ToLower(fields[1])
	p.h.Format = strings.ToLower(fields[2])
	p.h.Field = strings.ToLower(fields[3])
	p.h.Symmetry = strings.ToLower(fields[4])

	if p.h.Object != "matrix" {
		return &HeaderError{Path: p.path, Line: lineNo, Reason: "unsupported object " + strconv.Quote(p.h.Object)}
	}
	if p.h.Format != "coordinate" {
		return &HeaderError{Path: p.path, Line: lineNo, Reason: "unsupported format " + strconv.Quote(p.h.Format)}
	}
	switch p.h.Field {
	case "integer", "real", "double":
	default:
		return &HeaderError{Path: p.path, Line: lineNo, Reason: "unsupported field " + strconv.Quote(p.h.Field)}
	}
	return nil
}

func (p *headerParser) dimensions(lineNo int, line string) error {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return &HeaderError{Path: p.path, Line: lineNo, Reason: "dimension line must be \"rows cols entries\""}
	}
	dims := make([]int, 3)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return &HeaderError{Path: p.path, Line: lineNo, Reason: "invalid dimension " + strconv.Quote(f)}
		}
		dims[i] = n
	}
	p.h.Rows, p.h.Cols, p.h.Entries = dims[0], dims[1], dims[2]
	p.done = true
	return nil
}
