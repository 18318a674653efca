// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mtx

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/matrix-import/internal/dict"
	"github.com/pdiddy/matrix-import/pkg/types"
)

// --- test helpers ---

func loadDicts(t *testing.T) (*dict.Features, *dict.Barcodes) {
	t.Helper()
	dir := t.TempDir()
	fp := filepath.Join(dir, "features.tsv")
	require.NoError(t, os.WriteFile(fp, []byte("G1\tTypeA\nG2\nG3\tG3\nG4\tTypeB\n"), 0o644))
	bp := filepath.Join(dir, "barcodes.tsv")
	require.NoError(t, os.WriteFile(bp, []byte("B1\nB2\nB3\n"), 0o644))

	f, err := dict.LoadFeatures(fp)
	require.NoError(t, err)
	b, err := dict.LoadBarcodes(bp)
	require.NoError(t, err)
	return f, b
}

func readAll(t *testing.T, body string, policy types.NumericPolicy) ([]types.ExpressionRecord, error) {
	t.Helper()
	f, b := loadDicts(t)
	r, err := NewReader(strings.NewReader(body), "matrix.mtx", f, b, policy)
	if err != nil {
		return nil, err
	}
	var recs []types.ExpressionRecord
	for r.Next() {
		recs = append(recs, r.Record())
	}
	return recs, r.Err()
}

const banner = "%%MatrixMarket matrix coordinate integer general\n"

// --- reader tests ---

func TestReaderScenario(t *testing.T) {
	body := banner + "4 3 3\n1 2 5\n2 1 1\n4 3 12\n"

	recs, err := readAll(t, body, types.NumericAuto)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, types.ExpressionRecord{Feature: "G1", FeatureType: "TypeA", Barcode: "B2", Value: types.IntValue(5)}, recs[0])
	assert.Equal(t, types.ExpressionRecord{Feature: "G2", FeatureType: types.DefaultFeatureType, Barcode: "B1", Value: types.IntValue(1)}, recs[1])
	assert.Equal(t, types.ExpressionRecord{Feature: "G4", FeatureType: "TypeB", Barcode: "B3", Value: types.IntValue(12)}, recs[2])
}

func TestReaderResolvesEveryCoordinate(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(banner)
	sb.WriteString("4 3 12\n")
	for fi := 1; fi <= 4; fi++ {
		for bi := 1; bi <= 3; bi++ {
			sb.WriteString(strings.Join([]string{strconv.Itoa(fi), strconv.Itoa(bi), strconv.Itoa(fi*10 + bi)}, " ") + "\n")
		}
	}

	recs, err := readAll(t, sb.String(), types.NumericAuto)
	require.NoError(t, err)
	require.Len(t, recs, 12)
	for i, rec := range recs {
		fi, bi := i/3+1, i%3+1
		assert.Equal(t, "G"+strconv.Itoa(fi), rec.Feature)
		assert.Equal(t, "B"+strconv.Itoa(bi), rec.Barcode)
		assert.Equal(t, int64(fi*10+bi), rec.Value.Int)
	}
}

func TestReaderHeaderVariants(t *testing.T) {
	tests := []struct {
		name       string
		preamble   string
		wantBanner bool
		wantLines  int
		wantField  string
	}{
		{"banner and dims", banner + "4 3 1\n", true, 2, "integer"},
		{"cellranger metadata comment", banner + "%metadata_json: {\"software_version\": \"cellranger-7.0.0\"}\n4 3 1\n", true, 3, "integer"},
		{"real field", "%%MatrixMarket matrix coordinate real general\n4 3 1\n", true, 2, "real"},
		{"no banner", "% written by hand\n4 3 1\n", false, 2, ""},
		{"crlf", "%%MatrixMarket matrix coordinate integer general\r\n4 3 1\r\n", true, 2, "integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, b := loadDicts(t)
			r, err := NewReader(strings.NewReader(tt.preamble+"1 1 1\n"), "m.mtx", f, b, types.NumericAuto)
			require.NoError(t, err)
			h := r.Header()
			assert.Equal(t, tt.wantBanner, h.HasBanner)
			assert.Equal(t, tt.wantLines, h.Lines)
			assert.Equal(t, tt.wantField, h.Field)
			assert.Equal(t, 4, h.Rows)
			assert.Equal(t, 3, h.Cols)
			assert.Equal(t, 1, h.Entries)

			require.True(t, r.Next())
			assert.False(t, r.Next())
			assert.NoError(t, r.Err())
		})
	}
}

func TestReaderHeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty file", ""},
		{"banner only", banner},
		{"array format", "%%MatrixMarket matrix array integer general\n4 3\n"},
		{"pattern field", "%%MatrixMarket matrix coordinate pattern general\n4 3 1\n"},
		{"short banner", "%%MatrixMarket matrix coordinate\n4 3 1\n"},
		{"two dimensions", banner + "4 3\n"},
		{"negative dimension", banner + "4 -3 1\n"},
		{"non-numeric dimension", banner + "4 x 1\n"},
		{"blank before dimensions", banner + "\n4 3 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAll(t, tt.body, types.NumericAuto)
			var hErr *HeaderError
			require.True(t, errors.As(err, &hErr), "got %v", err)
		})
	}
}

func TestReaderDimensionMismatch(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		what     string
		declared int
		actual   int
		records  int
	}{
		{"rows differ from features", banner + "5 3 0\n", "rows", 5, 4, 0},
		{"cols differ from barcodes", banner + "4 2 0\n", "cols", 2, 3, 0},
		{"fewer entries than declared", banner + "4 3 3\n1 1 1\n2 2 2\n", "entries", 3, 2, 2},
		{"more entries than declared", banner + "4 3 1\n1 1 1\n2 2 2\n", "entries", 1, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := readAll(t, tt.body, types.NumericAuto)
			var dErr *DimensionError
			require.True(t, errors.As(err, &dErr), "got %v", err)
			assert.Equal(t, tt.what, dErr.What)
			assert.Equal(t, tt.declared, dErr.Declared)
			assert.Equal(t, tt.actual, dErr.Actual)
			assert.Len(t, recs, tt.records)
		})
	}
}

func TestReaderOutOfRangeOrdinalHalts(t *testing.T) {
	body := banner + "4 3 4\n1 1 1\n9 1 1\n2 2 2\n3 3 3\n"

	f, b := loadDicts(t)
	r, err := NewReader(strings.NewReader(body), "m.mtx", f, b, types.NumericAuto)
	require.NoError(t, err)

	require.True(t, r.Next())
	assert.False(t, r.Next())
	assert.False(t, r.Next(), "reader must stay stopped after a resolution failure")
	assert.Equal(t, 1, r.Count())

	var rErr *ResolveError
	require.True(t, errors.As(r.Err(), &rErr))
	assert.Equal(t, "feature", rErr.Axis)
	assert.Equal(t, 9, rErr.Ordinal)
	assert.Equal(t, 4, rErr.Line)
	assert.Equal(t, 4, rErr.Size)
}

func TestReaderBarcodeOutOfRange(t *testing.T) {
	_, err := readAll(t, banner+"4 3 1\n1 0 1\n", types.NumericAuto)
	var rErr *ResolveError
	require.True(t, errors.As(err, &rErr))
	assert.Equal(t, "barcode", rErr.Axis)
	assert.Equal(t, 0, rErr.Ordinal)
}

func TestReaderMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"two fields", "1 1"},
		{"four fields", "1 1 1 1"},
		{"blank", ""},
		{"bad feature ordinal", "a 1 1"},
		{"bad barcode ordinal", "1 b 1"},
		{"bad value", "1 1 x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAll(t, banner+"4 3 2\n1 1 1\n"+tt.line+"\n", types.NumericAuto)
			var lErr *LineError
			require.True(t, errors.As(err, &lErr), "got %v", err)
			assert.Equal(t, 4, lErr.Line)
			assert.Equal(t, "matrix.mtx", lErr.Path)
			assert.Contains(t, err.Error(), "matrix.mtx:4")
		})
	}
}

func TestReaderNumericPolicy(t *testing.T) {
	body := "%%MatrixMarket matrix coordinate real general\n4 3 3\n1 1 3\n1 2 2.5\n1 3 4.0\n"

	recs, err := readAll(t, body, types.NumericAuto)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(3), 2.5, int64(4)}, []any{recs[0].Value.Interface(), recs[1].Value.Interface(), recs[2].Value.Interface()})

	recs, err = readAll(t, body, types.NumericFloat)
	require.NoError(t, err)
	assert.Equal(t, []any{3.0, 2.5, 4.0}, []any{recs[0].Value.Interface(), recs[1].Value.Interface(), recs[2].Value.Interface()})

	_, err = readAll(t, body, types.NumericInteger)
	var lErr *LineError
	require.True(t, errors.As(err, &lErr))
	assert.Equal(t, 4, lErr.Line)
}

func TestOpenCompressed(t *testing.T) {
	f, b := loadDicts(t)
	path := filepath.Join(t.TempDir(), "matrix.mtx.gz")
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(out)
	_, err = zw.Write([]byte(banner + "4 3 2\n1 1 7\n4 3 8\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	r, err := Open(path, f, b, types.NumericAuto)
	require.NoError(t, err)
	defer r.Close()

	n := 0
	for r.Next() {
		n++
	}
	require.NoError(t, r.Err())
	assert.Equal(t, 2, n)
	assert.Equal(t, 4, r.Line())
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in     string
		policy types.NumericPolicy
		want   types.Value
		ok     bool
	}{
		{"7", types.NumericAuto, types.IntValue(7), true},
		{"7.0", types.NumericAuto, types.IntValue(7), true},
		{"1e3", types.NumericAuto, types.IntValue(1000), true},
		{"0.25", types.NumericAuto, types.FloatValue(0.25), true},
		{"1e300", types.NumericAuto, types.FloatValue(1e300), true},
		{"7", types.NumericFloat, types.FloatValue(7), true},
		{"7", types.NumericInteger, types.IntValue(7), true},
		{"7.5", types.NumericInteger, types.Value{}, false},
		{"NaN", types.NumericAuto, types.Value{}, false},
		{"", types.NumericFloat, types.Value{}, false},
		{"1", types.NumericPolicy("decimal"), types.Value{}, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy)+"/"+tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in, tt.policy)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
