// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGzip(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "barcodes.tsv")
	require.NoError(t, os.WriteFile(plain, []byte("AAAC-1\nAAAG-1\n"), 0o644))
	compressed := filepath.Join(dir, "barcodes.tsv.gz")
	writeGzip(t, compressed, "AAAC-1\nAAAG-1\n")

	for _, path := range []string{plain, compressed} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			rc, err := Open(path)
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, "AAAC-1\nAAAG-1\n", string(data))
		})
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "missing.tsv"))
	assert.Error(t, err)

	bogus := filepath.Join(dir, "bogus.tsv.gz")
	require.NoError(t, os.WriteFile(bogus, []byte("not gzip"), 0o644))
	_, err = Open(bogus)
	assert.Error(t, err)
}

func TestEachLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features.tsv")
	require.NoError(t, os.WriteFile(path, []byte("a\tb\r\nc\n\nd"), 0o644))

	var got []string
	var nums []int
	err := EachLine(path, func(n int, line string) error {
		nums = append(nums, n)
		got = append(got, line)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a\tb", "c", "", "d"}, got)
	assert.Equal(t, []int{1, 2, 3, 4}, nums)
}

func TestEachLineStopsOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lines.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\n2\n3\n"), 0o644))

	stop := errors.New("stop")
	calls := 0
	err := EachLine(path, func(n int, line string) error {
		calls++
		if n == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestIsCompressed(t *testing.T) {
	assert.True(t, IsCompressed("matrix.mtx.gz"))
	assert.False(t, IsCompressed("matrix.mtx"))
	assert.False(t, IsCompressed("matrix.gzip"))
}
