// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sqlitestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/matrix-import/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db", "expression.db")
	s, err := Open(context.Background(), path, "features")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func sampleRecords() []types.ExpressionRecord {
	return []types.ExpressionRecord{
		{Feature: "APOE", FeatureType: "Gene Expression", Barcode: "AAAC-1", Value: types.IntValue(4)},
		{Feature: "APOE", FeatureType: "Gene Expression", Barcode: "AAAG-1", Value: types.FloatValue(1.5)},
		{Feature: "CD3", FeatureType: "Antibody Capture", Barcode: "AAAC-1", Value: types.IntValue(9)},
	}
}

func countRows(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM features`).Scan(&n))
	return n
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "x.db")
	s, err := Open(context.Background(), path, "features")
	require.NoError(t, err)
	defer s.Close(context.Background())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestInsertAndIndex(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	require.NoError(t, s.Reset(ctx))
	require.NoError(t, s.InsertMany(ctx, sampleRecords()))
	require.NoError(t, s.InsertMany(ctx, nil))
	require.NoError(t, s.CreateIndex(ctx))

	assert.Equal(t, 3, countRows(t, s))

	var idx int
	require.NoError(t, s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='index' AND name='features_feature_idx'`,
	).Scan(&idx))
	assert.Equal(t, 1, idx)

	rows, err := s.db.Query(`SELECT id, feature_type, typeof(value) FROM features WHERE feature = ? ORDER BY rowid`, "APOE")
	require.NoError(t, err)
	defer rows.Close()

	var got [][3]string
	for rows.Next() {
		var r [3]string
		require.NoError(t, rows.Scan(&r[0], &r[1], &r[2]))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, [][3]string{
		{"AAAC-1", "Gene Expression", "integer"},
		{"AAAG-1", "Gene Expression", "real"},
	}, got)
}

func TestResetDropsRows(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	require.NoError(t, s.Reset(ctx))
	require.NoError(t, s.InsertMany(ctx, sampleRecords()))
	require.NoError(t, s.CreateIndex(ctx))
	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, 0, countRows(t, s))

	// The same input loaded twice without a reset duplicates every row.
	require.NoError(t, s.InsertMany(ctx, sampleRecords()))
	require.NoError(t, s.InsertMany(ctx, sampleRecords()))
	assert.Equal(t, 6, countRows(t, s))
}

func TestInsertWithoutTableFails(t *testing.T) {
	s := testStore(t)
	err := s.InsertMany(context.Background(), sampleRecords())
	assert.Error(t, err)
}
