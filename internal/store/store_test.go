// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/matrix-import/internal/store/memstore"
	"github.com/pdiddy/matrix-import/internal/store/sqlitestore"
	"github.com/pdiddy/matrix-import/pkg/types"
)

func TestOpenRejectsIncompleteConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.StoreConfig
		wantErr string
	}{
		{"mongo without uri", types.StoreConfig{Driver: types.DriverMongo, Database: "db"}, "MONGO_CONNECTION_STRING"},
		{"default driver is mongo", types.StoreConfig{}, "MONGO_CONNECTION_STRING"},
		{"mongo without database", types.StoreConfig{Driver: types.DriverMongo, URI: "mongodb://localhost"}, "MONGO_DB"},
		{"postgres without dsn", types.StoreConfig{Driver: types.DriverPostgres}, "postgres DSN"},
		{"sqlite without path", types.StoreConfig{Driver: types.DriverSQLite}, "sqlite database path"},
		{"unknown driver", types.StoreConfig{Driver: "cassandra"}, `unsupported store driver "cassandra"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpenMemory(t *testing.T) {
	st, err := Open(context.Background(), types.StoreConfig{Driver: types.DriverMemory})
	require.NoError(t, err)
	_, ok := st.(*memstore.Store)
	assert.True(t, ok)
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, types.StoreConfig{
		Driver: types.DriverSQLite,
		URI:    filepath.Join(t.TempDir(), "expr.db"),
	})
	require.NoError(t, err)
	defer st.Close(ctx)

	_, ok := st.(*sqlitestore.Store)
	require.True(t, ok)
	require.NoError(t, st.Reset(ctx))
	require.NoError(t, st.InsertMany(ctx, []types.ExpressionRecord{
		{Feature: "G1", FeatureType: types.DefaultFeatureType, Barcode: "B1", Value: types.IntValue(3)},
	}))
	assert.NoError(t, st.CreateIndex(ctx))
}
