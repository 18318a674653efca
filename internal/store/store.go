// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store defines the storage handle the importer writes expression
// records through, and opens the configured backend.
package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pdiddy/matrix-import/internal/store/memstore"
	"github.com/pdiddy/matrix-import/internal/store/mongostore"
	"github.com/pdiddy/matrix-import/internal/store/pgstore"
	"github.com/pdiddy/matrix-import/internal/store/sqlitestore"
	"github.com/pdiddy/matrix-import/pkg/types"
)

// Store is a handle on the target collection.
type Store interface {
	// Reset drops the collection and everything in it.
	Reset(ctx context.Context) error

	// InsertMany writes one batch in a single round trip. recs must not be
	// retained after the call returns.
	InsertMany(ctx context.Context, recs []types.ExpressionRecord) error

	// CreateIndex builds the lookup index on the feature attribute.
	CreateIndex(ctx context.Context) error

	// Close releases the connection.
	Close(ctx context.Context) error
}

var (
	_ Store = (*mongostore.Store)(nil)
	_ Store = (*pgstore.Store)(nil)
	_ Store = (*sqlitestore.Store)(nil)
	_ Store = (*memstore.Store)(nil)
)

// Open connects to the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg types.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case types.DriverMongo, "":
		if cfg.URI == "" {
			return nil, errors.New("mongo connection string is not set (MONGO_CONNECTION_STRING or --uri)")
		}
		if cfg.Database == "" {
			return nil, errors.New("mongo database is not set (MONGO_DB or --database)")
		}
		return mongostore.Open(ctx, cfg.URI, cfg.Database, cfg.CollectionName())
	case types.DriverPostgres:
		if cfg.URI == "" {
			return nil, errors.New("postgres DSN is not set (--uri)")
		}
		return pgstore.Open(ctx, cfg.URI, cfg.CollectionName())
	case types.DriverSQLite:
		if cfg.URI == "" {
			return nil, errors.New("sqlite database path is not set (--uri)")
		}
		return sqlitestore.Open(ctx, cfg.URI, cfg.CollectionName())
	case types.DriverMemory:
		return memstore.New(true), nil
	}
	return nil, errors.Errorf("unsupported store driver %q: use mongo, postgres, sqlite, or memory", cfg.Driver)
}
