// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pgstore loads expression records into a PostgreSQL table using
// COPY FROM STDIN, one COPY per batch.
package pgstore

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/pdiddy/matrix-import/pkg/types"
)

// columns lists the table columns in COPY order.
var columns = []string{"id", "feature", "feature_type", "value"}

// Store writes to one table.
type Store struct {
	db    *sql.DB
	table string
}

// Open connects with a lib/pq DSN or postgres:// URL and pings the server.
func Open(ctx context.Context, dsn, table string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening postgres")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connecting to postgres")
	}
	return &Store{db: db, table: table}, nil
}

func resetStatements(table string) []string {
	t := pq.QuoteIdentifier(table)
	return []string{
		`DROP TABLE IF EXISTS ` + t,
		`CREATE TABLE ` + t + ` (
			id TEXT NOT NULL,
			feature TEXT NOT NULL,
			feature_type TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL
		)`,
	}
}

func indexStatement(table string) string {
	return `CREATE INDEX IF NOT EXISTS ` + pq.QuoteIdentifier(table+"_feature_idx") +
		` ON ` + pq.QuoteIdentifier(table) + ` (feature)`
}

// Reset drops and recreates the table.
func (s *Store) Reset(ctx context.Context) error {
	for _, stmt := range resetStatements(s.table) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "resetting table %s", s.table)
		}
	}
	return nil
}

// InsertMany streams the batch through a single COPY inside a transaction.
func (s *Store) InsertMany(ctx context.Context, recs []types.ExpressionRecord) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(s.table, columns...))
	if err != nil {
		return errors.Wrap(err, "preparing copy")
	}
	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx, rec.Barcode, rec.Feature, rec.FeatureType, rec.Value.Interface()); err != nil {
			stmt.Close()
			return errors.Wrap(err, "copying record")
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return errors.Wrap(err, "finishing copy")
	}
	if err := stmt.Close(); err != nil {
		return errors.Wrap(err, "closing copy")
	}
	return tx.Commit()
}

// CreateIndex builds a btree index on feature.
func (s *Store) CreateIndex(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, indexStatement(s.table)); err != nil {
		return errors.Wrapf(err, "creating index on %s.feature", s.table)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}
