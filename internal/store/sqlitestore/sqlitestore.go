// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sqlitestore loads expression records into a local SQLite
// database file.
package sqlitestore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/pdiddy/matrix-import/pkg/types"
)

// Store writes to one table of a SQLite database.
type Store struct {
	db    *sql.DB
	table string
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path, table string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	// SQLite allows one writer.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "opening database")
	}
	return &Store{db: db, table: table}, nil
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// Reset drops and recreates the table.
func (s *Store) Reset(ctx context.Context) error {
	statements := []string{
		`DROP TABLE IF EXISTS ` + quote(s.table),
		`CREATE TABLE ` + quote(s.table) + ` (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			feature TEXT NOT NULL,
			feature_type TEXT NOT NULL,
			value NUMERIC NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "executing schema statement")
		}
	}
	return nil
}

// InsertMany writes the batch in one transaction.
func (s *Store) InsertMany(ctx context.Context, recs []types.ExpressionRecord) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+quote(s.table)+` (id, feature, feature_type, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing insert")
	}
	defer stmt.Close()

	for _, rec := range recs {
		if _, err := stmt.ExecContext(ctx, rec.Barcode, rec.Feature, rec.FeatureType, rec.Value.Interface()); err != nil {
			return errors.Wrapf(err, "inserting %s/%s", rec.Feature, rec.Barcode)
		}
	}
	return tx.Commit()
}

// CreateIndex builds the index on feature.
func (s *Store) CreateIndex(ctx context.Context) error {
	stmt := `CREATE INDEX IF NOT EXISTS ` + quote(s.table+"_feature_idx") + ` ON ` + quote(s.table) + ` (feature)`
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "creating index")
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}
