// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// StoreDriver identifies the storage backend records are loaded into.
type StoreDriver string

const (
	DriverMongo    StoreDriver = "mongo"
	DriverPostgres StoreDriver = "postgres"
	DriverSQLite   StoreDriver = "sqlite"
	DriverMemory   StoreDriver = "memory"
)

// DefaultCollection is the collection (or table) that receives expression records.
const DefaultCollection = "features"

// DefaultBatchSize is the number of records sent to the store in one bulk insert.
const DefaultBatchSize = 100000

// StoreConfig holds the settings needed to open a storage backend.
type StoreConfig struct {
	// Driver selects the backend: mongo, postgres, sqlite, or memory.
	Driver StoreDriver `json:"driver" yaml:"driver"`

	// URI is the connection endpoint. For mongo a mongodb:// URI, for postgres
	// a lib/pq DSN or URL, for sqlite a file path.
	URI string `json:"uri" yaml:"uri"`

	// Database is the target database name (mongo only).
	Database string `json:"database" yaml:"database"`

	// Collection is the collection or table name (default "features").
	Collection string `json:"collection" yaml:"collection"`
}

// CollectionName returns the configured collection or the default.
func (c StoreConfig) CollectionName() string {
	if c.Collection == "" {
		return DefaultCollection
	}
	return c.Collection
}

// NumericPolicy controls how the value column of a matrix line is parsed.
type NumericPolicy string

const (
	// NumericAuto parses values as float64 and narrows to int64 when the
	// value is integral and exactly representable.
	NumericAuto NumericPolicy = "auto"

	// NumericFloat always stores float64 values.
	NumericFloat NumericPolicy = "float"

	// NumericInteger requires every value to be a base-10 integer.
	NumericInteger NumericPolicy = "integer"
)

// ParseNumericPolicy validates s. An empty string selects NumericAuto.
func ParseNumericPolicy(s string) (NumericPolicy, error) {
	switch NumericPolicy(s) {
	case "", NumericAuto:
		return NumericAuto, nil
	case NumericFloat, NumericInteger:
		return NumericPolicy(s), nil
	}
	return "", fmt.Errorf("unsupported numeric policy %q: use auto, float, or integer", s)
}

// ImportConfig holds settings for one import run.
type ImportConfig struct {
	// DataDir is the root of the directory tree holding matrix directories
	// and the auxiliary files (default /usr/data).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// StaticDir receives copies of cluster_tree.json and labels.csv
	// (default /usr/app/static/files).
	StaticDir string `json:"static_dir" yaml:"static_dir"`

	// BatchSize is the maximum number of records per bulk insert (default 100000).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Numeric selects the value parsing policy (default auto).
	Numeric NumericPolicy `json:"numeric" yaml:"numeric"`

	// Store selects and configures the storage backend.
	Store StoreConfig `json:"store" yaml:"store"`

	// DryRun parses every matrix but skips copying auxiliary files. The
	// caller pairs it with a discarding store.
	DryRun bool `json:"dry_run" yaml:"dry_run"`
}
