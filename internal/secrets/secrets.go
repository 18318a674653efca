// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads database credentials from a directory of plain-text
// files. Each file holds one secret: the file name is the key and the
// trimmed contents are the value.
package secrets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/pdiddy/matrix-import/internal/logger"
)

// Known key files.
const (
	MongoConnectionString = "mongo-connection-string"
	MongoDatabase         = "mongo-db"
	PostgresDSN           = "postgres-dsn"
)

// Secrets maps key names to values.
type Secrets map[string]string

// Or returns the value for key, or fallback when the key is absent.
func (s Secrets) Or(key, fallback string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return fallback
}

// Load reads all files in dir. A missing directory is not an error; Load
// returns an empty set. Unreadable files are logged and skipped.
func Load(dir string, log logger.Logger) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, errors.Wrapf(err, "reading secrets directory %s", dir)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warnf("could not read secret %s: %v", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}
