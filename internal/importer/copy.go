// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// copyFile copies src to dest through a temporary file in dest's directory,
// so readers of dest never see a partial file. An existing dest is replaced.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening source")
	}
	defer in.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), ".import-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, in)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return errors.Wrap(copyErr, "writing copy")
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return errors.Wrap(closeErr, "closing temp file")
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "setting permissions")
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}
