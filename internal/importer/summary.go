// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/matrix-import/internal/discover"
)

// DirSummary describes one loaded matrix directory.
type DirSummary struct {
	Path     string               `yaml:"path"`
	Files    discover.MatrixFiles `yaml:"files"`
	Features int                  `yaml:"features"`
	Barcodes int                  `yaml:"barcodes"`
	Records  int                  `yaml:"records"`
	Batches  int                  `yaml:"batches"`
}

// CopiedFile records one auxiliary file copy. A later copy to the same
// destination replaces the earlier file.
type CopiedFile struct {
	Source string `yaml:"source"`
	Dest   string `yaml:"dest"`
}

// Summary is the outcome of a successful run.
type Summary struct {
	DataDir   string `yaml:"data_dir"`
	StaticDir string `yaml:"static_dir"`
	Driver    string `yaml:"driver,omitempty"`
	BatchSize int    `yaml:"batch_size"`
	DryRun    bool   `yaml:"dry_run,omitempty"`

	Directories []DirSummary `yaml:"directories"`
	Copied      []CopiedFile `yaml:"copied"`

	Records int `yaml:"records"`
	Batches int `yaml:"batches"`

	Started time.Time     `yaml:"started"`
	Elapsed time.Duration `yaml:"elapsed"`
}

func (s *Summary) addDir(ds DirSummary) {
	s.Directories = append(s.Directories, ds)
	s.Records += ds.Records
	s.Batches += ds.Batches
}

func (s *Summary) addCopy(src, dest string) {
	s.Copied = append(s.Copied, CopiedFile{Source: src, Dest: dest})
}

// WriteReport writes the summary to path as YAML.
func (s *Summary) WriteReport(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshaling report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing report %s", path)
	}
	return nil
}

// ReadReport loads a summary written by WriteReport.
func ReadReport(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, "parsing report %s", path)
	}
	return &s, nil
}
