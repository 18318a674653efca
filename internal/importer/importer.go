// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer drives one full import run: pre-flight check, collection
// reset, a walk that loads every matrix directory and copies the auxiliary
// files, and the final index build.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/pdiddy/matrix-import/internal/batch"
	"github.com/pdiddy/matrix-import/internal/dict"
	"github.com/pdiddy/matrix-import/internal/discover"
	"github.com/pdiddy/matrix-import/internal/logger"
	"github.com/pdiddy/matrix-import/internal/metrics"
	"github.com/pdiddy/matrix-import/internal/mtx"
	"github.com/pdiddy/matrix-import/internal/store"
	"github.com/pdiddy/matrix-import/pkg/types"
)

// Importer loads a data tree into a store.
type Importer struct {
	store store.Store
	cfg   types.ImportConfig
	log   logger.Logger

	now func() time.Time
}

// New returns an Importer writing to st. A nil log discards output.
func New(st store.Store, cfg types.ImportConfig, log logger.Logger) *Importer {
	if log == nil {
		log = logger.Nop
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = types.DefaultBatchSize
	}
	if cfg.Numeric == "" {
		cfg.Numeric = types.NumericAuto
	}
	return &Importer{store: st, cfg: cfg, log: log, now: time.Now}
}

// Run performs the import. Nothing is written to the store or the static
// directory when the pre-flight check fails. Any other error aborts the run
// and leaves whatever was already inserted in place.
func (im *Importer) Run(ctx context.Context) (*Summary, error) {
	start := im.now()
	sum := &Summary{
		DataDir:   im.cfg.DataDir,
		StaticDir: im.cfg.StaticDir,
		Driver:    string(im.cfg.Store.Driver),
		BatchSize: im.cfg.BatchSize,
		DryRun:    im.cfg.DryRun,
		Started:   start,
	}

	fs, err := discover.Check(im.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	im.log.Infof("found %d matrix director%s under %s", len(fs.MatrixDirs), plural(len(fs.MatrixDirs), "y", "ies"), im.cfg.DataDir)

	if !im.cfg.DryRun {
		if err := os.MkdirAll(im.cfg.StaticDir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating static directory %s", im.cfg.StaticDir)
		}
	}

	if err := im.store.Reset(ctx); err != nil {
		return nil, errors.Wrap(err, "resetting collection")
	}
	im.log.Infof("collection reset")

	err = discover.Walk(im.cfg.DataDir, func(d discover.Dir) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c := discover.Classify(d)
		if c.HasMatrix() {
			ds, err := im.loadDir(ctx, *c.Matrix, c.Dir)
			if err != nil {
				return err
			}
			sum.addDir(ds)
		}
		if c.HasTree() {
			if err := im.copyAux(c.Tree, discover.TreeFile, sum); err != nil {
				return err
			}
		}
		if c.HasLabels() {
			if err := im.copyAux(c.Labels, discover.LabelsFile, sum); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := im.store.CreateIndex(ctx); err != nil {
		return nil, errors.Wrap(err, "creating feature index")
	}

	sum.Elapsed = im.now().Sub(start)
	im.log.Infof("imported %d records in %d batches from %d director%s in %s",
		sum.Records, sum.Batches, len(sum.Directories), plural(len(sum.Directories), "y", "ies"), sum.Elapsed)
	return sum, nil
}

func (im *Importer) loadDir(ctx context.Context, files discover.MatrixFiles, dir string) (DirSummary, error) {
	ds := DirSummary{Path: dir, Files: files}
	log := im.log.WithPrefix(filepath.Base(dir))

	features, err := dict.LoadFeatures(files.Features)
	if err != nil {
		return ds, errors.Wrapf(err, "loading features %s", files.Features)
	}
	barcodes, err := dict.LoadBarcodes(files.Barcodes)
	if err != nil {
		return ds, errors.Wrapf(err, "loading barcodes %s", files.Barcodes)
	}
	ds.Features = features.Len()
	ds.Barcodes = barcodes.Len()

	rd, err := mtx.Open(files.Matrix, features, barcodes, im.cfg.Numeric)
	if err != nil {
		return ds, errors.Wrapf(err, "opening matrix %s", files.Matrix)
	}
	defer rd.Close()

	entries := rd.Header().Entries
	log.Infof("loading %d entries (%d features x %d barcodes)", entries, ds.Features, ds.Barcodes)

	loaded := 0
	ld := batch.New(im.store, im.cfg.BatchSize)
	ld.OnFlush(func(seq, n int) {
		loaded += n
		metrics.BatchesFlushed.Inc()
		metrics.RecordsInserted.Add(float64(n))
		log.Debugf("batch %d inserted: %d records, %s done", seq+1, n, percent(loaded, entries))
	})

	stats, err := ld.Load(ctx, rd)
	ds.Records = stats.Records
	ds.Batches = stats.Batches
	if err != nil {
		return ds, errors.Wrapf(err, "loading %s", files.Matrix)
	}

	metrics.DirectoriesLoaded.Inc()
	log.Infof("loaded %d records in %d batches", ds.Records, ds.Batches)
	return ds, nil
}

func (im *Importer) copyAux(src, name string, sum *Summary) error {
	dest := filepath.Join(im.cfg.StaticDir, name)
	if im.cfg.DryRun {
		im.log.Infof("dry run: would copy %s to %s", src, dest)
		sum.addCopy(src, dest)
		return nil
	}
	if err := copyFile(src, dest); err != nil {
		return errors.Wrapf(err, "copying %s", src)
	}
	metrics.FilesCopied.WithLabelValues(name).Inc()
	im.log.Infof("copied %s to %s", src, dest)
	sum.addCopy(src, dest)
	return nil
}

func percent(done, total int) string {
	if total <= 0 {
		return "100%"
	}
	return fmt.Sprintf("%.1f%%", float64(done)*100/float64(total))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
