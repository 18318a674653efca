// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/matrix-import/internal/importer"
	"github.com/pdiddy/matrix-import/internal/metrics"
	"github.com/pdiddy/matrix-import/internal/secrets"
	"github.com/pdiddy/matrix-import/internal/store"
	"github.com/pdiddy/matrix-import/pkg/types"
)

var importCmd = &cobra.Command{
	Use:   "import [data-dir]",
	Short: "Import every matrix directory under data-dir",
	Long: `Import checks that the data directory contains at least one matrix
directory, a cluster_tree.json, and a labels.csv, then drops the target
collection and loads every matrix directory in walk order. Records are
inserted in batches; the feature index is built once all records are in.

The store endpoint defaults to MONGO_CONNECTION_STRING and the database to
MONGO_DB. Credentials may also be placed in .secrets/mongo-connection-string,
.secrets/mongo-db, or .secrets/postgres-dsn.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.String("static-dir", defaultStaticDir, "directory receiving cluster_tree.json and labels.csv")
	f.String("driver", string(types.DriverMongo), "store backend: mongo, postgres, sqlite, or memory")
	f.String("uri", "", "store endpoint: mongodb:// URI, postgres DSN, or sqlite file path")
	f.String("database", "", "mongo database name")
	f.String("collection", types.DefaultCollection, "collection or table receiving expression records")
	f.Int("batch-size", types.DefaultBatchSize, "records per bulk insert")
	f.String("numeric", string(types.NumericAuto), "value parsing: auto, float, or integer")
	f.String("report", "", "write a YAML run summary to this path")
	f.Bool("dry-run", false, "parse everything without writing to a store or the static directory")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address during the run")

	for _, name := range []string{"static-dir", "driver", "uri", "database", "collection", "batch-size", "numeric", "report", "dry-run", "metrics-addr"} {
		viper.BindPFlag(name, f.Lookup(name))
	}

	rootCmd.AddCommand(importCmd)
}

// importConfig assembles the run configuration. Flags take precedence over
// the environment, which takes precedence over the config file.
func importConfig(args []string, s secrets.Secrets) (types.ImportConfig, error) {
	numeric, err := types.ParseNumericPolicy(viper.GetString("numeric"))
	if err != nil {
		return types.ImportConfig{}, err
	}
	batchSize := viper.GetInt("batch-size")
	if batchSize <= 0 {
		return types.ImportConfig{}, errors.Errorf("batch size must be positive, got %d", batchSize)
	}

	dryRun := viper.GetBool("dry-run")
	sc := resolveStore(types.StoreConfig{
		Driver:     types.StoreDriver(viper.GetString("driver")),
		URI:        viper.GetString("uri"),
		Database:   viper.GetString("database"),
		Collection: viper.GetString("collection"),
	}, dryRun, s)

	return types.ImportConfig{
		DataDir:   dataDir(args),
		StaticDir: viper.GetString("static-dir"),
		BatchSize: batchSize,
		Numeric:   numeric,
		Store:     sc,
		DryRun:    dryRun,
	}, nil
}

// resolveStore fills an empty endpoint or database from secrets. A dry run
// always selects the discarding in-memory store.
func resolveStore(sc types.StoreConfig, dryRun bool, s secrets.Secrets) types.StoreConfig {
	if dryRun {
		return types.StoreConfig{Driver: types.DriverMemory, Collection: sc.Collection}
	}
	switch sc.Driver {
	case types.DriverMongo, "":
		if sc.URI == "" {
			sc.URI = s.Or(secrets.MongoConnectionString, "")
		}
		if sc.Database == "" {
			sc.Database = s.Or(secrets.MongoDatabase, "")
		}
	case types.DriverPostgres:
		if sc.URI == "" {
			sc.URI = s.Or(secrets.PostgresDSN, "")
		}
	}
	return sc
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := importConfig(args, loadedSecrets)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := viper.GetString("metrics-addr"); addr != "" {
		ms, err := metrics.Serve(addr)
		if err != nil {
			return err
		}
		log.Infof("serving metrics on http://%s/metrics", ms.Addr())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			ms.Shutdown(shutdownCtx)
		}()
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return errors.Wrapf(err, "opening %s store", cfg.Store.Driver)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Warnf("closing store: %v", err)
		}
	}()

	sum, err := importer.New(st, cfg, log.WithPrefix("import")).Run(ctx)
	if err != nil {
		return err
	}

	if path := viper.GetString("report"); path != "" {
		if err := sum.WriteReport(path); err != nil {
			return err
		}
		log.Infof("wrote report %s", path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records from %d directories in %s\n",
		sum.Records, len(sum.Directories), sum.Elapsed.Round(time.Millisecond))
	return nil
}
