// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the matrix-import CLI. It loads
// single-cell expression matrices from a data tree into a document store
// and publishes the cluster tree and label table to the static directory.
package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/matrix-import/internal/logger"
	"github.com/pdiddy/matrix-import/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultDataDir   = "/usr/data"
	defaultStaticDir = "/usr/app/static/files"
	secretsDir       = ".secrets/"
)

var (
	// log is replaced in PersistentPreRunE once --debug is known.
	log logger.Logger = logger.New(os.Stderr, false)

	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets
)

// rootCmd is the base command for the matrix-import CLI.
var rootCmd = &cobra.Command{
	Use:   "matrix-import",
	Short: "Load Matrix Market expression data into a document store",
	Long: `matrix-import walks a data directory for 10x-style matrix directories
(matrix.mtx, features.tsv or genes.tsv, barcodes.tsv, optionally gzipped),
loads every nonzero entry as one expression record, and copies
cluster_tree.json and labels.csv into the static files directory.

The target collection is dropped before loading; a run always produces a
complete replacement of the previous import.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = logger.New(os.Stderr, viper.GetBool("debug"))

		s, err := secrets.Load(secretsDir, log)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.Debugf("loaded secrets: %v", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./matrix-import.yaml or ~/.config/matrix-import/matrix-import.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "log per-batch progress")
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetDefault("data-dir", defaultDataDir)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("matrix-import")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "matrix-import"))
		}
	}

	viper.SetEnvPrefix("MATRIX_IMPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Deployment environments set these without the prefix.
	viper.BindEnv("uri", "MATRIX_IMPORT_URI", "MONGO_CONNECTION_STRING")
	viper.BindEnv("database", "MATRIX_IMPORT_DATABASE", "MONGO_DB")

	if err := viper.ReadInConfig(); err == nil {
		log.Infof("using config file %s", viper.ConfigFileUsed())
	}
}

// dataDir returns the positional data directory, or the configured one.
func dataDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return viper.GetString("data-dir")
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		log.Errorf("%v", err)
	}
	log.Sync()
	if err != nil {
		os.Exit(1)
	}
}
