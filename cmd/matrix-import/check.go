// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/matrix-import/internal/discover"
)

var checkCmd = &cobra.Command{
	Use:   "check [data-dir]",
	Short: "Verify that a data directory is complete without importing",
	Long: `Check walks the data directory and reports the qualifying matrix
directories. It fails when no matrix directory, no cluster_tree.json, or no
labels.csv is found anywhere in the tree. Nothing is written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	root := dataDir(args)
	fs, err := discover.Check(root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s is complete. Matrix directories: %d\n", root, len(fs.MatrixDirs))
	for _, d := range fs.MatrixDirs {
		fmt.Fprintf(out, "  %s\n", d)
	}
	return nil
}
