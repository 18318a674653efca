//go:build mage

// Package main contains Mage build targets for matrix-import developer tooling.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "matrix-import"
	cmdPkg  = "./cmd/matrix-import"

	localData   = "local/data"
	localStatic = "local/static/files"
)

// projectDirs lists the working directories a local run expects.
var projectDirs = []string{
	localData,
	localStatic,
	".secrets",
}

// Init creates the local data, static, and secrets directories.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

// sampleFiles is a minimal complete data tree: one matrix directory with
// four features, three barcodes, and three entries.
var sampleFiles = map[string]string{
	"cluster_tree.json":   `{"name":"root","children":[{"name":"c1"},{"name":"c2"}]}` + "\n",
	"labels.csv":          "barcode,cluster\nAAACCTGAGAAACCAT-1,c1\nAAACCTGAGAAACCGC-1,c2\nAAACCTGAGAAACCTA-1,c1\n",
	"sample/features.tsv": "ENSG00000243485\tGene Expression\nENSG00000237613\tGene Expression\nCD3_TotalSeqB\tAntibody Capture\nENSG00000238009\n",
	"sample/barcodes.tsv": "AAACCTGAGAAACCAT-1\nAAACCTGAGAAACCGC-1\nAAACCTGAGAAACCTA-1\n",
	"sample/matrix.mtx":   "%%MatrixMarket matrix coordinate integer general\n%metadata_json: {}\n4 3 3\n1 2 5\n2 1 1\n4 3 12\n",
}

// Sample writes a small data tree under local/data for trying the CLI.
func Sample() error {
	mg.Deps(Init)
	for rel, content := range sampleFiles {
		path := filepath.Join(localData, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Println("  ", path)
	}
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// DryRun builds the CLI and runs a dry import of the sample tree.
func DryRun() error {
	mg.Deps(Build, Sample)
	return sh.RunV(filepath.Join(binDir, binName), "import", "--dry-run", "--debug",
		"--static-dir", localStatic, localData)
}

// Stats prints Go production and test line counts.
func Stats() error {
	var prod, test int
	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), "_") || info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := countLines(data)
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", test)
	return nil
}

// countLines counts non-blank lines in data.
func countLines(data []byte) int {
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}
