//go:build mage

// Package main provides build targets for crate using Mage.
//
// Usage:
//
//	mage build            Compile the crate binary to bin/
//	mage test             Run unit tests
//	mage testIntegration  Run tests tagged integration (needs Docker)
//	mage testRace         Run unit tests with the race detector
//	mage lint             Run golangci-lint
//	mage clean            Remove build artifacts
//	mage install          Install crate to GOPATH/bin
//	mage stats            Print Go line counts
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "crate"
	binaryDir  = "bin"
	cmdDir     = "./cmd/crate"
	modulePath = "github.com/mesh-intelligence/crate"
)

// ldflags stamps the git revision into the binary when one is available.
func ldflags() string {
	rev, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil || rev == "" {
		return ""
	}
	return fmt.Sprintf("-X %s/pkg/crate.Revision=%s", modulePath, rev)
}

// Build compiles the crate binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-o", filepath.Join(binaryDir, binaryName)}
	if f := ldflags(); f != "" {
		args = append(args, "-ldflags", f)
	}
	return sh.RunV("go", append(args, cmdDir)...)
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestRace runs the unit tests with the race detector.
func TestRace() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// TestIntegration runs the tests behind the integration build tag. They
// start a postgres container and skip when Docker is unavailable.
func TestIntegration() error {
	mg.Deps(Build)
	return sh.RunV("go", "test", "-tags", "integration", "-count=1", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}

// Stats prints Go lines of code split into production and test code.
func Stats() error {
	var prod, tests int
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch {
			case path == binaryDir, path == "magefiles", strings.HasPrefix(d.Name(), ".") && path != ".",
				strings.HasPrefix(d.Name(), "_"):
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, "_test.go") {
			tests += n
		} else {
			prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)
	fmt.Printf("Lines of code (Go, total):      %d\n", prod+tests)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
