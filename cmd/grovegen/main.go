// Command grovegen generates Inject methods and constructors for structs
// whose fields carry `inject:"..."` tags. Use it from go:generate:
//
//	//go:generate go run github.com/ARTM2000/grove/cmd/grovegen
//
// Tag syntax:
//
//	Dog   Animal `inject:""`                 // the single Animal binding
//	Cat   Animal `inject:"cat"`              // the Animal binding named "cat"
//	Other Animal `inject:"other,type=*Dog"`  // resolve *Dog, assign to Animal
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ARTM2000/grove/internal/codegen"
)

const defaultOutput = "inject_gen.go"

func main() {
	log := newLogger()
	defer log.Sync() //nolint:errcheck

	if err := run(os.Args[1:], log); err != nil {
		log.Error("grovegen failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(args []string, log *zap.Logger) error {
	fs := flag.NewFlagSet("grovegen", flag.ContinueOnError)
	dir := fs.String("dir", ".", "package directory to scan")
	output := fs.String("output", defaultOutput, "name of the generated file, written into -dir")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if filepath.Base(*output) != *output {
		return fmt.Errorf("-output must be a file name, got %q", *output)
	}

	pkg, err := codegen.ParseDir(*dir, *output)
	if err != nil {
		return err
	}

	path := filepath.Join(*dir, *output)
	if len(pkg.Targets) == 0 {
		log.Info("no injected fields found", zap.String("dir", *dir))
		return removeStale(path, log)
	}

	src, err := codegen.Generate(pkg, path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return err
	}

	log.Info("generated",
		zap.String("file", path),
		zap.String("package", pkg.Name),
		zap.Int("structs", len(pkg.Targets)),
	)
	return nil
}

func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// removeStale deletes a file left by an earlier run. Files at path that
// grovegen did not write are kept.
func removeStale(path string, log *zap.Logger) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if !bytes.HasPrefix(data, []byte(codegen.Header)) {
		log.Warn("not removing file without the generated header", zap.String("file", path))
		return nil
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	log.Info("removed stale generated file", zap.String("file", path))
	return nil
}
