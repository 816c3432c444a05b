package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"pass2bw/internal/common"
	"pass2bw/internal/core"
	"pass2bw/internal/export"
	"pass2bw/internal/extract"
	"pass2bw/internal/gpg"
	"pass2bw/internal/ingest"
	"pass2bw/internal/manifest"
	"pass2bw/internal/spec"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Optional .env, then env-based defaults; flags override both
	_ = godotenv.Load()
	cfg := common.LoadConfig()

	var directory, output string
	flag.StringVar(&directory, "directory", cfg.Store.Directory, "directory of the password store")
	flag.StringVar(&directory, "d", cfg.Store.Directory, "directory of the password store (shorthand)")
	flag.StringVar(&output, "output", cfg.Output.Path, "file to write the export to")
	flag.StringVar(&output, "o", cfg.Output.Path, "file to write the export to (shorthand)")
	var (
		binary       = flag.String("gpg-binary", cfg.GPG.Binary, "path to the GPG binary")
		useAgent     = flag.Bool("use-agent", cfg.GPG.UseAgent, "let GPG use the running agent for passphrases")
		format       = flag.String("format", cfg.Output.Format, "output format: csv or xlsx")
		specPath     = flag.String("spec", cfg.Output.SpecPath, "JSON field-spec overrides file (optional)")
		manifestPath = flag.String("manifest", cfg.Output.ManifestPath, "SQLite run-manifest path (optional)")
		jobs         = flag.Int("jobs", cfg.GPG.Jobs, "parallel decryptions")
		verbose      = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	// Setup logger (records go to stdout-adjacent files, logs to stderr)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cfg.Store.Directory = directory
	cfg.GPG.Binary = *binary
	cfg.GPG.UseAgent = *useAgent
	cfg.GPG.Jobs = *jobs
	cfg.Output.Path = output
	cfg.Output.Format = strings.ToLower(*format)
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	storeDir, err := expandHome(cfg.Store.Directory)
	if err != nil {
		printError("Error: resolve store directory: %v\n", err)
		os.Exit(1)
	}

	// Field specification: defaults, or a validated JSON overrides file.
	// A malformed spec is fatal before any entry is touched.
	fieldSpec := spec.Default()
	if *specPath != "" {
		fieldSpec, err = spec.Load(*specPath)
		if err != nil {
			logger.Error("invalid field spec", "path", *specPath, "error", err)
			os.Exit(1)
		}
		logger.Info("loaded field spec", "path", *specPath, "patterns", len(fieldSpec.Patterns))
	}
	if err := fieldSpec.Validate(); err != nil {
		logger.Error("invalid field spec", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var store *manifest.Store
	if *manifestPath != "" {
		store, err = manifest.Open(ctx, *manifestPath, logger)
		if err != nil {
			logger.Error("failed to open manifest", "path", *manifestPath, "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn("failed to close manifest", "error", err)
			}
		}()
	}

	processor := core.NewProcessor(
		logger,
		ingest.NewWalker(logger),
		gpg.NewDecryptor(cfg.GPG.Binary, cfg.GPG.UseAgent, logger),
		extract.NewEngine(fieldSpec, logger),
		store,
		cfg.GPG.Jobs,
		cfg.GPG.Timeout,
	)

	logger.Info("starting conversion", "store", storeDir, "format", cfg.Output.Format)
	records, stats, err := processor.Run(ctx, storeDir)
	if err != nil {
		logger.Error("conversion failed", "error", err)
		os.Exit(1)
	}

	if err := writeOutput(cfg.Output.Format, cfg.Output.Path, fieldSpec.Schema, records, logger); err != nil {
		logger.Error("failed to write output", "path", cfg.Output.Path, "error", err)
		os.Exit(1)
	}

	if err := processor.Finish(ctx, stats, cfg.Output.Path); err != nil {
		logger.Warn("failed to finalize manifest", "error", err)
	}

	fmt.Printf("Export complete!\n")
	fmt.Printf("- Entries found: %d\n", stats.Matched)
	fmt.Printf("- Records exported: %d\n", stats.Exported)
	fmt.Printf("- Failures: %d\n", stats.Failed)
	fmt.Printf("- Output: %s\n", cfg.Output.Path)
}

func writeOutput(format, path string, schema []string, records []extract.Record, logger *slog.Logger) error {
	switch format {
	case "xlsx":
		data, err := export.WriteXLSX(schema, records, logger)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	default:
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := export.WriteCSV(f, schema, records); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}
}

// expandHome resolves a leading ~ in dir against the current user's home.
func expandHome(dir string) (string, error) {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
	}
	return dir, nil
}
