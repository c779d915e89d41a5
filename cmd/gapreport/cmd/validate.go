package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gapreport/internal/artifact"
	"github.com/dbsmedya/gapreport/internal/baseline"
	"github.com/dbsmedya/gapreport/internal/config"
	"github.com/dbsmedya/gapreport/internal/database"
	"github.com/dbsmedya/gapreport/internal/lock"
	"github.com/dbsmedya/gapreport/internal/table"
)

var validateDatabase bool

var validateCmd = &cobra.Command{
	Use:   "validate [benchmark...]",
	Short: "Validate configuration and benchmark inputs",
	Long: `Validate checks the configuration file and the inputs of each benchmark
without reading any result artifact.

Checks performed:
  - Configuration syntax and required fields
  - Baseline CSV layout and best-known values
  - Run directories and report column names
  - Database connectivity and publish locks (with --database)

Without arguments every benchmark in the results directory or the
configuration file is checked.

Example:
  gapreport validate --config gapreport.yaml
  gapreport validate pace2025_heuristic --database`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateDatabase, "database", false,
		"Also check the report database connection")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	benchmarks := args
	if len(benchmarks) == 0 {
		benchmarks, err = knownBenchmarks(cfg)
		if err != nil {
			return err
		}
	}

	cmd.Printf("\n=== Configuration Validation ===\n")
	cmd.Printf("Config file: %s\n", GetConfigFile())
	cmd.Printf("Benchmarks found: %d\n\n", len(benchmarks))

	hasErrors := false
	for _, name := range benchmarks {
		cmd.Printf("--- Benchmark: %s ---\n", name)
		if err := validateBenchmark(cmd, cfg, name); err != nil {
			cmd.Printf("❌ %v\n\n", err)
			hasErrors = true
			continue
		}
		cmd.Printf("✅ All checks passed\n\n")
	}

	if validateDatabase {
		cmd.Printf("--- Database: %s ---\n", cfg.Database.Database)
		if err := checkDatabase(cmd, cfg, benchmarks); err != nil {
			cmd.Printf("❌ %v\n\n", err)
			hasErrors = true
		} else {
			cmd.Printf("✅ Connection ok\n\n")
		}
	}

	if hasErrors {
		return fmt.Errorf("validation failed for one or more benchmarks")
	}

	cmd.Println("=== Validation Complete ===")
	return nil
}

func validateBenchmark(cmd *cobra.Command, cfg *config.Config, name string) error {
	bc := cfg.GetBenchmark(name)
	cmd.Printf("Baseline: %s\n", bc.Baseline)

	base, err := baseline.Load(bc.Baseline, baseline.Options{
		IDColumn:        bc.IDColumn,
		FormatColumn:    bc.FormatColumn,
		BestKnownColumn: bc.BestKnownColumn,
	})
	if err != nil {
		return fmt.Errorf("baseline: %w", err)
	}
	cmd.Printf("Instances: %d\n", base.Len())
	cmd.Printf("Best known total: %d\n", base.TotalBestKnown())

	var zero int
	for _, rec := range base.Records {
		if rec.BestKnown == 0 {
			zero++
		}
	}

	runs, err := artifact.Discover(cfg.BenchmarkDir(name), nil)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("runs: %w", err)
	}
	names := make([]string, len(runs))
	for i, r := range runs {
		names[i] = r.Name
	}
	cmd.Printf("Runs: %d\n", len(runs))

	schema, err := table.NewSchema(base.Columns, bc.IDColumn, bc.BestKnownColumn, names)
	if err != nil {
		return fmt.Errorf("columns: %w", err)
	}
	if zero > 0 && len(schema.Runs) > 0 {
		return fmt.Errorf("%d instance(s) have a best known value of 0; gaps cannot be computed", zero)
	}
	return nil
}

func checkDatabase(cmd *cobra.Command, cfg *config.Config, benchmarks []string) error {
	if err := cfg.ValidateDatabase(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	mgr := database.NewManager(&cfg.Database)
	if err := mgr.Connect(ctx); err != nil {
		return err
	}
	defer mgr.Close()

	if err := mgr.Ping(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	busy, err := publishingBenchmarks(ctx, mgr.DB, benchmarks)
	if err != nil {
		return err
	}
	for _, name := range busy {
		cmd.Printf("⚠️  %s is being published by another session\n", name)
	}
	return nil
}

// publishingBenchmarks returns the benchmarks whose lock is held elsewhere.
// All probes run on one pinned session, so each probe lock is released on
// the session that took it.
func publishingBenchmarks(ctx context.Context, db *sql.DB, benchmarks []string) ([]string, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open database session: %w", err)
	}
	defer conn.Close()

	var busy []string
	for _, name := range benchmarks {
		held, err := lock.IsPublishing(ctx, conn, name)
		if err != nil {
			return nil, err
		}
		if held {
			busy = append(busy, name)
		}
	}
	return busy, nil
}

// knownBenchmarks merges the benchmarks found on disk with the configured ones.
func knownBenchmarks(cfg *config.Config) ([]string, error) {
	found, err := artifact.ListBenchmarks(cfg.ResultsDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Configured keys are lower case; a directory with the same name in any
	// case is the same benchmark.
	seen := make(map[string]bool)
	names := append([]string(nil), found...)
	for _, name := range found {
		seen[strings.ToLower(name)] = true
	}
	for _, name := range cfg.ListBenchmarks() {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
