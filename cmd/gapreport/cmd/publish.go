package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gapreport/internal/database"
	"github.com/dbsmedya/gapreport/internal/lock"
	"github.com/dbsmedya/gapreport/internal/publish"
	"github.com/dbsmedya/gapreport/internal/report"
)

var (
	publishRuns       []string
	publishInitSchema bool
)

var publishCmd = &cobra.Command{
	Use:   "publish <benchmark>",
	Short: "Store the gap report of a benchmark in MySQL",
	Long: `Publish builds the report of a benchmark exactly like "report" and stores
every cell, including the total row, in the report database.

One publisher per benchmark runs at a time; a second publisher waits up to
publish.lock_timeout seconds for the benchmark lock and then fails. The
stored cells are verified after commit (count, sha256 or skip).

Example:
  gapreport publish pace2025_heuristic --init-schema
  gapreport publish pace2025_heuristic --runs greedy`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringSliceVarP(&publishRuns, "runs", "r", nil,
		"Only include these run directories (comma separated)")
	publishCmd.Flags().BoolVar(&publishInitSchema, "init-schema", false,
		"Create the report tables if they do not exist")

	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	benchmark := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := setupSignalHandler(cmd.Context(), func(sig os.Signal) {
		log.Warnw("Received shutdown signal - rolling back publish", "signal", sig.String())
	})
	defer stop()

	engine, err := report.NewEngine(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create report engine: %w", err)
	}
	result, err := engine.Generate(ctx, benchmark, publishRuns)
	if err != nil {
		return fmt.Errorf("report for %q failed: %w", benchmark, err)
	}

	mgr := database.NewManager(&cfg.Database)
	if err := mgr.Connect(ctx); err != nil {
		return err
	}
	defer mgr.Close()

	publisher, err := publish.NewPublisher(mgr.DB, cfg.Publish, log)
	if err != nil {
		return err
	}
	if publishInitSchema {
		if err := publisher.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	receipt, err := publisher.Publish(ctx, result.Table)
	if errors.Is(err, lock.ErrLockTimeout) {
		return fmt.Errorf("benchmark %q is being published by another session, try again later: %w", benchmark, err)
	}
	if err != nil {
		return err
	}

	printReceipt(cmd, receipt)
	return nil
}

func printReceipt(cmd *cobra.Command, r *publish.Receipt) {
	cmd.Printf("Published report %d for %s\n", r.ReportID, r.Benchmark)
	cmd.Printf("  Created:   %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Instances: %d\n", r.Instances)
	cmd.Printf("  Runs:      %d\n", r.Runs)
	cmd.Printf("  Cells:     %d\n", r.Cells)
	if v := r.Verification; v != nil {
		cmd.Printf("  Verified:  %s\n", v.Method)
	}
}
