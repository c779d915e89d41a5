package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gapreport/internal/artifact"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List benchmarks and their runs",
	Long: `List shows every benchmark found in the results directory or defined in
the configuration file, with its baseline file and run directories.

Example:
  gapreport list --results-dir benchmark_results`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	names, err := knownBenchmarks(cfg)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		cmd.Printf("No benchmarks found in %s\n", cfg.ResultsDir)
		return nil
	}

	cmd.Printf("Benchmarks in %s:\n\n", cfg.ResultsDir)
	for i, name := range names {
		bc := cfg.GetBenchmark(name)

		cmd.Printf("%d. %s\n", i+1, name)
		baselineState := "ok"
		if _, err := os.Stat(bc.Baseline); err != nil {
			baselineState = "missing"
		}
		cmd.Printf("   Baseline:  %s (%s)\n", bc.Baseline, baselineState)

		runs, err := artifact.Discover(cfg.BenchmarkDir(name), nil)
		if err != nil {
			cmd.Printf("   Runs:      (none)\n")
		} else {
			cmd.Printf("   Runs:      %d\n", len(runs))
			for _, r := range runs {
				cmd.Printf("      - %s\n", r.Name)
			}
		}

		if i < len(names)-1 {
			cmd.Println()
		}
	}

	cmd.Printf("\nTotal: %d benchmark(s)\n", len(names))
	return nil
}
