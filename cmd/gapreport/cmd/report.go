package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gapreport/internal/render"
	"github.com/dbsmedya/gapreport/internal/report"
)

var (
	reportFormat    string
	reportRuns      []string
	reportOutput    string
	reportASCII     bool
	reportPrecision int
)

var reportCmd = &cobra.Command{
	Use:   "report <benchmark>",
	Short: "Build the gap report of a benchmark",
	Long: `Report loads the baseline of a benchmark, reads the result of every
instance in every run directory and prints the comparison table.

Each run contributes a "<run> / Solution value" and a "<run> / Gap" column.
Missing or unreadable results are shown as the penalty value 9999999 and
logged as warnings. The last row holds the column totals.

Example:
  gapreport report pace2025_heuristic
  gapreport report pace2025_heuristic --runs greedy,local_search --format markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "",
		fmt.Sprintf("Output format (%s); defaults to report.format", strings.Join(render.Formats(), ", ")))
	reportCmd.Flags().StringSliceVarP(&reportRuns, "runs", "r", nil,
		"Only include these run directories (comma separated)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "",
		"Write the report to a file instead of stdout")
	reportCmd.Flags().BoolVar(&reportASCII, "ascii", false,
		"Use plain ASCII rules in table output")
	reportCmd.Flags().IntVar(&reportPrecision, "precision", 2,
		"Digits after the decimal point in gap columns of text output (-1 for exact)")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	benchmark := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format := cfg.Report.Format
	if reportFormat != "" {
		format = reportFormat
	}
	opts := render.Options{
		Color:        cfg.Report.Color && reportOutput == "",
		ASCII:        reportASCII,
		GapPrecision: reportPrecision,
	}
	renderer, err := render.New(format, opts)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := setupSignalHandler(cmd.Context(), func(sig os.Signal) {
		log.Warnw("Received shutdown signal - abandoning report", "signal", sig.String())
	})
	defer stop()

	engine, err := report.NewEngine(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create report engine: %w", err)
	}

	result, err := engine.Generate(ctx, benchmark, reportRuns)
	if err != nil {
		return fmt.Errorf("report for %q failed: %w", benchmark, err)
	}

	return writeReport(cmd.OutOrStdout(), reportOutput, func(w io.Writer) error {
		return renderer.Render(w, result.Table)
	})
}

// writeReport renders to path, or to out when path is empty. A partially
// written file is removed.
func writeReport(out io.Writer, path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(out)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
		if err != nil {
			err = errors.Join(err, os.Remove(path))
		}
	}()

	return write(f)
}
