package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/gapreport/internal/config"
	"github.com/dbsmedya/gapreport/internal/logger"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile    string
	logLevel   string
	logFormat  string
	resultsDir string
	dataDir    string
	workers    int
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "gapreport",
	Short: "Benchmark aggregation and gap analysis",
	Long: `Gapreport joins the best-known solution values of a benchmark with the
results of one or more solver runs and reports the optimality gap of every
instance and run.

Features:
  - Baseline CSV with per-instance best-known values
  - One value/gap column pair per run directory
  - Penalty value for missing or unreadable results
  - Equal / worse / better classification
  - Text, Markdown, CSV, JSON and YAML output
  - Optional publishing of reports to MySQL`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "gapreport.yaml",
		"Path to configuration file (defaults apply when it does not exist)")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Input overrides
	rootCmd.PersistentFlags().StringVar(&resultsDir, "results-dir", "",
		"Override directory holding <benchmark>/<run> result directories")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"Override directory holding data_<benchmark>.csv baselines")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0,
		"Override number of parallel artifact reads")

	// Output overrides
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable classification colors in table output")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel   string
	LogFormat  string
	ResultsDir string
	DataDir    string
	Workers    int
	NoColor    bool
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		ResultsDir: resultsDir,
		DataDir:    dataDir,
		Workers:    workers,
		NoColor:    noColor,
	}
}

// loadConfig loads the config file (or defaults), applies CLI overrides and
// validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	o := GetCLIOverrides()
	cfg.ApplyOverrides(o.LogLevel, o.LogFormat, o.ResultsDir, o.DataDir, o.Workers, o.NoColor)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the command logger from configuration.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}
