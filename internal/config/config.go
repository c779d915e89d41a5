// Package config provides configuration structures and loading for gapreport.
package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Default baseline column names, as written by the benchmark data archives.
const (
	DefaultIDColumn        = "Path"
	DefaultFormatColumn    = "Format"
	DefaultBestKnownColumn = "Best known solution value"
)

// Config represents the complete application configuration.
type Config struct {
	ResultsDir string                     `yaml:"results_dir" mapstructure:"results_dir"`
	DataDir    string                     `yaml:"data_dir" mapstructure:"data_dir"`
	Benchmarks map[string]BenchmarkConfig `yaml:"benchmarks" mapstructure:"benchmarks"`
	Report     ReportConfig               `yaml:"report" mapstructure:"report"`
	Database   DatabaseConfig             `yaml:"database" mapstructure:"database"`
	Publish    PublishConfig              `yaml:"publish" mapstructure:"publish"`
	Logging    LoggingConfig              `yaml:"logging" mapstructure:"logging"`
}

// BenchmarkConfig describes where a benchmark's baseline lives and how its columns are named.
type BenchmarkConfig struct {
	Baseline        string `yaml:"baseline" mapstructure:"baseline"`
	IDColumn        string `yaml:"id_column" mapstructure:"id_column"`
	FormatColumn    string `yaml:"format_column" mapstructure:"format_column"`
	BestKnownColumn string `yaml:"best_known_column" mapstructure:"best_known_column"`
}

// ReportConfig represents report generation settings.
type ReportConfig struct {
	Format  string `yaml:"format" mapstructure:"format"`   // table, markdown, csv, json, yaml
	Workers int    `yaml:"workers" mapstructure:"workers"` // parallel artifact reads
	Color   bool   `yaml:"color" mapstructure:"color"`
}

// DatabaseConfig represents the MySQL database reports are published to.
type DatabaseConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// PublishConfig represents settings for storing reports in MySQL.
type PublishConfig struct {
	TablePrefix  string `yaml:"table_prefix" mapstructure:"table_prefix"`
	LockTimeout  int    `yaml:"lock_timeout" mapstructure:"lock_timeout"`   // seconds, -1 waits forever
	BatchSize    int    `yaml:"batch_size" mapstructure:"batch_size"`       // cells per INSERT
	Verification string `yaml:"verification" mapstructure:"verification"` // count, sha256, skip
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		ResultsDir: "benchmark_results",
		DataDir:    "data",
		Benchmarks: map[string]BenchmarkConfig{},
		Report: ReportConfig{
			Format:  "table",
			Workers: 8,
			Color:   true,
		},
		Database: DatabaseConfig{
			Port:               3306,
			TLS:                "preferred",
			MaxConnections:     4,
			MaxIdleConnections: 2,
		},
		Publish: PublishConfig{
			TablePrefix:  "gapreport_",
			LockTimeout:  10,
			BatchSize:    500,
			Verification: "count",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// GetBenchmark returns the configuration for a benchmark by name.
// Configuration keys are matched case-insensitively since the loader folds
// them to lower case. Benchmarks that are not configured fall back to
// <data_dir>/data_<name>.csv with the default column names. Empty column
// names are filled with defaults.
func (c *Config) GetBenchmark(name string) BenchmarkConfig {
	bc, ok := c.Benchmarks[name]
	if !ok {
		bc = c.Benchmarks[strings.ToLower(name)]
	}
	if bc.Baseline == "" {
		bc.Baseline = filepath.Join(c.DataDir, fmt.Sprintf("data_%s.csv", name))
	}
	if bc.IDColumn == "" {
		bc.IDColumn = DefaultIDColumn
	}
	if bc.FormatColumn == "" {
		bc.FormatColumn = DefaultFormatColumn
	}
	if bc.BestKnownColumn == "" {
		bc.BestKnownColumn = DefaultBestKnownColumn
	}
	return bc
}

// BenchmarkDir returns the directory holding the run directories of a benchmark.
func (c *Config) BenchmarkDir(name string) string {
	return filepath.Join(c.ResultsDir, name)
}

// ListBenchmarks returns all benchmark names defined in the configuration, sorted.
func (c *Config) ListBenchmarks() []string {
	names := make([]string, 0, len(c.Benchmarks))
	for name := range c.Benchmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
