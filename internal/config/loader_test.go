package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test.yaml")

	configContent := `
results_dir: /srv/benchmark_results
data_dir: /srv/data

benchmarks:
  pace2025_heuristic:
    baseline: /srv/data/data_pace2025_heuristic.csv
    id_column: Path
    best_known_column: Best known solution value

report:
  format: markdown
  workers: 2
  color: false

database:
  host: localhost
  port: 3307
  user: bench
  password: secret
  database: benchmarks
  tls: disable

publish:
  table_prefix: scp_
  lock_timeout: 3

logging:
  level: debug
  format: json
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.ResultsDir != "/srv/benchmark_results" {
		t.Errorf("expected results_dir '/srv/benchmark_results', got %s", cfg.ResultsDir)
	}

	bc, ok := cfg.Benchmarks["pace2025_heuristic"]
	if !ok {
		t.Fatal("expected benchmark pace2025_heuristic to be loaded")
	}
	if bc.BestKnownColumn != "Best known solution value" {
		t.Errorf("unexpected best_known_column %q", bc.BestKnownColumn)
	}

	if cfg.Report.Format != "markdown" {
		t.Errorf("expected report format 'markdown', got %s", cfg.Report.Format)
	}
	if cfg.Report.Workers != 2 {
		t.Errorf("expected report workers 2, got %d", cfg.Report.Workers)
	}
	if cfg.Report.Color {
		t.Error("expected color disabled")
	}

	if cfg.Database.Port != 3307 {
		t.Errorf("expected database port 3307, got %d", cfg.Database.Port)
	}
	if cfg.Database.TLS != "disable" {
		t.Errorf("expected database tls 'disable', got %s", cfg.Database.TLS)
	}
	// Defaults survive for keys absent from the file
	if cfg.Database.MaxConnections != 4 {
		t.Errorf("expected default max_connections 4, got %d", cfg.Database.MaxConnections)
	}

	if cfg.Publish.TablePrefix != "scp_" {
		t.Errorf("expected table prefix 'scp_', got %s", cfg.Publish.TablePrefix)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging level 'debug', got %s", cfg.Logging.Level)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	t.Setenv("TEST_GAP_DB_HOST", "env-host")
	t.Setenv("TEST_GAP_DB_PASS", "env-pass")
	t.Setenv("TEST_GAP_ROOT", "/mnt/bench")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-env.yaml")

	configContent := `
results_dir: ${TEST_GAP_ROOT}/benchmark_results
benchmarks:
  balas1980:
    baseline: $TEST_GAP_ROOT/data/balas1980.csv
database:
  host: ${TEST_GAP_DB_HOST}
  user: bench
  password: ${TEST_GAP_DB_PASS}
  database: benchmarks
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.ResultsDir != "/mnt/bench/benchmark_results" {
		t.Errorf("expected expanded results_dir, got %s", cfg.ResultsDir)
	}
	if cfg.Benchmarks["balas1980"].Baseline != "/mnt/bench/data/balas1980.csv" {
		t.Errorf("expected expanded baseline, got %s", cfg.Benchmarks["balas1980"].Baseline)
	}
	if cfg.Database.Host != "env-host" {
		t.Errorf("expected database host 'env-host', got %s", cfg.Database.Host)
	}
	if cfg.Database.Password != "env-pass" {
		t.Errorf("expected database password 'env-pass', got %s", cfg.Database.Password)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	tests := []struct {
		input    string
		expected string
	}{
		{"${TEST_VAR}", "test-value"},
		{"$TEST_VAR", "test-value"},
		{"prefix-${TEST_VAR}-suffix", "prefix-test-value-suffix"},
		{"${NONEXISTENT_GAP_VAR}", "${NONEXISTENT_GAP_VAR}"}, // Unset vars remain unchanged
		{"no-vars-here", "no-vars-here"},
	}

	for _, tt := range tests {
		result := expandEnvVar(tt.input)
		if result != tt.expected {
			t.Errorf("expandEnvVar(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ResultsDir != "benchmark_results" {
		t.Errorf("expected default results_dir, got %s", cfg.ResultsDir)
	}
}

func TestLoadOrDefaultExistingFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "gapreport.yaml")
	if err := os.WriteFile(configPath, []byte("results_dir: elsewhere\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadOrDefault(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ResultsDir != "elsewhere" {
		t.Errorf("expected results_dir 'elsewhere', got %s", cfg.ResultsDir)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()

	cfg.ApplyOverrides("debug", "json", "/r", "/d", 3, true)

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug' after override, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json' after override, got %s", cfg.Logging.Format)
	}
	if cfg.ResultsDir != "/r" {
		t.Errorf("expected results dir '/r' after override, got %s", cfg.ResultsDir)
	}
	if cfg.DataDir != "/d" {
		t.Errorf("expected data dir '/d' after override, got %s", cfg.DataDir)
	}
	if cfg.Report.Workers != 3 {
		t.Errorf("expected workers 3 after override, got %d", cfg.Report.Workers)
	}
	if cfg.Report.Color {
		t.Error("expected color disabled after override")
	}
}

func TestApplyOverridesZeroValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "warn"
	cfg.Report.Workers = 16

	cfg.ApplyOverrides("", "", "", "", 0, false)

	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn' to be preserved, got %s", cfg.Logging.Level)
	}
	if cfg.ResultsDir != "benchmark_results" {
		t.Errorf("expected results dir to be preserved, got %s", cfg.ResultsDir)
	}
	if cfg.Report.Workers != 16 {
		t.Errorf("expected workers 16 to be preserved, got %d", cfg.Report.Workers)
	}
	if !cfg.Report.Color {
		t.Error("expected color to remain enabled")
	}
}

func TestLoadPrefixedEnvOverrides(t *testing.T) {
	t.Setenv("GAPREPORT_DATABASE_PASSWORD", "s3cret")
	t.Setenv("GAPREPORT_REPORT_WORKERS", "3")
	t.Setenv("GAPREPORT_PUBLISH_VERIFICATION", "sha256")

	configPath := filepath.Join(t.TempDir(), "gapreport.yaml")
	if err := os.WriteFile(configPath, []byte("report:\n  workers: 12\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Password != "s3cret" {
		t.Errorf("Database.Password = %q, want s3cret", cfg.Database.Password)
	}
	if cfg.Report.Workers != 3 {
		t.Errorf("Report.Workers = %d, want 3 (env beats file)", cfg.Report.Workers)
	}
	if cfg.Publish.Verification != "sha256" {
		t.Errorf("Publish.Verification = %q, want sha256", cfg.Publish.Verification)
	}
	if cfg.Report.Format != "table" {
		t.Errorf("Report.Format = %q, unset keys should keep defaults", cfg.Report.Format)
	}

	cfg, err = LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Database.Password != "s3cret" || cfg.Report.Workers != 3 {
		t.Errorf("env overrides not applied without a config file: %+v", cfg)
	}
}

func TestLoadMixedCaseBenchmark(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "gapreport.yaml")
	content := "benchmarks:\n  Beasley:\n    baseline: custom/beasley.csv\n    id_column: Name\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	bc := cfg.GetBenchmark("Beasley")
	if bc.Baseline != "custom/beasley.csv" {
		t.Errorf("Baseline = %q, want custom/beasley.csv", bc.Baseline)
	}
	if bc.IDColumn != "Name" {
		t.Errorf("IDColumn = %q, want Name", bc.IDColumn)
	}
	if got := cfg.GetBenchmark("beasley").Baseline; got != "custom/beasley.csv" {
		t.Errorf("lower-case lookup Baseline = %q", got)
	}
}
