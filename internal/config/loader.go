package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override configuration
// keys, e.g. GAPREPORT_DATABASE_PASSWORD for database.password.
const EnvPrefix = "GAPREPORT"

// envKeys are the keys that can be set from the environment.
var envKeys = []string{
	"results_dir", "data_dir",
	"report.format", "report.workers", "report.color",
	"database.host", "database.port", "database.user", "database.password",
	"database.database", "database.tls",
	"publish.table_prefix", "publish.lock_timeout", "publish.batch_size", "publish.verification",
	"logging.level", "logging.format", "logging.output",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads configuration from the specified file path.
// It supports YAML files, GAPREPORT_* environment overrides and ${VAR}
// substitution.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadOrDefault behaves like Load but starts from the defaults when the
// file does not exist. Reporting needs no configuration at all when the
// conventional data/ and benchmark_results/ layout is used.
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return LoadFromViper(newViper())
	}
	return Load(configPath)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := substituteEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("failed to substitute environment variables: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) error {
	cfg.ResultsDir = expandEnvVar(cfg.ResultsDir)
	cfg.DataDir = expandEnvVar(cfg.DataDir)

	for name, bc := range cfg.Benchmarks {
		bc.Baseline = expandEnvVar(bc.Baseline)
		cfg.Benchmarks[name] = bc
	}

	cfg.Database.Host = expandEnvVar(cfg.Database.Host)
	cfg.Database.User = expandEnvVar(cfg.Database.User)
	cfg.Database.Password = expandEnvVar(cfg.Database.Password)
	cfg.Database.Database = expandEnvVar(cfg.Database.Database)

	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat, resultsDir, dataDir string, workers int, noColor bool) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if resultsDir != "" {
		c.ResultsDir = resultsDir
	}
	if dataDir != "" {
		c.DataDir = dataDir
	}
	if workers > 0 {
		c.Report.Workers = workers
	}
	if noColor {
		c.Report.Color = false
	}
}
