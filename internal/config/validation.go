package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// ValidFormats lists the supported report output formats.
var ValidFormats = []string{"table", "markdown", "csv", "json", "yaml"}

// Validate checks the configuration for required fields and valid values.
// Database settings are only checked by ValidateDatabase, since they are
// needed for publishing alone.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if c.ResultsDir == "" {
		errors = append(errors, ValidationError{
			Field:   "results_dir",
			Message: "results_dir is required",
		})
	}

	for _, name := range c.ListBenchmarks() {
		if err := c.validateBenchmark(name, c.Benchmarks[name]); err != nil {
			errors = append(errors, err...)
		}
	}

	if err := c.validateReport(); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validatePublish(); err != nil {
		errors = append(errors, err...)
	}

	if err := c.validateLogging(); err != nil {
		errors = append(errors, err...)
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

// ValidateDatabase checks the database section required for publishing.
func (c *Config) ValidateDatabase() error {
	var errors ValidationErrors
	db := &c.Database

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "database.host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "database.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   "database.user",
			Message: "user is required",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "database.database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   "database.tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "database.max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "database.max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateBenchmark(name string, bc BenchmarkConfig) ValidationErrors {
	var errors ValidationErrors
	prefix := fmt.Sprintf("benchmarks.%s", name)

	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		errors = append(errors, ValidationError{
			Field:   prefix,
			Message: "benchmark name must be a single path element",
		})
	}

	if bc.IDColumn != "" && bc.IDColumn == bc.BestKnownColumn {
		errors = append(errors, ValidationError{
			Field:   prefix + ".id_column",
			Message: "id_column and best_known_column must differ",
		})
	}

	return errors
}

func (c *Config) validateReport() ValidationErrors {
	var errors ValidationErrors

	if !isValidFormat(c.Report.Format) {
		errors = append(errors, ValidationError{
			Field:   "report.format",
			Message: fmt.Sprintf("format must be one of: %s", strings.Join(ValidFormats, ", ")),
		})
	}

	if c.Report.Workers <= 0 {
		errors = append(errors, ValidationError{
			Field:   "report.workers",
			Message: "workers must be positive",
		})
	}

	return errors
}

func (c *Config) validatePublish() ValidationErrors {
	var errors ValidationErrors

	if c.Publish.LockTimeout < -1 {
		errors = append(errors, ValidationError{
			Field:   "publish.lock_timeout",
			Message: "lock_timeout must be -1 (wait forever) or a non-negative number of seconds",
		})
	}

	if c.Publish.BatchSize <= 0 {
		errors = append(errors, ValidationError{
			Field:   "publish.batch_size",
			Message: "batch_size must be positive",
		})
	}

	validMethods := map[string]bool{"count": true, "sha256": true, "skip": true, "": true}
	if !validMethods[c.Publish.Verification] {
		errors = append(errors, ValidationError{
			Field:   "publish.verification",
			Message: "verification must be 'count', 'sha256', or 'skip'",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
