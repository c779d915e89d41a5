// Package sqlutil provides SQL building helpers for the report tables.
package sqlutil

import (
	"regexp"
	"strings"
)

// MaxIdentifierLength is the longest table or column name MySQL accepts.
const MaxIdentifierLength = 64

// QuoteIdentifier quotes a MySQL identifier (table name, column name) with backticks.
// It escapes any existing backticks by doubling them.
// Example: "my_table" -> "`my_table`"
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// validIdentifierRegex restricts identifiers to alphanumerics and underscores.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier checks if a name is a usable MySQL identifier.
func IsValidIdentifier(name string) bool {
	return len(name) <= MaxIdentifierLength && validIdentifierRegex.MatchString(name)
}

// QuoteIdentifierSafe quotes a MySQL identifier after validating it.
// Use this when identifiers come from configuration.
func QuoteIdentifierSafe(name string) (string, error) {
	if !IsValidIdentifier(name) {
		return "", &InvalidIdentifierError{Name: name}
	}
	return QuoteIdentifier(name), nil
}

// TableName joins a configured prefix and a table name and quotes the result.
// An empty prefix is allowed.
func TableName(prefix, name string) (string, error) {
	return QuoteIdentifierSafe(prefix + name)
}

// Placeholders returns a parenthesized group of n bind parameters, e.g. "(?, ?, ?)".
func Placeholders(n int) string {
	if n <= 0 {
		return "()"
	}
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must be 1-64 alphanumeric characters or underscores)"
}
