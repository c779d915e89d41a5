package baseline

import "fmt"

// MalformedBaselineError reports a baseline file that cannot be used: a
// missing column, a bad or duplicate identifier, or a best-known value that
// is not a usable non-negative integer. It is fatal for the whole report.
type MalformedBaselineError struct {
	Path   string
	Line   int
	Column string
	Value  string
	Reason string
}

func (e *MalformedBaselineError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "baseline"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	switch {
	case e.Column != "" && e.Value != "":
		return fmt.Sprintf("malformed baseline %s: column %q value %q: %s", loc, e.Column, e.Value, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("malformed baseline %s: column %q: %s", loc, e.Column, e.Reason)
	default:
		return fmt.Sprintf("malformed baseline %s: %s", loc, e.Reason)
	}
}
