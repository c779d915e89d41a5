// Package render writes report tables in the supported output formats.
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dbsmedya/gapreport/internal/table"
)

// Output formats.
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatTable, FormatMarkdown, FormatCSV, FormatJSON, FormatYAML}
}

// Options controls presentation details of the text formats.
type Options struct {
	Color        bool // classification colors in the text table
	ASCII        bool // plain ASCII rules instead of box drawing characters
	GapPrecision int  // digits after the point in gap columns, -1 for exact
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{Color: true, GapPrecision: 2}
}

// Renderer writes a table to w.
type Renderer interface {
	Render(w io.Writer, t *table.Table) error
}

// New returns the renderer of a format.
func New(format string, opts Options) (Renderer, error) {
	switch format {
	case FormatTable, "":
		return &TextRenderer{opts: opts}, nil
	case FormatMarkdown:
		return &MarkdownRenderer{opts: opts}, nil
	case FormatCSV:
		return &CSVRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{Indent: "  "}, nil
	case FormatYAML:
		return &YAMLRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// formatNumber prints integral values without a fraction and everything
// else with the shortest exact representation.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatGap(v float64, precision int) string {
	if precision < 0 {
		return formatNumber(v)
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// entryText is the display text of an entry in the human-readable formats.
func entryText(e table.Entry, opts Options) string {
	switch e.Column.Kind {
	case table.FieldColumn:
		return e.Text
	case table.GapColumn:
		return formatGap(e.Number, opts.GapPrecision)
	default:
		return formatNumber(e.Number)
	}
}
