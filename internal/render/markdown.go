package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dbsmedya/gapreport/internal/table"
)

// MarkdownRenderer writes a GitHub-flavored Markdown table. Numeric columns
// are right aligned and the total row is set in bold.
type MarkdownRenderer struct {
	opts Options
}

// Render implements Renderer.
func (r *MarkdownRenderer) Render(w io.Writer, t *table.Table) error {
	bw := bufio.NewWriter(w)
	columns := t.Schema.Columns

	names := make([]string, len(columns))
	aligns := make([]string, len(columns))
	for i, c := range columns {
		names[i] = escapeMarkdown(c.Name)
		aligns[i] = "---"
		if c.Kind != table.FieldColumn {
			aligns[i] = "---:"
		}
	}
	fmt.Fprintf(bw, "## %s\n\n", escapeMarkdown(t.Benchmark))
	fmt.Fprintf(bw, "| %s |\n", strings.Join(names, " | "))
	fmt.Fprintf(bw, "| %s |\n", strings.Join(aligns, " | "))

	for _, row := range t.Rows {
		parts := make([]string, len(columns))
		for i, e := range t.Entries(row) {
			text := escapeMarkdown(entryText(e, r.opts))
			if row.Kind == table.TotalRow && text != "" {
				text = "**" + text + "**"
			}
			parts[i] = text
		}
		fmt.Fprintf(bw, "| %s |\n", strings.Join(parts, " | "))
	}

	if len(t.Anomalies) > 0 {
		fmt.Fprintf(bw, "\nResults better than the best known value:\n\n")
		for _, a := range t.Anomalies {
			fmt.Fprintf(bw, "- %s\n", escapeMarkdown(a.String()))
		}
	}
	return bw.Flush()
}

var markdownEscaper = strings.NewReplacer(`|`, `\|`, "\n", " ", "\r", "")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
