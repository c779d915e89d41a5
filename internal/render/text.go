package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/gapreport/internal/gap"
	"github.com/dbsmedya/gapreport/internal/table"
)

// classColors maps classifications to terminal colors.
var classColors = map[gap.Classification]color.Color{
	gap.Equal:  color.FgGreen,
	gap.Worse:  color.FgRed,
	gap.Better: color.FgYellow,
}

// TextRenderer writes an aligned terminal table. Value cells of instance
// rows are colored by classification; the total row is separated by a rule.
type TextRenderer struct {
	opts Options
}

// NewTextRenderer creates a text renderer.
func NewTextRenderer(opts Options) *TextRenderer {
	return &TextRenderer{opts: opts}
}

// Render implements Renderer.
func (r *TextRenderer) Render(w io.Writer, t *table.Table) error {
	bw := bufio.NewWriter(w)
	columns := t.Schema.Columns

	cells := make([][]string, len(t.Rows))
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = runewidth.StringWidth(c.Name)
	}
	for i, row := range t.Rows {
		entries := t.Entries(row)
		cells[i] = make([]string, len(entries))
		for j, e := range entries {
			cells[i][j] = entryText(e, r.opts)
			if cw := runewidth.StringWidth(cells[i][j]); cw > widths[j] {
				widths[j] = cw
			}
		}
	}

	sep, rule, cross := " │ ", "─", "─┼─"
	if r.opts.ASCII {
		sep, rule, cross = " | ", "-", "-+-"
	}

	header := make([]string, len(columns))
	for j, c := range columns {
		header[j] = runewidth.FillRight(c.Name, widths[j])
	}
	writeLine(bw, strings.Join(header, sep))
	writeRule(bw, widths, rule, cross)

	for i, row := range t.Rows {
		if row.Kind == table.TotalRow {
			writeRule(bw, widths, rule, cross)
		}
		parts := make([]string, len(columns))
		for j, c := range columns {
			parts[j] = r.pad(cells[i][j], widths[j], c.Kind != table.FieldColumn)
			if c.Kind == table.ValueColumn && row.Kind == table.InstanceRow {
				parts[j] = r.paint(parts[j], row.Cells[c.Run])
			}
		}
		writeLine(bw, strings.Join(parts, sep))
	}

	if len(t.Anomalies) > 0 {
		fmt.Fprintf(bw, "\n%d result(s) better than the best known value:\n", len(t.Anomalies))
		for _, a := range t.Anomalies {
			fmt.Fprintf(bw, "  %s\n", a)
		}
	}
	return bw.Flush()
}

func (r *TextRenderer) pad(s string, width int, right bool) string {
	if right {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

func (r *TextRenderer) paint(s string, cell table.Cell) string {
	if !r.opts.Color || !cell.Classified {
		return s
	}
	c, ok := classColors[cell.Class]
	if !ok {
		return s
	}
	return c.Render(s)
}

func writeRule(w *bufio.Writer, widths []int, rule, cross string) {
	parts := make([]string, len(widths))
	for i, width := range widths {
		parts[i] = strings.Repeat(rule, width)
	}
	writeLine(w, strings.Join(parts, cross))
}

func writeLine(w *bufio.Writer, line string) {
	w.WriteString(strings.TrimRight(line, " "))
	w.WriteByte('\n')
}
