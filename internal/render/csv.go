package render

import (
	"encoding/csv"
	"io"

	"github.com/dbsmedya/gapreport/internal/table"
)

// CSVRenderer writes the table as CSV, header first and the total row last.
// Numbers keep full precision.
type CSVRenderer struct{}

// Render implements Renderer.
func (r *CSVRenderer) Render(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}

	exact := Options{GapPrecision: -1}
	for _, row := range t.Rows {
		entries := t.Entries(row)
		record := make([]string, len(entries))
		for i, e := range entries {
			record[i] = entryText(e, exact)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
