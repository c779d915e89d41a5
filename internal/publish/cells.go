package publish

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/dbsmedya/gapreport/internal/table"
)

// CellRecord is one stored (row, run) cell. Total row cells carry no
// classification.
type CellRecord struct {
	RowIndex       int
	RunIndex       int
	Instance       string
	Run            string
	Value          float64
	Available      bool
	Gap            float64
	Classification string
}

// args returns the bind parameters in column order.
func (c CellRecord) args(reportID int64) []any {
	var class any
	if c.Classification != "" {
		class = c.Classification
	}
	return []any{reportID, c.RowIndex, c.RunIndex, c.Instance, c.Run, c.Value, c.Available, c.Gap, class}
}

// cellColumns are the insert columns of the cells table.
var cellColumns = []string{
	"report_id", "row_index", "run_index", "instance", "run", "value", "available", "gap", "classification",
}

// Cells flattens a table into cell records, total row included, ordered by
// row then run.
func Cells(t *table.Table) []CellRecord {
	cells := make([]CellRecord, 0, len(t.Rows)*len(t.Schema.Runs))
	for i, row := range t.Rows {
		for j, c := range row.Cells {
			rec := CellRecord{
				RowIndex:  i,
				RunIndex:  j,
				Instance:  row.ID,
				Run:       t.Schema.Runs[j].Name,
				Value:     c.Value,
				Available: c.Available,
				Gap:       c.Gap,
			}
			if c.Classified {
				rec.Classification = c.Class.String()
			}
			cells = append(cells, rec)
		}
	}
	return cells
}

// digest hashes cells in order: one NUL separated line per cell.
func digest(cells []CellRecord) string {
	h := sha256.New()
	for _, c := range cells {
		h.Write([]byte(serializeCell(c)))
		h.Write([]byte("\n"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func serializeCell(c CellRecord) string {
	return strings.Join([]string{
		strconv.Itoa(c.RowIndex),
		strconv.Itoa(c.RunIndex),
		c.Instance,
		c.Run,
		strconv.FormatFloat(c.Value, 'g', -1, 64),
		strconv.FormatBool(c.Available),
		strconv.FormatFloat(c.Gap, 'g', -1, 64),
		c.Classification,
	}, "\x00")
}
