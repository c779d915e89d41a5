package table

import (
	"fmt"
	"strconv"

	"github.com/dbsmedya/gapreport/internal/baseline"
	"github.com/dbsmedya/gapreport/internal/gap"
)

// RowKind distinguishes instance rows from the synthetic total row.
type RowKind int

const (
	// InstanceRow holds one baseline instance.
	InstanceRow RowKind = iota
	// TotalRow holds the column-wise sums.
	TotalRow
)

func (k RowKind) String() string {
	if k == TotalRow {
		return "total"
	}
	return "instance"
}

// Cell is the value/gap pair of one run in one row.
// Classified is false on the total row, where no classification applies.
type Cell struct {
	Value      float64
	Available  bool
	Gap        float64
	Class      gap.Classification
	Classified bool
}

// Row is one table row. Fields holds the raw baseline values aligned with the
// baseline columns; Cells holds one entry per run in schema order.
type Row struct {
	Kind      RowKind
	ID        string
	BestKnown int64
	Fields    []string
	Cells     []Cell
}

// Anomaly flags a result that beats the best-known value.
type Anomaly struct {
	Instance  string
	Run       string
	Value     float64
	BestKnown int64
	Gap       float64
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s on %s: %s below best known %d (gap %.4f%%)",
		a.Run, a.Instance, strconv.FormatFloat(a.Value, 'f', -1, 64), a.BestKnown, a.Gap)
}

// Table is the complete report: instance rows in baseline order followed by
// exactly one total row.
type Table struct {
	Benchmark string
	Schema    *Schema
	Rows      []Row
	Anomalies []Anomaly
}

// Columns returns the ordered column names.
func (t *Table) Columns() []string {
	return t.Schema.Names()
}

// Total returns the total row.
func (t *Table) Total() Row {
	return t.Rows[len(t.Rows)-1]
}

// Instances returns the instance rows.
func (t *Table) Instances() []Row {
	return t.Rows[:len(t.Rows)-1]
}

// Entry is the content of one (row, column) position.
type Entry struct {
	Column Column
	Text   string  // field columns
	Number float64 // best-known, value and gap columns
	Cell   *Cell   // value and gap columns
}

// Numeric reports whether the entry holds a number.
func (e Entry) Numeric() bool {
	return e.Column.Kind != FieldColumn
}

// Entry returns the content of a row at a column.
func (t *Table) Entry(row Row, col Column) Entry {
	e := Entry{Column: col}
	switch col.Kind {
	case FieldColumn:
		if col.Field >= 0 && col.Field < len(row.Fields) {
			e.Text = row.Fields[col.Field]
		}
	case BestKnownColumn:
		e.Number = float64(row.BestKnown)
	case ValueColumn:
		cell := row.Cells[col.Run]
		e.Cell = &cell
		e.Number = cell.Value
	case GapColumn:
		cell := row.Cells[col.Run]
		e.Cell = &cell
		e.Number = cell.Gap
	}
	return e
}

// Entries returns the entries of a row in column order.
func (t *Table) Entries(row Row) []Entry {
	entries := make([]Entry, len(t.Schema.Columns))
	for i, c := range t.Schema.Columns {
		entries[i] = t.Entry(row, c)
	}
	return entries
}

// CellFor builds an instance cell from a computed result.
func CellFor(r gap.Result) Cell {
	return Cell{
		Value:      r.Achieved.Displayed(),
		Available:  r.Achieved.Available(),
		Gap:        r.Gap,
		Class:      r.Class,
		Classified: true,
	}
}

// Assembler builds a Table row by row. Totals are folded as each completed
// row is added and the total row is emitted by Finish.
type Assembler struct {
	benchmark string
	schema    *Schema
	totals    *gap.Totals
	rows      []Row
	anomalies []Anomaly
	finished  bool
}

// NewAssembler starts a table for the given schema.
func NewAssembler(benchmark string, schema *Schema) *Assembler {
	return &Assembler{
		benchmark: benchmark,
		schema:    schema,
		totals:    gap.NewTotals(len(schema.Runs)),
	}
}

// Add appends the row of one instance. results holds one computed result
// per run in schema order.
func (a *Assembler) Add(rec baseline.Record, results []gap.Result) error {
	if a.finished {
		return fmt.Errorf("table already finished")
	}
	if err := a.totals.Add(rec.BestKnown, results); err != nil {
		return fmt.Errorf("instance %q: %w", rec.ID, err)
	}

	row := Row{
		Kind:      InstanceRow,
		ID:        rec.ID,
		BestKnown: rec.BestKnown,
		Fields:    rec.Fields(),
		Cells:     make([]Cell, len(results)),
	}
	for i, r := range results {
		row.Cells[i] = CellFor(r)
		if r.Anomalous() {
			a.anomalies = append(a.anomalies, Anomaly{
				Instance:  rec.ID,
				Run:       a.schema.Runs[i].Name,
				Value:     r.Achieved.Displayed(),
				BestKnown: rec.BestKnown,
				Gap:       r.Gap,
			})
		}
	}
	a.rows = append(a.rows, row)
	return nil
}

// Anomalies returns the anomalies found so far.
func (a *Assembler) Anomalies() []Anomaly {
	return a.anomalies
}

// Finish appends the total row and returns the table.
func (a *Assembler) Finish() *Table {
	baselineColumns := a.schema.FieldCount
	total := Row{
		Kind:      TotalRow,
		ID:        TotalLabel,
		BestKnown: a.totals.BestKnown,
		Fields:    make([]string, baselineColumns),
		Cells:     make([]Cell, len(a.schema.Runs)),
	}
	total.Fields[a.schema.IDField] = TotalLabel
	total.Fields[a.schema.BestKnown] = strconv.FormatInt(a.totals.BestKnown, 10)
	for i := range a.schema.Runs {
		total.Cells[i] = Cell{
			Value:     a.totals.Values[i],
			Available: true,
			Gap:       a.totals.Gaps[i],
		}
	}
	a.finished = true

	rows := make([]Row, 0, len(a.rows)+1)
	rows = append(rows, a.rows...)
	rows = append(rows, total)
	return &Table{
		Benchmark: a.benchmark,
		Schema:    a.schema,
		Rows:      rows,
		Anomalies: a.anomalies,
	}
}
