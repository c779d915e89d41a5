// Package table assembles baseline records and run results into the ordered
// comparison table handed to renderers.
package table

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// Column naming shared with existing consumers of the report: the value
// column of a run is "<run> / Solution value" and its gap column is the same
// name with "Solution value" replaced by "Gap".
const (
	ValueMarker = "Solution value"
	GapMarker   = "Gap"
	TotalLabel  = "Total"
)

// ValueColumnName returns the value column name of a run directory.
func ValueColumnName(run string) string {
	return run + " / " + ValueMarker
}

// GapColumnName derives the gap column name from a value column name.
func GapColumnName(valueColumn string) string {
	return strings.ReplaceAll(valueColumn, ValueMarker, GapMarker)
}

// IsValueColumn reports whether a column name follows the value column convention.
func IsValueColumn(name string) bool {
	return strings.Contains(name, ValueMarker)
}

// ColumnKind tells consumers how to read a column without parsing its name.
type ColumnKind int

const (
	// FieldColumn is a baseline column passed through untouched.
	FieldColumn ColumnKind = iota
	// BestKnownColumn holds the best-known solution value.
	BestKnownColumn
	// ValueColumn holds a run's achieved value.
	ValueColumn
	// GapColumn holds a run's gap in percent.
	GapColumn
)

func (k ColumnKind) String() string {
	switch k {
	case FieldColumn:
		return "field"
	case BestKnownColumn:
		return "best_known"
	case ValueColumn:
		return "value"
	case GapColumn:
		return "gap"
	default:
		return "unknown"
	}
}

// Column is one output column. Field indexes the baseline columns for
// field and best-known columns; Run indexes Schema.Runs for value and gap columns.
type Column struct {
	Name  string
	Kind  ColumnKind
	Field int
	Run   int
}

// RunColumns is the fixed value/gap column pair of one run.
type RunColumns struct {
	Name     string // run name
	Value    string // value column name
	Gap      string // gap column name
	Embedded bool   // values come from the baseline column Value
}

// Schema is the column layout of one report.
type Schema struct {
	Columns    []Column
	Runs       []RunColumns
	IDField    int
	BestKnown  int
	FieldCount int // number of baseline columns

	index *orderedmap.OrderedMap[string, int] // column name -> position in Columns
}

// NewSchema lays out the columns of a report. Baseline columns keep their file
// order; every baseline column following the value column convention is an
// embedded run and is immediately followed by its gap column. Then one
// value/gap pair is appended per run directory, in the given order.
func NewSchema(baselineColumns []string, idColumn, bestKnownColumn string, runDirs []string) (*Schema, error) {
	s := &Schema{
		IDField:    -1,
		BestKnown:  -1,
		FieldCount: len(baselineColumns),
		index:      orderedmap.NewOrderedMap[string, int](),
	}
	add := func(c Column) error {
		if _, dup := s.index.Get(c.Name); dup {
			return fmt.Errorf("duplicate report column %q", c.Name)
		}
		s.index.Set(c.Name, len(s.Columns))
		s.Columns = append(s.Columns, c)
		return nil
	}
	addRun := func(rc RunColumns, field int) error {
		idx := len(s.Runs)
		s.Runs = append(s.Runs, rc)
		if err := add(Column{Name: rc.Value, Kind: ValueColumn, Field: field, Run: idx}); err != nil {
			return err
		}
		return add(Column{Name: rc.Gap, Kind: GapColumn, Field: -1, Run: idx})
	}

	for i, name := range baselineColumns {
		switch {
		case name == idColumn:
			s.IDField = i
			if err := add(Column{Name: name, Kind: FieldColumn, Field: i, Run: -1}); err != nil {
				return nil, err
			}
		case name == bestKnownColumn:
			s.BestKnown = i
			if err := add(Column{Name: name, Kind: BestKnownColumn, Field: i, Run: -1}); err != nil {
				return nil, err
			}
		case IsValueColumn(name):
			// Embedded runs keep their value in the baseline field i.
			rc := RunColumns{Name: name, Value: name, Gap: GapColumnName(name), Embedded: true}
			if err := addRun(rc, i); err != nil {
				return nil, err
			}
		default:
			if err := add(Column{Name: name, Kind: FieldColumn, Field: i, Run: -1}); err != nil {
				return nil, err
			}
		}
	}
	if s.IDField < 0 {
		return nil, fmt.Errorf("identifier column %q not in baseline", idColumn)
	}
	if s.BestKnown < 0 {
		return nil, fmt.Errorf("best known column %q not in baseline", bestKnownColumn)
	}

	for _, run := range runDirs {
		value := ValueColumnName(run)
		if err := addRun(RunColumns{Name: run, Value: value, Gap: GapColumnName(value)}, -1); err != nil {
			return nil, fmt.Errorf("run %q: %w", run, err)
		}
	}

	return s, nil
}

// Names returns the column names in order.
func (s *Schema) Names() []string {
	return s.index.Keys()
}
