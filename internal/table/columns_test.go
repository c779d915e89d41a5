package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	idCol  = "Path"
	bksCol = "Best known solution value"
)

func TestColumnNaming(t *testing.T) {
	assert.Equal(t, "greedy / Solution value", ValueColumnName("greedy"))
	assert.Equal(t, "greedy / Gap", GapColumnName("greedy / Solution value"))
	assert.Equal(t, "Paper / Gap", GapColumnName("Paper / Solution value"))
	assert.True(t, IsValueColumn("Paper / Solution value"))
	assert.False(t, IsValueColumn(bksCol))
}

func TestNewSchemaLayout(t *testing.T) {
	baselineColumns := []string{idCol, "Format", bksCol, "Paper / Solution value", "Comment"}

	s, err := NewSchema(baselineColumns, idCol, bksCol, []string{"r1", "r2"})
	require.NoError(t, err)

	want := []string{
		idCol, "Format", bksCol,
		"Paper / Solution value", "Paper / Gap",
		"Comment",
		"r1 / Solution value", "r1 / Gap",
		"r2 / Solution value", "r2 / Gap",
	}
	if diff := cmp.Diff(want, s.Names()); diff != "" {
		t.Errorf("column names mismatch (-want +got):\n%s", diff)
	}

	wantRuns := []RunColumns{
		{Name: "Paper / Solution value", Value: "Paper / Solution value", Gap: "Paper / Gap", Embedded: true},
		{Name: "r1", Value: "r1 / Solution value", Gap: "r1 / Gap"},
		{Name: "r2", Value: "r2 / Solution value", Gap: "r2 / Gap"},
	}
	if diff := cmp.Diff(wantRuns, s.Runs); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 0, s.IDField)
	assert.Equal(t, 2, s.BestKnown)
	assert.Equal(t, 5, s.FieldCount)

	assert.Equal(t, BestKnownColumn, s.Columns[2].Kind)
	assert.Equal(t, ValueColumn, s.Columns[3].Kind)
	assert.Equal(t, GapColumn, s.Columns[4].Kind)
	assert.Equal(t, FieldColumn, s.Columns[5].Kind)
	assert.Equal(t, 1, s.Columns[6].Run)
	assert.Equal(t, 2, s.Columns[9].Run)
}

func TestNewSchemaGapFollowsValue(t *testing.T) {
	s, err := NewSchema([]string{idCol, "A / Solution value", bksCol, "B / Solution value"}, idCol, bksCol, []string{"x", "y", "z"})
	require.NoError(t, err)

	for i, c := range s.Columns {
		if c.Kind == ValueColumn {
			require.Less(t, i+1, len(s.Columns))
			next := s.Columns[i+1]
			assert.Equal(t, GapColumn, next.Kind)
			assert.Equal(t, c.Run, next.Run)
			assert.Equal(t, GapColumnName(c.Name), next.Name)
		}
	}
}

func TestNewSchemaRunOrderOnlyMovesColumns(t *testing.T) {
	a, err := NewSchema([]string{idCol, bksCol}, idCol, bksCol, []string{"r1", "r2"})
	require.NoError(t, err)
	b, err := NewSchema([]string{idCol, bksCol}, idCol, bksCol, []string{"r2", "r1"})
	require.NoError(t, err)

	assert.Equal(t, []string{idCol, bksCol, "r1 / Solution value", "r1 / Gap", "r2 / Solution value", "r2 / Gap"}, a.Names())
	assert.Equal(t, []string{idCol, bksCol, "r2 / Solution value", "r2 / Gap", "r1 / Solution value", "r1 / Gap"}, b.Names())
}

func TestNewSchemaNoRuns(t *testing.T) {
	s, err := NewSchema([]string{idCol, bksCol}, idCol, bksCol, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{idCol, bksCol}, s.Names())
	assert.Empty(t, s.Runs)
}

func TestNewSchemaErrors(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		runs     []string
		contains string
	}{
		{
			name:     "missing id column",
			columns:  []string{bksCol},
			contains: "identifier column",
		},
		{
			name:     "missing best known column",
			columns:  []string{idCol},
			contains: "best known column",
		},
		{
			name:     "run collides with embedded column",
			columns:  []string{idCol, bksCol, "r1 / Solution value"},
			runs:     []string{"r1"},
			contains: `duplicate report column "r1 / Solution value"`,
		},
		{
			name:     "embedded gap collides with baseline column",
			columns:  []string{idCol, bksCol, "Paper / Gap", "Paper / Solution value"},
			contains: `duplicate report column "Paper / Gap"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema(tt.columns, idCol, bksCol, tt.runs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestColumnKindString(t *testing.T) {
	assert.Equal(t, "field", FieldColumn.String())
	assert.Equal(t, "best_known", BestKnownColumn.String())
	assert.Equal(t, "value", ValueColumn.String())
	assert.Equal(t, "gap", GapColumn.String())
	assert.Equal(t, "unknown", ColumnKind(9).String())
}
