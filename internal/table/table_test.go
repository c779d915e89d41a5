package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/gapreport/internal/baseline"
	"github.com/dbsmedya/gapreport/internal/gap"
)

func loadBaseline(t *testing.T, data string) *baseline.Baseline {
	t.Helper()
	b, err := baseline.Parse(strings.NewReader(data), baseline.Options{IDColumn: idCol, BestKnownColumn: bksCol})
	require.NoError(t, err)
	return b
}

func results(t *testing.T, bestKnown int64, values ...gap.Achieved) []gap.Result {
	t.Helper()
	out := make([]gap.Result, len(values))
	for i, v := range values {
		r, err := gap.Evaluate(v, bestKnown)
		require.NoError(t, err)
		out[i] = r
	}
	return out
}

func TestAssemblerEndToEnd(t *testing.T) {
	b := loadBaseline(t, "Path,Best known solution value\na,10\nb,20\n")
	s, err := NewSchema(b.Columns, idCol, bksCol, []string{"R1", "R2"})
	require.NoError(t, err)

	asm := NewAssembler("demo", s)
	require.NoError(t, asm.Add(b.Records[0], results(t, 10, gap.Value(10), gap.Value(10))))
	require.NoError(t, asm.Add(b.Records[1], results(t, 20, gap.Value(25), gap.Unavailable)))
	tbl := asm.Finish()

	assert.Equal(t, "demo", tbl.Benchmark)
	require.Len(t, tbl.Rows, 3)
	assert.Len(t, tbl.Instances(), 2)

	a := tbl.Rows[0]
	assert.Equal(t, InstanceRow, a.Kind)
	assert.Equal(t, "a", a.ID)
	assert.Equal(t, 10.0, a.Cells[0].Value)
	assert.Equal(t, 0.0, a.Cells[0].Gap)
	assert.Equal(t, gap.Equal, a.Cells[0].Class)
	assert.True(t, a.Cells[0].Classified)

	bRow := tbl.Rows[1]
	assert.Equal(t, 25.0, bRow.Cells[0].Value)
	assert.InDelta(t, 25.0, bRow.Cells[0].Gap, 1e-9)
	assert.Equal(t, gap.Worse, bRow.Cells[0].Class)
	assert.Equal(t, float64(gap.Penalty), bRow.Cells[1].Value)
	assert.Equal(t, float64(gap.Penalty), bRow.Cells[1].Gap)
	assert.False(t, bRow.Cells[1].Available)
	assert.Equal(t, gap.Worse, bRow.Cells[1].Class)

	total := tbl.Total()
	assert.Equal(t, TotalRow, total.Kind)
	assert.Equal(t, TotalLabel, total.ID)
	assert.Equal(t, int64(30), total.BestKnown)
	assert.Equal(t, []string{"Total", "30"}, total.Fields)
	assert.Equal(t, 35.0, total.Cells[0].Value)
	assert.InDelta(t, 25.0, total.Cells[0].Gap, 1e-9)
	assert.Equal(t, 10.0+gap.Penalty, total.Cells[1].Value)
	for _, c := range total.Cells {
		assert.False(t, c.Classified, "total cells must not be classified")
	}

	assert.Empty(t, tbl.Anomalies)
}

func TestAssemblerEmptyBaseline(t *testing.T) {
	b := loadBaseline(t, "Path,Best known solution value\n")
	s, err := NewSchema(b.Columns, idCol, bksCol, []string{"R1"})
	require.NoError(t, err)

	tbl := NewAssembler("empty", s).Finish()

	require.Len(t, tbl.Rows, 1)
	total := tbl.Total()
	assert.Equal(t, int64(0), total.BestKnown)
	assert.Equal(t, 0.0, total.Cells[0].Value)
	assert.Equal(t, 0.0, total.Cells[0].Gap)
	assert.Empty(t, tbl.Instances())
}

func TestAssemblerSingleRowTotalsEqualRow(t *testing.T) {
	b := loadBaseline(t, "Path,Best known solution value\nonly,40\n")
	s, err := NewSchema(b.Columns, idCol, bksCol, []string{"R1"})
	require.NoError(t, err)

	asm := NewAssembler("one", s)
	require.NoError(t, asm.Add(b.Records[0], results(t, 40, gap.Value(50))))
	tbl := asm.Finish()

	row, total := tbl.Rows[0], tbl.Total()
	assert.Equal(t, row.BestKnown, total.BestKnown)
	assert.Equal(t, row.Cells[0].Value, total.Cells[0].Value)
	assert.Equal(t, row.Cells[0].Gap, total.Cells[0].Gap)
}

func TestAssemblerRecordsAnomalies(t *testing.T) {
	b := loadBaseline(t, "Path,Best known solution value\na,10\n")
	s, err := NewSchema(b.Columns, idCol, bksCol, []string{"R1", "R2"})
	require.NoError(t, err)

	asm := NewAssembler("x", s)
	require.NoError(t, asm.Add(b.Records[0], results(t, 10, gap.Value(8), gap.Value(10))))
	tbl := asm.Finish()

	require.Len(t, tbl.Anomalies, 1)
	an := tbl.Anomalies[0]
	assert.Equal(t, "a", an.Instance)
	assert.Equal(t, "R1", an.Run)
	assert.Equal(t, 8.0, an.Value)
	assert.InDelta(t, -20.0, an.Gap, 1e-9)
	assert.Contains(t, an.String(), "R1 on a: 8 below best known 10")
}

func TestAssemblerRejectsWrongWidth(t *testing.T) {
	b := loadBaseline(t, "Path,Best known solution value\na,10\n")
	s, err := NewSchema(b.Columns, idCol, bksCol, []string{"R1", "R2"})
	require.NoError(t, err)

	asm := NewAssembler("x", s)
	err = asm.Add(b.Records[0], results(t, 10, gap.Value(10)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `instance "a"`)
}

func TestAssemblerAddAfterFinish(t *testing.T) {
	b := loadBaseline(t, "Path,Best known solution value\na,10\n")
	s, err := NewSchema(b.Columns, idCol, bksCol, nil)
	require.NoError(t, err)

	asm := NewAssembler("x", s)
	asm.Finish()
	assert.Error(t, asm.Add(b.Records[0], nil))
}

func TestEntries(t *testing.T) {
	b := loadBaseline(t, "Path,Best known solution value,Note\na,10,hello\n")
	s, err := NewSchema(b.Columns, idCol, bksCol, []string{"R1"})
	require.NoError(t, err)

	asm := NewAssembler("x", s)
	require.NoError(t, asm.Add(b.Records[0], results(t, 10, gap.Value(12))))
	tbl := asm.Finish()

	entries := tbl.Entries(tbl.Rows[0])
	require.Len(t, entries, 5)

	assert.Equal(t, "a", entries[0].Text)
	assert.False(t, entries[0].Numeric())
	assert.Equal(t, 10.0, entries[1].Number)
	assert.True(t, entries[1].Numeric())
	assert.Equal(t, "hello", entries[2].Text)
	assert.Equal(t, 12.0, entries[3].Number)
	require.NotNil(t, entries[3].Cell)
	assert.Equal(t, gap.Worse, entries[3].Cell.Class)
	assert.InDelta(t, 20.0, entries[4].Number, 1e-9)

	totalEntries := tbl.Entries(tbl.Total())
	assert.Equal(t, "Total", totalEntries[0].Text)
	assert.Equal(t, "", totalEntries[2].Text)
	assert.Equal(t, []string{idCol, bksCol, "Note", "R1 / Solution value", "R1 / Gap"}, tbl.Columns())
}
