package gap

import "fmt"

// Totals accumulates the column-wise sums of the single total row.
//
// The total gap of a run is the sum of the per-row gaps, not a gap recomputed
// from the summed values. Unavailable cells contribute Penalty to both sums.
type Totals struct {
	BestKnown int64
	Values    []float64
	Gaps      []float64
}

// NewTotals creates an accumulator for the given number of runs, seeded at zero.
func NewTotals(runs int) *Totals {
	return &Totals{
		Values: make([]float64, runs),
		Gaps:   make([]float64, runs),
	}
}

// Add folds one completed row into the totals. results must hold one entry per run.
func (t *Totals) Add(bestKnown int64, results []Result) error {
	if len(results) != len(t.Values) {
		return fmt.Errorf("row has %d results, expected %d", len(results), len(t.Values))
	}
	t.BestKnown += bestKnown
	for i, r := range results {
		t.Values[i] += r.Achieved.Displayed()
		t.Gaps[i] += r.Gap
	}
	return nil
}
