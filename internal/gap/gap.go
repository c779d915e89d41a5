// Package gap computes optimality gaps against best-known solution values,
// classifies achieved values and accumulates report totals.
package gap

import (
	"fmt"
	"math"
)

// Penalty is the sentinel shown and summed in place of an unavailable result,
// both as the achieved value and as its gap. It is not a real cost: every
// best-known value accepted by the baseline loader is strictly smaller.
const Penalty = 9999999

// Achieved is the value a run reached on one instance, or Unavailable when
// its artifact was missing or unusable.
type Achieved struct {
	value     float64
	available bool
}

// Unavailable is the achieved value of a run without a usable result.
var Unavailable = Achieved{}

// Value returns an available achieved value.
func Value(v float64) Achieved {
	return Achieved{value: v, available: true}
}

// Available reports whether a concrete value was produced.
func (a Achieved) Available() bool {
	return a.available
}

// Get returns the concrete value and whether it is available.
func (a Achieved) Get() (float64, bool) {
	return a.value, a.available
}

// Displayed returns the number shown and summed for the cell: the concrete
// value, or Penalty when unavailable.
func (a Achieved) Displayed() float64 {
	if !a.available {
		return Penalty
	}
	return a.value
}

func (a Achieved) String() string {
	if !a.available {
		return "unavailable"
	}
	return formatNumber(a.value)
}

// DivisionByZeroGapError is returned when the best-known value is zero.
// A zero baseline is a defect in the baseline data, not a solver outcome.
type DivisionByZeroGapError struct {
	Achieved Achieved
}

func (e *DivisionByZeroGapError) Error() string {
	return fmt.Sprintf("cannot compute gap of %s against a best-known value of 0", e.Achieved)
}

// Compute returns the signed gap in percent, (achieved - baseline) / baseline * 100.
// A zero baseline fails even for unavailable results so the defect is always
// surfaced. Unavailable results get Penalty as their gap.
func Compute(achieved Achieved, baseline int64) (float64, error) {
	if baseline == 0 {
		return 0, &DivisionByZeroGapError{Achieved: achieved}
	}
	v, ok := achieved.Get()
	if !ok {
		return Penalty, nil
	}
	b := float64(baseline)
	return (v - b) / b * 100, nil
}

// Result is one computed (instance, run) cell.
type Result struct {
	Achieved Achieved
	Gap      float64
	Class    Classification
}

// Evaluate computes the gap and classification of one cell.
func Evaluate(achieved Achieved, baseline int64) (Result, error) {
	g, err := Compute(achieved, baseline)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Achieved: achieved,
		Gap:      g,
		Class:    Classify(achieved, baseline),
	}, nil
}

// Anomalous reports whether the result beats the best-known value, which
// should be a lower bound for a minimization problem.
func (r Result) Anomalous() bool {
	return r.Class == Better
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%g", v)
}
