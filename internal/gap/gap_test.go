package gap

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		achieved Achieved
		baseline int64
		want     float64
	}{
		{name: "equal to best known", achieved: Value(10), baseline: 10, want: 0},
		{name: "worse than best known", achieved: Value(25), baseline: 20, want: 25},
		{name: "better than best known", achieved: Value(15), baseline: 20, want: -25},
		{name: "fractional value", achieved: Value(10.5), baseline: 10, want: 5},
		{name: "unavailable uses penalty", achieved: Unavailable, baseline: 20, want: Penalty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.achieved, tt.baseline)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestComputeZeroBaseline(t *testing.T) {
	for _, achieved := range []Achieved{Value(0), Value(7), Unavailable} {
		got, err := Compute(achieved, 0)
		require.Error(t, err)

		var divErr *DivisionByZeroGapError
		require.True(t, errors.As(err, &divErr), "expected DivisionByZeroGapError, got %T", err)
		assert.Equal(t, achieved, divErr.Achieved)
		assert.False(t, math.IsNaN(got) || math.IsInf(got, 0))
	}
}

func TestAchievedDisplayed(t *testing.T) {
	assert.Equal(t, float64(42), Value(42).Displayed())
	assert.Equal(t, float64(Penalty), Unavailable.Displayed())

	v, ok := Unavailable.Get()
	assert.False(t, ok)
	assert.Zero(t, v)

	assert.Equal(t, "42", Value(42).String())
	assert.Equal(t, "42.5", Value(42.5).String())
	assert.Equal(t, "unavailable", Unavailable.String())
}

func TestZeroValueIsUnavailable(t *testing.T) {
	var a Achieved
	assert.False(t, a.Available())
	assert.Equal(t, Unavailable, a)
}

func TestEvaluate(t *testing.T) {
	r, err := Evaluate(Value(25), 20)
	require.NoError(t, err)
	assert.Equal(t, Worse, r.Class)
	assert.InDelta(t, 25.0, r.Gap, 1e-9)
	assert.False(t, r.Anomalous())

	r, err = Evaluate(Value(18), 20)
	require.NoError(t, err)
	assert.Equal(t, Better, r.Class)
	assert.True(t, r.Anomalous())

	r, err = Evaluate(Unavailable, 20)
	require.NoError(t, err)
	assert.Equal(t, Worse, r.Class)
	assert.Equal(t, float64(Penalty), r.Gap)

	_, err = Evaluate(Value(1), 0)
	assert.Error(t, err)
}

func TestPenaltyExceedsRealValues(t *testing.T) {
	// The sentinel must never be mistaken for a solver result.
	assert.Greater(t, Penalty, 1000000)
}
