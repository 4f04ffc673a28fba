package ivcore

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/ivcore/internal/trail"
)

func newTestBoundManager(n int) *BoundManager {
	stack := trail.New()
	cfg := DefaultConfig()
	return NewBoundManager(stack, n, 0, cfg, NewStats(), zerolog.Nop())
}

func TestNewBoundManagerStartsUnbounded(t *testing.T) {
	bm := newTestBoundManager(3)
	for v := Variable(0); v < 3; v++ {
		require.True(t, isNegInf(bm.GetLowerBound(v)))
		require.True(t, isPosInf(bm.GetUpperBound(v)))
	}
	require.True(t, bm.ConsistentBounds())
}

func TestSetLowerBoundAcceptsStrictImprovement(t *testing.T) {
	bm := newTestBoundManager(1)
	require.True(t, bm.SetLowerBound(0, 0))
	require.True(t, bm.SetLowerBound(0, 0.5))
	require.False(t, bm.SetLowerBound(0, 0.5)) // equal, rejected
	require.False(t, bm.SetLowerBound(0, 0.4)) // worse, rejected
	require.Equal(t, 0.5, bm.GetLowerBound(0))
}

func TestSetUpperBoundAcceptsStrictImprovement(t *testing.T) {
	bm := newTestBoundManager(1)
	require.True(t, bm.SetUpperBound(0, 1))
	require.True(t, bm.SetUpperBound(0, 0.5))
	require.False(t, bm.SetUpperBound(0, 0.5))
	require.False(t, bm.SetUpperBound(0, 0.6))
}

func TestCrossingBoundMarksInfeasible(t *testing.T) {
	bm := newTestBoundManager(1)
	require.True(t, bm.SetLowerBound(0, 1))
	require.True(t, bm.SetUpperBound(0, 0))
	require.False(t, bm.ConsistentBounds())
	require.Equal(t, Variable(0), bm.InconsistentVariable())
}

func TestCrossingBoundRecordsOnlyFirstVariable(t *testing.T) {
	bm := newTestBoundManager(2)
	require.True(t, bm.SetLowerBound(0, 1))
	require.True(t, bm.SetUpperBound(0, 0))
	require.True(t, bm.SetLowerBound(1, 5))
	require.True(t, bm.SetUpperBound(1, 0))
	require.Equal(t, Variable(0), bm.InconsistentVariable())
}

func TestDrainTighteningsMovesAndClearsLog(t *testing.T) {
	bm := newTestBoundManager(2)
	bm.SetLowerBound(0, 1)
	bm.SetUpperBound(1, 2)

	var out []TighteningRecord
	n := bm.DrainTightenings(&out)
	require.Equal(t, 2, n)
	require.Len(t, out, 2)

	var second []TighteningRecord
	require.Equal(t, 0, bm.DrainTightenings(&second))
}

// TestContextRoundTrip covers three nested push/store layers with N=5,
// each opening a level and then narrowing a different variable;
// restoring to l1 must drop only L2's change, and restoring below l0
// must reproduce (-Inf, +Inf) for all five.
func TestContextRoundTrip(t *testing.T) {
	bm := newTestBoundManager(5)

	l0 := bm.StoreLocalBounds()
	bm.SetLowerBound(0, 10) // L0

	l1 := bm.StoreLocalBounds()
	bm.SetLowerBound(1, 20) // L1

	bm.StoreLocalBounds()
	bm.SetLowerBound(2, 30) // L2

	bm.RestoreLocalBounds(l1)
	require.Equal(t, 10.0, bm.GetLowerBound(0))
	require.Equal(t, 20.0, bm.GetLowerBound(1))
	require.True(t, isNegInf(bm.GetLowerBound(2)))

	bm.RestoreLocalBounds(l0 - 1)
	for v := Variable(0); v < 5; v++ {
		require.True(t, isNegInf(bm.GetLowerBound(v)))
		require.True(t, isPosInf(bm.GetUpperBound(v)))
	}
}

func TestRestoreLocalBoundsIsBitIdentical(t *testing.T) {
	bm := newTestBoundManager(1)
	bm.SetLowerBound(0, 1.0/3.0)
	before := bm.GetLowerBound(0)
	level := bm.StoreLocalBounds()

	bm.SetLowerBound(0, 0.9)
	require.NotEqual(t, before, bm.GetLowerBound(0))

	bm.RestoreLocalBounds(level - 1)
	require.Equal(t, before, bm.GetLowerBound(0))
}

func TestExplanationVectorsDefaultTrivial(t *testing.T) {
	bm := newTestBoundManager(1)
	require.True(t, bm.IsExplanationTrivial(0, LowerBound))
	bm.SetExplanation([]float64{1, 0, 1}, 0, LowerBound)
	require.False(t, bm.IsExplanationTrivial(0, LowerBound))
	require.Equal(t, []float64{1, 0, 1}, bm.GetExplanation(0, LowerBound))
	bm.ResetExplanation(0, LowerBound)
	require.True(t, bm.IsExplanationTrivial(0, LowerBound))
}

func TestRegisterNewVariableGrowsBoundsUnbounded(t *testing.T) {
	bm := newTestBoundManager(0)
	v := bm.RegisterNewVariable()
	require.Equal(t, Variable(0), v)
	require.Equal(t, 1, bm.NumVariables())
	require.True(t, isNegInf(bm.GetLowerBound(v)))
}
