package ivcore

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// gt reports whether a is strictly greater than b outside the given
// tolerance: the acceptance test for a proposed lower-bound
// tightening — a new lower bound is accepted only if strictly greater
// than the current one, with equality within eps rejected. Built on
// gonum/floats.EqualWithinAbs rather than a hand-rolled epsilon
// compare.
func gt(a, b, eps float64) bool {
	if floats.EqualWithinAbs(a, b, eps) {
		return false
	}
	return a > b
}

// lt is the symmetric counterpart of gt, used for upper-bound
// tightenings.
func lt(a, b, eps float64) bool {
	if floats.EqualWithinAbs(a, b, eps) {
		return false
	}
	return a < b
}

// isPosInf / isNegInf test for the unbounded sentinels an interval's
// lower or upper bound may take on: any real number, or +/-infinity.
func isPosInf(x float64) bool { return math.IsInf(x, 1) }
func isNegInf(x float64) bool { return math.IsInf(x, -1) }
