package ivcore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGtRejectsWithinTolerance(t *testing.T) {
	assert.False(t, gt(1.0000000001, 1.0, 1e-6))
	assert.True(t, gt(1.1, 1.0, 1e-6))
	assert.False(t, gt(0.9, 1.0, 1e-6))
}

func TestLtRejectsWithinTolerance(t *testing.T) {
	assert.False(t, lt(0.9999999999, 1.0, 1e-6))
	assert.True(t, lt(0.9, 1.0, 1e-6))
	assert.False(t, lt(1.1, 1.0, 1e-6))
}

func TestInfinitySentinels(t *testing.T) {
	assert.True(t, isPosInf(math.Inf(1)))
	assert.False(t, isPosInf(math.Inf(-1)))
	assert.True(t, isNegInf(math.Inf(-1)))
	assert.False(t, isNegInf(0))
}
