package ivcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("bad knob")
	assert.Contains(t, err.Error(), "bad knob")
}

func TestInfeasibleQueryMessage(t *testing.T) {
	err := &InfeasibleQuery{Variable: 3}
	assert.Contains(t, err.Error(), "3")
}

func TestAssertfPanicsOnFalseCondition(t *testing.T) {
	assert.Panics(t, func() {
		assertf(false, "unreachable: %d", 7)
	})
}

func TestAssertfNoPanicOnTrueCondition(t *testing.T) {
	assert.NotPanics(t, func() {
		assertf(true, "never raised")
	})
}
