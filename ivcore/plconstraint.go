package ivcore

import (
	"fmt"
	"sort"
	"strings"
)

// CaseSplit is one alternative of a piecewise-linear constraint's
// disjunction: a set of bound tightenings. The data model permits
// equation entries too, but DecisionStack.PerformSplit asserts a case
// contains only bounds before ever applying one.
type CaseSplit struct {
	Bounds    []BoundTightening
	Equations int // always asserted == 0 by DecisionStack; kept to mirror the data model's broader allowance
}

// Signature returns a normalized, order-independent string identifying
// this split — used by CertificateTree to address children by
// case-equality.
func (c CaseSplit) Signature() string {
	parts := make([]string, len(c.Bounds))
	for i, b := range c.Bounds {
		parts[i] = fmt.Sprintf("%d:%s:%g", b.Variable, b.Kind, b.Value)
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// Equal reports whether two case splits tighten exactly the same set of
// bounds.
func (c CaseSplit) Equal(other CaseSplit) bool {
	return c.Signature() == other.Signature()
}

// PiecewiseLinearConstraint is the polymorphic capability set this
// core requires of a piecewise-linear constraint:
// isActive/setActive/getCaseSplits/participatesIn. Concrete
// constraints (ReLU, max-pooling, sign, ...) are external to this
// core; it only needs this interface.
type PiecewiseLinearConstraint interface {
	// ID uniquely identifies this constraint for violation-counter and
	// certificate bookkeeping.
	ID() string
	// IsActive reports whether the constraint still participates in
	// violation reporting; a constraint that has been split on is
	// inactive and must be excluded.
	IsActive() bool
	// SetActive flips the active flag. DecisionStack.PerformSplit reads
	// GetCaseSplits() first and then calls SetActive(false) before
	// taking the snapshot, so the constraint is already inactive in the
	// captured state.
	SetActive(active bool)
	// GetCaseSplits returns the ordered list of ≥2 alternative case
	// splits this constraint decomposes into.
	GetCaseSplits() []CaseSplit
	// ParticipatesIn reports whether variable v appears in this
	// constraint's definition.
	ParticipatesIn(v Variable) bool
}
