package ivcore

// BranchingHeuristic is the pluggable candidate-selection policy
// DecisionStack defers to when more than one violated constraint is
// on the table. Modeled on a pluggable variable-ordering strategy,
// generalized from "pick a variable" to "pick a constraint".
type BranchingHeuristic interface {
	// PickConstraint chooses one constraint from pool to branch on,
	// given each constraint's historical violation count. Returns nil
	// if pool is empty.
	PickConstraint(pool []PiecewiseLinearConstraint, violations map[string]int) PiecewiseLinearConstraint
	// Name returns a descriptive name, for logging.
	Name() string
}

// FirstViolatedHeuristic picks the first constraint in pool, in list
// order — the default policy when least-fix ordering is disabled.
type FirstViolatedHeuristic struct{}

// NewFirstViolatedHeuristic constructs the default first-violated policy.
func NewFirstViolatedHeuristic() *FirstViolatedHeuristic { return &FirstViolatedHeuristic{} }

// PickConstraint implements BranchingHeuristic.
func (FirstViolatedHeuristic) PickConstraint(pool []PiecewiseLinearConstraint, _ map[string]int) PiecewiseLinearConstraint {
	if len(pool) == 0 {
		return nil
	}
	return pool[0]
}

// Name implements BranchingHeuristic.
func (FirstViolatedHeuristic) Name() string { return "first-violated" }

// LeastFixHeuristic picks the constraint with the fewest historical
// violations, breaking ties by list order.
type LeastFixHeuristic struct{}

// NewLeastFixHeuristic constructs the least-fix policy.
func NewLeastFixHeuristic() *LeastFixHeuristic { return &LeastFixHeuristic{} }

// PickConstraint implements BranchingHeuristic.
func (LeastFixHeuristic) PickConstraint(pool []PiecewiseLinearConstraint, violations map[string]int) PiecewiseLinearConstraint {
	if len(pool) == 0 {
		return nil
	}
	best := pool[0]
	bestCount := violations[best.ID()]
	for _, c := range pool[1:] {
		if count := violations[c.ID()]; count < bestCount {
			best, bestCount = c, count
		}
	}
	return best
}

// Name implements BranchingHeuristic.
func (LeastFixHeuristic) Name() string { return "least-fix" }

// ScoreTracker maintains a pseudo-impact score per constraint ID,
// consulted by DecisionStack.ReportRejectedPhasePatternProposal as the
// fallback when no heuristic supplies a candidate.
type ScoreTracker struct {
	scores map[string]float64
	fixed  map[string]bool
}

// NewScoreTracker creates an empty tracker.
func NewScoreTracker() *ScoreTracker {
	return &ScoreTracker{scores: make(map[string]float64), fixed: make(map[string]bool)}
}

// Bump increases c's pseudo-impact score by delta.
func (t *ScoreTracker) Bump(c PiecewiseLinearConstraint, delta float64) {
	t.scores[c.ID()] += delta
}

// MarkFixed excludes c from future TopUnfixed results.
func (t *ScoreTracker) MarkFixed(c PiecewiseLinearConstraint) {
	t.fixed[c.ID()] = true
}

// TopUnfixed returns the highest-scoring constraint in pool that has
// not been marked fixed, or nil if none qualify.
func (t *ScoreTracker) TopUnfixed(pool []PiecewiseLinearConstraint) PiecewiseLinearConstraint {
	var best PiecewiseLinearConstraint
	bestScore := 0.0
	for _, c := range pool {
		if t.fixed[c.ID()] {
			continue
		}
		if score := t.scores[c.ID()]; best == nil || score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}
