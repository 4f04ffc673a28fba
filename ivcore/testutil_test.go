package ivcore

// fakePLConstraint is a minimal PiecewiseLinearConstraint used across
// this package's tests — e.g. a ReLU's two phases, modeled as bound
// case splits only (no equations).
type fakePLConstraint struct {
	id     string
	active bool
	cases  []CaseSplit
	vars   map[Variable]bool
}

func newFakePLConstraint(id string, cases ...CaseSplit) *fakePLConstraint {
	return &fakePLConstraint{id: id, active: true, cases: cases, vars: map[Variable]bool{}}
}

func (c *fakePLConstraint) ID() string                { return c.id }
func (c *fakePLConstraint) IsActive() bool             { return c.active }
func (c *fakePLConstraint) SetActive(active bool)      { c.active = active }
func (c *fakePLConstraint) GetCaseSplits() []CaseSplit { return c.cases }
func (c *fakePLConstraint) ParticipatesIn(v Variable) bool {
	return c.vars[v]
}

// fakeEngine is a minimal Engine façade that applies splits directly to
// a BoundManager and snapshots only the bound manager's context level —
// the minimum a decision frame's snapshot must carry.
type fakeEngine struct {
	bm          *BoundManager
	consistent  bool
	proofs      bool
	explanation []float64

	boundTighteningCalls int
	validCaseSplitCalls  int
}

func newFakeEngine(bm *BoundManager) *fakeEngine {
	return &fakeEngine{bm: bm, consistent: true}
}

func (e *fakeEngine) ApplySplit(split CaseSplit) error {
	for _, b := range split.Bounds {
		e.bm.setBoundFromSource(b.Variable, b.Value, b.Kind, FromCaseSplit)
	}
	e.consistent = e.bm.ConsistentBounds()
	return nil
}

func (e *fakeEngine) StoreState(level int) Snapshot        { return level }
func (e *fakeEngine) RestoreState(snap Snapshot) error      { e.consistent = true; return nil }
func (e *fakeEngine) ConsistentBounds() bool                { return e.consistent }
func (e *fakeEngine) PreContextPushHook()                   {}
func (e *fakeEngine) PostContextPopHook()                   {}
func (e *fakeEngine) PickSplitPLConstraint(h BranchingHeuristic) PiecewiseLinearConstraint {
	return nil
}
func (e *fakeEngine) ApplyAllBoundTightenings() error          { e.boundTighteningCalls++; return nil }
func (e *fakeEngine) ApplyAllValidConstraintCaseSplits() error  { e.validCaseSplitCalls++; return nil }
func (e *fakeEngine) ShouldProduceProofs() bool                { return e.proofs }
func (e *fakeEngine) ExplainSimplexFailure() []float64          { return e.explanation }
