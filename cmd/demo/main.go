// Package main demonstrates wiring BoundManager and RowTightener
// together on a small interval-propagation problem.
package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gitrdm/ivcore/internal/trail"
	"github.com/gitrdm/ivcore/ivcore"
)

func main() {
	fmt.Println("=== ivcore demo: row-based bound tightening ===")
	fmt.Println()

	intervalPropagation()
	reluCaseSplit()
}

// intervalPropagation tightens x0+x1+x2 = 3 against x_i in [0,1], which
// forces every variable to its upper bound.
func intervalPropagation() {
	fmt.Println("1. Interval propagation over x0+x1+x2 = 3, x_i in [0,1]:")

	stack := trail.New()
	cfg := ivcore.DefaultConfig()
	stats := ivcore.NewStats()
	bm := ivcore.NewBoundManager(stack, 3, 0, cfg, stats, zerolog.Nop())
	for v := ivcore.Variable(0); v < 3; v++ {
		bm.SetLowerBound(v, 0)
		bm.SetUpperBound(v, 1)
	}

	rt := ivcore.NewRowTightener(bm, cfg, stats, zerolog.Nop())
	row := ivcore.SparseRow{
		Entries: []ivcore.RowEntry{{Index: 0, Coefficient: 1}, {Index: 1, Coefficient: 1}, {Index: 2, Coefficient: 1}},
		RHS:     3,
	}

	n, err := rt.TightenConstraintMatrixRow(row)
	if err != nil {
		panic(err)
	}
	fmt.Printf("   learned %d new bounds\n", n)
	for v := ivcore.Variable(0); v < 3; v++ {
		fmt.Printf("   x%d in [%.1f, %.1f]\n", v, bm.GetLowerBound(v), bm.GetUpperBound(v))
	}
	fmt.Println()
}

// reluCaseSplit drives DecisionStack through a single ReLU-style split
// whose active-phase case is immediately infeasible, forcing popSplit
// to backtrack into the inactive phase.
func reluCaseSplit() {
	fmt.Println("2. Branching over a ReLU's active/inactive phases:")

	stack := trail.New()
	cfg := ivcore.DefaultConfig()
	stats := ivcore.NewStats()
	bm := ivcore.NewBoundManager(stack, 1, 0, cfg, stats, zerolog.Nop())
	bm.SetUpperBound(0, -1) // forces the "active" phase (x >= 0) infeasible

	engine := newDemoEngine(bm)
	ds := ivcore.NewDecisionStack(bm, engine, cfg, stats, nil, nil, nil, zerolog.Nop())

	active := ivcore.CaseSplit{Bounds: []ivcore.BoundTightening{{Variable: 0, Value: 0, Kind: ivcore.LowerBound}}}
	inactive := ivcore.CaseSplit{Bounds: []ivcore.BoundTightening{{Variable: 0, Value: 0, Kind: ivcore.UpperBound}}}
	relu := newDemoConstraint("relu-0", active, inactive)

	for i := 0; i < cfg.ConstraintViolationThreshold; i++ {
		ds.ReportViolatedConstraint(relu)
	}
	if err := ds.PerformSplit(); err != nil {
		panic(err)
	}
	fmt.Printf("   after split: x in [%.1f, %.1f], consistent=%v\n", bm.GetLowerBound(0), bm.GetUpperBound(0), bm.ConsistentBounds())

	ok, err := ds.PopSplit()
	if err != nil {
		panic(err)
	}
	fmt.Printf("   popSplit ok=%v, x in [%.1f, %.1f]\n", ok, bm.GetLowerBound(0), bm.GetUpperBound(0))
}

// demoEngine is a minimal Engine that applies case-split bounds
// straight through BoundManager, standing in for the simplex/tableau
// engine this package does not own.
type demoEngine struct {
	bm         *ivcore.BoundManager
	consistent bool
}

func newDemoEngine(bm *ivcore.BoundManager) *demoEngine { return &demoEngine{bm: bm, consistent: true} }

func (e *demoEngine) ApplySplit(split ivcore.CaseSplit) error {
	for _, b := range split.Bounds {
		if b.Kind == ivcore.LowerBound {
			e.bm.SetLowerBound(b.Variable, b.Value)
		} else {
			e.bm.SetUpperBound(b.Variable, b.Value)
		}
	}
	e.consistent = e.bm.ConsistentBounds()
	return nil
}
func (e *demoEngine) StoreState(level int) ivcore.Snapshot               { return level }
func (e *demoEngine) RestoreState(ivcore.Snapshot) error                 { e.consistent = true; return nil }
func (e *demoEngine) ConsistentBounds() bool                             { return e.consistent }
func (e *demoEngine) PreContextPushHook()                                {}
func (e *demoEngine) PostContextPopHook()                                {}
func (e *demoEngine) PickSplitPLConstraint(ivcore.BranchingHeuristic) ivcore.PiecewiseLinearConstraint {
	return nil
}
func (e *demoEngine) ApplyAllBoundTightenings() error         { return nil }
func (e *demoEngine) ApplyAllValidConstraintCaseSplits() error { return nil }
func (e *demoEngine) ShouldProduceProofs() bool                { return false }
func (e *demoEngine) ExplainSimplexFailure() []float64         { return nil }

// demoConstraint is a minimal PiecewiseLinearConstraint modeling a
// ReLU as two bound-only case splits.
type demoConstraint struct {
	id     string
	active bool
	cases  []ivcore.CaseSplit
}

func newDemoConstraint(id string, cases ...ivcore.CaseSplit) *demoConstraint {
	return &demoConstraint{id: id, active: true, cases: cases}
}

func (c *demoConstraint) ID() string                       { return c.id }
func (c *demoConstraint) IsActive() bool                    { return c.active }
func (c *demoConstraint) SetActive(active bool)             { c.active = active }
func (c *demoConstraint) GetCaseSplits() []ivcore.CaseSplit { return c.cases }
func (c *demoConstraint) ParticipatesIn(v ivcore.Variable) bool { return v == 0 }
