package ivcore

// Snapshot is an opaque, engine-owned capture of whatever state the
// core cannot see directly — at minimum the bound vector, and in replay
// mode the full simplex tableau. DecisionStack never inspects a
// Snapshot's contents; it only threads the value returned by
// Engine.StoreState back into Engine.RestoreState.
type Snapshot any

// Engine is the façade contract this core consumes. It is a
// collaborator interface only — no implementation lives in this
// module; the simplex pivoting engine, problem-file parsers, and
// result formatting remain external to it.
type Engine interface {
	// ApplySplit applies every bound tightening in split to the shared
	// BoundManager.
	ApplySplit(split CaseSplit) error
	// StoreState captures a Snapshot sufficient to restore engine state
	// later. level is the ContextStack level the snapshot is associated
	// with, for engines that index their own side tables by level.
	StoreState(level int) Snapshot
	// RestoreState reverts engine-owned state (tableau, basis, etc.) to
	// a previously captured Snapshot.
	RestoreState(snap Snapshot) error
	// ConsistentBounds reports whether the engine's own consistency
	// check (e.g. a simplex feasibility probe) still holds after
	// applying a split.
	ConsistentBounds() bool
	// PreContextPushHook / PostContextPopHook let the engine perform
	// bookkeeping symmetric with ContextStack.Push/Pop.
	PreContextPushHook()
	PostContextPopHook()
	// PickSplitPLConstraint asks the engine to choose a violated
	// piecewise-linear constraint to branch on, using the supplied
	// heuristic as a tiebreak/selection policy.
	PickSplitPLConstraint(heuristic BranchingHeuristic) PiecewiseLinearConstraint
	// ApplyAllBoundTightenings asks the engine to run one saturation
	// round, invoked when the rejection threshold fires.
	ApplyAllBoundTightenings() error
	// ApplyAllValidConstraintCaseSplits asks the engine to apply every
	// case split already proved valid without branching.
	ApplyAllValidConstraintCaseSplits() error
	// ShouldProduceProofs reports whether the engine produces proofs for
	// this run. DecisionStack does not call it; its CertificateTree
	// bookkeeping follows Config.ProofProduction.
	ShouldProduceProofs() bool
	// ExplainSimplexFailure returns a row-combination explanation for
	// the engine's own infeasibility detection, consumed by DecisionStack
	// only when Config.ProofProduction is set.
	ExplainSimplexFailure() []float64
}
