package ivcore

import (
	"math"

	"github.com/gitrdm/ivcore/internal/trail"
	"github.com/rs/zerolog"
)

// BoundManager owns the versioned interval bounds for every registered
// variable, the tightening log drained by callers, the infeasibility
// flag, and (optionally) per-bound explanation vectors.
//
// Bounds are stored as trail.Cell values layered on a shared
// *trail.Stack — the same stack DecisionStack pushes/pops when it
// opens and closes a decision frame, so a pop of the enclosing context
// reverts BoundManager's bounds while DecisionStack removes or
// advances the matching frame itself, keeping the decision stack's
// depth in step with the bound manager's context level. This
// generalizes a domain store's embedded
// change-log / snapshot() / undo() into a primitive shared across both
// components.
type BoundManager struct {
	stack *trail.Stack

	lowers []*trail.Cell[float64]
	uppers []*trail.Cell[float64]
	names  []string

	explLower []*trail.Cell[[]float64] // nil slice == trivial explanation
	explUpper []*trail.Cell[[]float64]
	numRows   int // length of explanation vectors

	infeasible   *trail.Cell[bool]
	inconsistent *trail.Cell[Variable]

	log []TighteningRecord

	cfg    *Config
	stats  *Stats
	logger zerolog.Logger
}

// NewBoundManager allocates a BoundManager with n variables, all bounds
// initialized to (-Inf, +Inf), layered on the given shared context
// stack. numRows is the row count used to size explanation vectors
// (pass 0 if proofs are not produced).
func NewBoundManager(stack *trail.Stack, n, numRows int, cfg *Config, stats *Stats, logger zerolog.Logger) *BoundManager {
	bm := &BoundManager{
		stack:        stack,
		numRows:      numRows,
		infeasible:   trail.NewCell(stack, false),
		inconsistent: trail.NewCell(stack, NoVariable),
		cfg:          cfg,
		stats:        stats,
		logger:       logger,
	}
	for i := 0; i < n; i++ {
		bm.registerNewVariable()
	}
	return bm
}

// Initialize resets the manager to n fresh variables, all bounds at
// (-Inf, +Inf), infeasibility cleared.
func (bm *BoundManager) Initialize(n int) {
	bm.lowers = nil
	bm.uppers = nil
	bm.names = nil
	bm.explLower = nil
	bm.explUpper = nil
	bm.log = nil
	bm.infeasible.Set(false)
	bm.inconsistent.Set(NoVariable)
	for i := 0; i < n; i++ {
		bm.registerNewVariable()
	}
}

// RegisterNewVariable appends a new variable bounded by (-Inf, +Inf)
// and returns its identifier.
func (bm *BoundManager) RegisterNewVariable() Variable {
	return bm.registerNewVariable()
}

func (bm *BoundManager) registerNewVariable() Variable {
	v := Variable(len(bm.lowers))
	bm.lowers = append(bm.lowers, trail.NewCell(bm.stack, math.Inf(-1)))
	bm.uppers = append(bm.uppers, trail.NewCell(bm.stack, math.Inf(1)))
	bm.names = append(bm.names, "")
	bm.explLower = append(bm.explLower, nil)
	bm.explUpper = append(bm.explUpper, nil)
	return v
}

// SetName attaches optional debug metadata to a variable. Never
// consulted by comparisons or propagation logic.
func (bm *BoundManager) SetName(v Variable, name string) {
	bm.names[v] = name
}

// Name returns v's debug name, or "" if none was set.
func (bm *BoundManager) Name(v Variable) string {
	return bm.names[v]
}

// GetLowerBound returns the current lower bound of v.
func (bm *BoundManager) GetLowerBound(v Variable) float64 {
	return bm.lowers[v].Get()
}

// GetUpperBound returns the current upper bound of v.
func (bm *BoundManager) GetUpperBound(v Variable) float64 {
	return bm.uppers[v].Get()
}

// SetLowerBound accepts x as v's new lower bound iff it strictly
// improves the current one outside Config.EpsilonTighten. Accepted
// updates are appended to the tightening log; if the update crosses
// the upper bound, infeasibility is recorded with v as the first
// inconsistent variable (only if none was already recorded).
//
// Returns true if the update was accepted.
func (bm *BoundManager) SetLowerBound(v Variable, x float64) bool {
	return bm.setBound(v, x, LowerBound, FromConstraintMatrixRow)
}

// SetUpperBound is the upper-bound counterpart of SetLowerBound.
func (bm *BoundManager) SetUpperBound(v Variable, x float64) bool {
	return bm.setBound(v, x, UpperBound, FromConstraintMatrixRow)
}

// setBoundFromSource is used internally by RowTightener and
// DecisionStack so the tightening log carries accurate provenance.
func (bm *BoundManager) setBoundFromSource(v Variable, x float64, kind BoundKind, src TighteningSource) bool {
	return bm.setBound(v, x, kind, src)
}

func (bm *BoundManager) setBound(v Variable, x float64, kind BoundKind, src TighteningSource) bool {
	eps := bm.cfg.EpsilonTighten
	var accepted bool
	switch kind {
	case LowerBound:
		cur := bm.lowers[v].Get()
		if accepted = gt(x, cur, eps); accepted {
			bm.lowers[v].Set(x)
		}
	case UpperBound:
		cur := bm.uppers[v].Get()
		if accepted = lt(x, cur, eps); accepted {
			bm.uppers[v].Set(x)
		}
	}
	if !accepted {
		return false
	}

	bm.appendLog(TighteningRecord{BoundTightening: BoundTightening{Variable: v, Value: x, Kind: kind}, Source: src})

	lo, hi := bm.lowers[v].Get(), bm.uppers[v].Get()
	if lo > hi && !bm.infeasible.Get() {
		bm.infeasible.Set(true)
		bm.inconsistent.Set(v)
		bm.logger.Debug().Int("variable", int(v)).Float64("lo", lo).Float64("hi", hi).Msg("bound crossing detected")
	}
	return true
}

// appendLog appends to the tightening log and registers an undo action
// on the shared stack so the log itself reverts to its pre-level length
// on pop — entries about bounds recorded at a context level must not
// survive a backtrack past that level.
func (bm *BoundManager) appendLog(r TighteningRecord) {
	preLen := len(bm.log)
	bm.log = append(bm.log, r)
	bm.stack.Record(func() {
		bm.log = bm.log[:preLen]
	})
}

// ConsistentBounds reports whether the manager is free of the
// infeasibility flag.
func (bm *BoundManager) ConsistentBounds() bool {
	return !bm.infeasible.Get()
}

// ConsistentBoundsFor reports whether v's own interval is non-crossing,
// independent of the sticky global infeasibility flag.
func (bm *BoundManager) ConsistentBoundsFor(v Variable) bool {
	return bm.lowers[v].Get() <= bm.uppers[v].Get()
}

// InconsistentVariable returns the first variable whose bounds crossed,
// or NoVariable if none has.
func (bm *BoundManager) InconsistentVariable() Variable {
	return bm.inconsistent.Get()
}

// DrainTightenings moves the current log into out and clears it,
// returning the number of records moved.
func (bm *BoundManager) DrainTightenings(out *[]TighteningRecord) int {
	n := len(bm.log)
	*out = append(*out, bm.log...)
	bm.log = bm.log[:0]
	return n
}

// StoreLocalBounds opens a new context level and returns it, so the
// caller (typically DecisionStack.PerformSplit) can later hand the
// enclosing level (the returned level minus one) to RestoreLocalBounds
// to revert every bound change made since. This is a thin wrapper over the shared context stack, used
// jointly with DecisionStack so a level reverts together with the
// decision frame it belongs to.
func (bm *BoundManager) StoreLocalBounds() int {
	return bm.stack.Push()
}

// RestoreLocalBounds pops the shared context stack back to level.
func (bm *BoundManager) RestoreLocalBounds(level int) {
	bm.stack.PopTo(level)
}

// Level returns the shared context stack's current depth.
func (bm *BoundManager) Level() int {
	return bm.stack.Level()
}

// Stack exposes the shared context stack so DecisionStack can push
// and pop frames in lockstep with BoundManager's own bound reverts:
// every push/pop on the shared stack must be paired precisely with a
// frame creation or removal.
func (bm *BoundManager) Stack() *trail.Stack {
	return bm.stack
}

// NumVariables returns the number of registered variables.
func (bm *BoundManager) NumVariables() int {
	return len(bm.lowers)
}

// --- Explanation vectors (optional, used only in proof-production mode) ---

// SetExplanation installs vec (length NumRows()) as the certifying
// combination for the named bound. Passing nil resets it to trivial.
func (bm *BoundManager) SetExplanation(vec []float64, v Variable, kind BoundKind) {
	bm.explCell(v, kind).Set(vec)
}

// GetExplanation returns the current explanation vector for (v, kind),
// or nil if trivial.
func (bm *BoundManager) GetExplanation(v Variable, kind BoundKind) []float64 {
	return bm.explCell(v, kind).Get()
}

// ResetExplanation clears (v, kind) back to trivial.
func (bm *BoundManager) ResetExplanation(v Variable, kind BoundKind) {
	bm.explCell(v, kind).Set(nil)
}

// IsExplanationTrivial reports whether (v, kind) currently has no
// certifying combination recorded.
func (bm *BoundManager) IsExplanationTrivial(v Variable, kind BoundKind) bool {
	return bm.explCell(v, kind).Get() == nil
}

func (bm *BoundManager) explCell(v Variable, kind BoundKind) *trail.Cell[[]float64] {
	var cells []*trail.Cell[[]float64]
	if kind == LowerBound {
		cells = bm.explLower
	} else {
		cells = bm.explUpper
	}
	if cells[v] == nil {
		cells[v] = trail.NewCell[[]float64](bm.stack, nil)
		if kind == LowerBound {
			bm.explLower[v] = cells[v]
		} else {
			bm.explUpper[v] = cells[v]
		}
	}
	return cells[v]
}

// NumRows returns the row count explanation vectors are sized to.
func (bm *BoundManager) NumRows() int {
	return bm.numRows
}
