package ivcore

import "github.com/rs/zerolog"

// Frame is one decision frame: the engine snapshot taken at split
// time, the case currently applied, the cases not yet tried, and any
// splits proved unconditionally valid under the active case. A frame
// with no remaining cases is exhausted and is deleted by PopSplit
// rather than retained.
//
// Modeled on an iterative depth-first frame stack, generalized from
// "remaining label values for one variable" to "remaining CaseSplit
// alternatives for one piecewise-linear constraint".
type Frame struct {
	constraint        PiecewiseLinearConstraint
	snapshot          Snapshot
	level             int
	activeCase        CaseSplit
	remainingCases    []CaseSplit
	impliedValidCases []CaseSplit
}

// ActiveCase returns the frame's most recently applied case.
func (f *Frame) ActiveCase() CaseSplit { return f.activeCase }

// ImpliedValidCases returns the splits proved unconditionally valid
// under this frame's active case.
func (f *Frame) ImpliedValidCases() []CaseSplit { return f.impliedValidCases }

// RemainingCases returns the cases not yet tried at this frame.
func (f *Frame) RemainingCases() []CaseSplit { return f.remainingCases }

// SmtStackEntry is one serialized element of a decision path, as
// produced by StoreSmtState and consumed by ReplaySmtStackEntry. It
// carries a full engine snapshot rather than bounds alone, since a
// simplex tableau cannot be reconstructed from bounds.
type SmtStackEntry struct {
	Case     CaseSplit
	Snapshot Snapshot
}

// DecisionStack is the SMT-style search core: it owns the frame
// stack, the violation/rejection counters driving when a split is
// needed, the candidate constraint for the next split, and
// (optionally) the certificate tree mirroring the search.
type DecisionStack struct {
	bm     *BoundManager
	engine Engine
	cfg    *Config
	stats  *Stats
	cert   *CertificateTree
	logger zerolog.Logger

	heuristic    BranchingHeuristic
	scoreTracker *ScoreTracker

	frames      []*Frame
	rootImplied []CaseSplit

	violationCounts map[string]int
	violatedPool    []PiecewiseLinearConstraint
	seenViolated    map[string]bool
	rejectionCount  int

	needsSplit bool
	candidate  PiecewiseLinearConstraint
}

// NewDecisionStack constructs a DecisionStack. If heuristic is nil,
// the default follows cfg.UseLeastFix. cert may be nil when proofs
// are not produced.
func NewDecisionStack(bm *BoundManager, engine Engine, cfg *Config, stats *Stats, cert *CertificateTree, heuristic BranchingHeuristic, scoreTracker *ScoreTracker, logger zerolog.Logger) *DecisionStack {
	if heuristic == nil {
		if cfg.UseLeastFix {
			heuristic = NewLeastFixHeuristic()
		} else {
			heuristic = NewFirstViolatedHeuristic()
		}
	}
	if scoreTracker == nil {
		scoreTracker = NewScoreTracker()
	}
	return &DecisionStack{
		bm:              bm,
		engine:          engine,
		cfg:             cfg,
		stats:           stats,
		cert:            cert,
		logger:          logger,
		heuristic:       heuristic,
		scoreTracker:    scoreTracker,
		violationCounts: make(map[string]int),
		seenViolated:    make(map[string]bool),
	}
}

// ReportViolatedConstraint increments c's violation counter; once it
// reaches Config.ConstraintViolationThreshold, a split is requested
// and c is tentatively the candidate, subject to override by the
// configured heuristic.
func (ds *DecisionStack) ReportViolatedConstraint(c PiecewiseLinearConstraint) {
	if !ds.seenViolated[c.ID()] {
		ds.seenViolated[c.ID()] = true
		ds.violatedPool = append(ds.violatedPool, c)
	}
	ds.violationCounts[c.ID()]++

	if ds.violationCounts[c.ID()] >= ds.cfg.ConstraintViolationThreshold {
		ds.needsSplit = true
		ds.candidate = c
		if picked := ds.heuristic.PickConstraint(ds.violatedPool, ds.violationCounts); picked != nil {
			ds.candidate = picked
		}
	}
}

// ReportRejectedPhasePatternProposal increments the rejection
// counter; at Config.DeepSoiRejectionThreshold, it requests a split,
// invokes the engine's saturation hooks, and asks the heuristic for a
// candidate, falling back to the score tracker's top-unfixed
// constraint.
func (ds *DecisionStack) ReportRejectedPhasePatternProposal() error {
	ds.rejectionCount++
	if ds.rejectionCount < ds.cfg.DeepSoiRejectionThreshold {
		return nil
	}
	ds.needsSplit = true
	if err := ds.engine.ApplyAllBoundTightenings(); err != nil {
		return err
	}
	if err := ds.engine.ApplyAllValidConstraintCaseSplits(); err != nil {
		return err
	}
	candidate := ds.heuristic.PickConstraint(ds.violatedPool, ds.violationCounts)
	if candidate == nil {
		candidate = ds.scoreTracker.TopUnfixed(ds.violatedPool)
	}
	ds.candidate = candidate
	return nil
}

// ChooseViolatedConstraintForFixing exposes the configured
// heuristic's choice directly.
func (ds *DecisionStack) ChooseViolatedConstraintForFixing(pool []PiecewiseLinearConstraint, violations map[string]int) PiecewiseLinearConstraint {
	return ds.heuristic.PickConstraint(pool, violations)
}

// NeedToSplit reports whether a split has been requested.
func (ds *DecisionStack) NeedToSplit() bool {
	return ds.needsSplit
}

// PerformSplit applies the pending candidate's split. Precondition: a
// candidate is set (panics with AssertionError otherwise). If the
// candidate has since become inactive, state is cleared and
// PerformSplit returns nil without creating a frame.
func (ds *DecisionStack) PerformSplit() error {
	assertf(ds.candidate != nil, "performSplit called with no candidate set")
	candidate := ds.candidate

	if !candidate.IsActive() {
		ds.clearSplitState()
		return nil
	}

	cases := candidate.GetCaseSplits()
	assertf(len(cases) >= 2, "case split list must hold at least two alternatives")
	for _, c := range cases {
		assertf(c.Equations == 0, "case splits must contain only bounds, never equations")
	}

	candidate.SetActive(false)
	snap := ds.engine.StoreState(ds.bm.Level())
	ds.engine.PreContextPushHook()
	level := ds.bm.StoreLocalBounds()
	ds.stats.recordContextPush()

	frame := &Frame{
		constraint:     candidate,
		snapshot:       snap,
		level:          level,
		remainingCases: cases[1:],
	}

	if ds.cfg.ProofProduction && ds.cert != nil {
		for _, c := range cases {
			ds.cert.AddChild(c)
		}
	}

	if err := ds.applyCase(frame, cases[0]); err != nil {
		return err
	}

	if ds.cfg.ProofProduction && ds.cert != nil {
		ds.cert.Descend(cases[0])
	}

	ds.frames = append(ds.frames, frame)
	ds.stats.recordSplit(int64(len(ds.frames)))
	ds.logger.Debug().Str("constraint", candidate.ID()).Int("level", level).Msg("performed split")

	ds.clearSplitState()
	return nil
}

func (ds *DecisionStack) clearSplitState() {
	ds.needsSplit = false
	ds.candidate = nil
}

// applyCase writes a case's bound tightenings through BoundManager,
// asks the engine to apply it, and records it as the frame's active
// case.
func (ds *DecisionStack) applyCase(frame *Frame, cs CaseSplit) error {
	for _, b := range cs.Bounds {
		ds.bm.setBoundFromSource(b.Variable, b.Value, b.Kind, FromCaseSplit)
	}
	if err := ds.engine.ApplySplit(cs); err != nil {
		return err
	}
	frame.activeCase = cs
	return nil
}

// PopSplit pops frames with exhausted remainingCases, then advances
// the next non-exhausted frame to its next case, repeating while the
// engine (or the bound manager) reports inconsistency after
// application. Returns false once the stack empties, meaning every
// alternative at every level has been tried and none is consistent.
func (ds *DecisionStack) PopSplit() (bool, error) {
	ds.captureFailureExplanation()

	for {
		if len(ds.frames) == 0 {
			return false, nil
		}
		top := ds.frames[len(ds.frames)-1]

		parentLevel := top.level - 1
		ds.bm.RestoreLocalBounds(parentLevel)
		if err := ds.engine.RestoreState(top.snapshot); err != nil {
			return false, err
		}
		ds.engine.PostContextPopHook()
		ds.stats.recordContextPop()

		if len(top.remainingCases) == 0 {
			ds.frames = ds.frames[:len(ds.frames)-1]
			if ds.cfg.ProofProduction && ds.cert != nil {
				ds.cert.Ascend()
			}
			continue
		}
		top.impliedValidCases = nil

		next := top.remainingCases[0]
		top.remainingCases = top.remainingCases[1:]

		ds.engine.PreContextPushHook()
		top.level = ds.bm.StoreLocalBounds()
		ds.stats.recordContextPush()

		if err := ds.applyCase(top, next); err != nil {
			return false, err
		}
		ds.stats.recordPop(int64(len(ds.frames)))

		if ds.cfg.ProofProduction && ds.cert != nil {
			ds.cert.AdvanceTo(next)
		}

		if !ds.bm.ConsistentBounds() || !ds.engine.ConsistentBounds() {
			ds.captureFailureExplanation()
			continue
		}
		return true, nil
	}
}

// captureFailureExplanation asks the engine for a row-combination
// explanation of the current infeasibility before state is restored
// away, when proof production is enabled.
func (ds *DecisionStack) captureFailureExplanation() {
	if !ds.cfg.ProofProduction {
		return
	}
	if ds.bm.ConsistentBounds() && ds.engine.ConsistentBounds() {
		return
	}
	v := ds.bm.InconsistentVariable()
	if v == NoVariable {
		return
	}
	expl := ds.engine.ExplainSimplexFailure()
	if expl == nil {
		return
	}
	ds.bm.SetExplanation(expl, v, LowerBound)
	ds.bm.SetExplanation(expl, v, UpperBound)
}

// RecordImpliedValidSplit appends s to the topmost frame's
// impliedValidCases, or to the root list if the stack is empty.
func (ds *DecisionStack) RecordImpliedValidSplit(s CaseSplit) {
	if len(ds.frames) == 0 {
		ds.rootImplied = append(ds.rootImplied, s)
		return
	}
	top := ds.frames[len(ds.frames)-1]
	top.impliedValidCases = append(top.impliedValidCases, s)
}

// AllSplitsSoFar appends the full sequence of applied splits to out:
// root-implied splits, then per frame its activeCase followed by its
// impliedValidCases.
func (ds *DecisionStack) AllSplitsSoFar(out *[]CaseSplit) {
	*out = append(*out, ds.rootImplied...)
	for _, f := range ds.frames {
		*out = append(*out, f.activeCase)
		*out = append(*out, f.impliedValidCases...)
	}
}

// Depth returns the number of live frames — expected to equal the
// bound manager's context level outside replay mode.
func (ds *DecisionStack) Depth() int {
	return len(ds.frames)
}

// StoreSmtState serializes the current decision path as a sequence of
// (case, snapshot) entries, for later replay via ReplaySmtStackEntry.
func (ds *DecisionStack) StoreSmtState() []SmtStackEntry {
	entries := make([]SmtStackEntry, len(ds.frames))
	for i, f := range ds.frames {
		entries[i] = SmtStackEntry{Case: f.activeCase, Snapshot: f.snapshot}
	}
	return entries
}

// ReplaySmtStackEntry restores entry's engine snapshot and re-applies
// its case, outside the live frame stack — used to replay a
// previously stored decision path.
func (ds *DecisionStack) ReplaySmtStackEntry(entry SmtStackEntry) error {
	if err := ds.engine.RestoreState(entry.Snapshot); err != nil {
		return err
	}
	for _, b := range entry.Case.Bounds {
		ds.bm.setBoundFromSource(b.Variable, b.Value, b.Kind, FromCaseSplit)
	}
	return ds.engine.ApplySplit(entry.Case)
}
