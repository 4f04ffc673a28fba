package ivcore

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

// TableauOracle is the opaque simplex-engine collaborator RowTightener
// consumes for its inverted-basis pass: row-extraction and
// forward-transformation operations exposed as an opaque oracle. It is
// distinct from the Engine façade (engine.go), which covers split
// application and snapshotting, not tableau algebra.
//
// The explicit-inverse strategy's use of gonum/mat for assembling and
// multiplying dense constraint matrices follows the same library used
// elsewhere in the retrieval pack for branch-and-bound subproblems.
type TableauOracle interface {
	// BasicVariables returns the current basic variable for each row,
	// in row order.
	BasicVariables() []Variable
	// NonBasicVariables returns the current non-basic variables, in the
	// column order NonBasicMatrix uses.
	NonBasicVariables() []Variable
	// AcquireBasisInverse materializes B^-1 (m x m) and returns a
	// release function that MUST be deferred immediately by the caller,
	// so the inverse is released on every exit path.
	AcquireBasisInverse() (inv *mat.Dense, release func(), err error)
	// NonBasicMatrix returns A_N (m x k), columns in NonBasicVariables() order.
	NonBasicMatrix() *mat.Dense
	// BasicSolutionValue returns β for basic row i (the constant term
	// of y = Σ cⱼxⱼ + β once xⱼ=0 for every non-basic j).
	BasicSolutionValue(i int) float64
	// ForwardTransform solves B·z = column for z without ever
	// materializing B^-1.
	ForwardTransform(column []float64) ([]float64, error)
}

// RowTightener derives tighter bounds from sparse rows of the original
// constraint matrix and from the inverted-basis tableau, iterating to a
// fixed point.
type RowTightener struct {
	bm     *BoundManager
	cfg    *Config
	stats  *Stats
	logger zerolog.Logger
}

// NewRowTightener constructs a tightener writing into bm under cfg.
func NewRowTightener(bm *BoundManager, cfg *Config, stats *Stats, logger zerolog.Logger) *RowTightener {
	return &RowTightener{bm: bm, cfg: cfg, stats: stats, logger: logger}
}

// TightenConstraintMatrixRow runs one pass of the original-constraint-
// matrix mode over a single row of A, returning the number of bounds
// accepted. Returns *InfeasibleQuery if a tightening crosses lb>ub.
func (rt *RowTightener) TightenConstraintMatrixRow(row SparseRow) (int, error) {
	return rt.tightenRow(row, sourceConstraintMatrix)
}

// TightenTableauRow runs the tableau mode's per-row tightening:
// tighten y by forward accumulation, then tighten each xᵢ by
// rearranging, by rewriting y = Σ cᵢxᵢ + β as the equivalent sparse
// equation y - Σ cᵢxᵢ = β and delegating to the same row-solving core.
func (rt *RowTightener) TightenTableauRow(row TableauRow) (int, error) {
	return rt.tightenTableauRow(row, sourceRow)
}

// TightenPivotRow is the post-pivot optimization hook: tighten using
// only the just-pivoted row, bypassing a full saturation pass. It is
// the same algorithm as TightenTableauRow under a distinct name for
// call-site clarity.
func (rt *RowTightener) TightenPivotRow(row TableauRow) (int, error) {
	return rt.tightenTableauRow(row, sourceRow)
}

func (rt *RowTightener) tightenTableauRow(row TableauRow, src tighteningSource) (int, error) {
	entries := make([]RowEntry, 0, len(row.Entries)+1)
	entries = append(entries, RowEntry{Index: row.BasicVar, Coefficient: 1})
	for _, e := range row.Entries {
		entries = append(entries, RowEntry{Index: e.Index, Coefficient: -e.Coefficient})
	}
	return rt.tightenRow(SparseRow{Entries: entries, RHS: row.Beta}, src)
}

// tightenRow is the shared engine behind both public entry points:
// given Σ cᵢxᵢ = RHS, derive a tighter bound for each xᵢ whose
// coefficient magnitude exceeds MinimalCoefficientForTightening.
func (rt *RowTightener) tightenRow(row SparseRow, src tighteningSource) (int, error) {
	var lbFinite, ubFinite float64
	lbInfCount, ubInfCount := 0, 0
	lbInfIdx, ubInfIdx := -1, -1
	ownLB := make([]float64, len(row.Entries))
	ownUB := make([]float64, len(row.Entries))

	for i, e := range row.Entries {
		lo := rt.bm.GetLowerBound(e.Index)
		hi := rt.bm.GetUpperBound(e.Index)
		var oLB, oUB float64
		if e.Coefficient > 0 {
			oLB = e.Coefficient * lo
			oUB = e.Coefficient * hi
		} else {
			oLB = e.Coefficient * hi
			oUB = e.Coefficient * lo
		}
		ownLB[i] = oLB
		ownUB[i] = oUB

		if math.IsInf(oLB, 0) {
			lbInfCount++
			lbInfIdx = i
		} else {
			lbFinite += oLB
		}
		if math.IsInf(oUB, 0) {
			ubInfCount++
			ubInfIdx = i
		} else {
			ubFinite += oUB
		}
	}

	learned := 0
	for i, e := range row.Entries {
		if math.Abs(e.Coefficient) <= rt.cfg.MinimalCoefficientForTightening {
			continue
		}
		restUB, okUB := restOf(ubFinite, ownUB[i], ubInfCount, ubInfIdx, i)
		restLB, okLB := restOf(lbFinite, ownLB[i], lbInfCount, lbInfIdx, i)

		var lbOK, ubOK bool
		var lbVal, ubVal float64
		if e.Coefficient > 0 {
			lbOK, lbVal = okUB, (row.RHS-restUB)/e.Coefficient
			ubOK, ubVal = okLB, (row.RHS-restLB)/e.Coefficient
		} else {
			lbOK, lbVal = okLB, (row.RHS-restLB)/e.Coefficient
			ubOK, ubVal = okUB, (row.RHS-restUB)/e.Coefficient
		}

		if lbOK {
			if accepted, err := rt.tighten(e.Index, lbVal, LowerBound, src); err != nil {
				return learned, err
			} else if accepted {
				learned++
			}
		}
		if ubOK {
			if accepted, err := rt.tighten(e.Index, ubVal, UpperBound, src); err != nil {
				return learned, err
			} else if accepted {
				learned++
			}
		}
	}
	return learned, nil
}

// restOf computes the sum of every entry's contribution except entry i,
// reporting ok=false when that sum is not finite: a variable at ±∞
// must not contribute to any finite derived bound. own is entry i's
// own contribution, needed to subtract it out of finiteSum when entry
// i itself is finite (finiteSum was accumulated over every finite
// entry, i included).
func restOf(finiteSum, own float64, infCount, infIdx, i int) (float64, bool) {
	switch {
	case infCount == 0:
		return finiteSum - own, true
	case infCount == 1 && infIdx == i:
		return finiteSum, true
	default:
		return 0, false
	}
}

// tighten applies the rounding constant (on registering a lower bound,
// subtract ε_round; on upper bounds, add ε_round) and writes through
// BoundManager, detecting crossing bounds.
func (rt *RowTightener) tighten(v Variable, value float64, kind BoundKind, src tighteningSource) (bool, error) {
	round := rt.cfg.ExplicitBasisBoundTighteningRoundingConst
	if kind == LowerBound {
		value -= round
	} else {
		value += round
	}

	source := FromConstraintMatrixRow
	if src == sourceRow || src == sourceExplicitBasis {
		source = FromInvertedBasisRow
	}

	accepted := rt.bm.setBoundFromSource(v, value, kind, source)
	if !accepted {
		return false, nil
	}
	rt.stats.recordTightening(src)
	rt.logger.Debug().Int("variable", int(v)).Str("kind", kind.String()).Float64("value", value).Msg("tightened bound")

	if !rt.bm.ConsistentBoundsFor(v) {
		var expl []float64
		if rt.cfg.ProofProduction {
			expl = rt.bm.GetExplanation(v, kind)
		}
		return true, &InfeasibleQuery{Variable: v, Explanation: expl}
	}
	return true, nil
}

// SaturateConstraintMatrix repeatedly sweeps every row of rows until
// either a round learns nothing new or Config's saturation cap is hit.
// Returns the number of rounds actually run and the total bounds
// learned.
func (rt *RowTightener) SaturateConstraintMatrix(rows []SparseRow) (int, int, error) {
	total := 0
	round := 0
	for ; round < rt.cfg.RowBoundTightenerSaturationIterations; round++ {
		learnedThisRound := 0
		for _, row := range rows {
			n, err := rt.TightenConstraintMatrixRow(row)
			learnedThisRound += n
			total += n
			if err != nil {
				return round + 1, total, err
			}
		}
		rt.logger.Debug().Int("round", round+1).Int("learned", learnedThisRound).Msg("saturation round")
		if learnedThisRound == 0 {
			return round + 1, total, nil
		}
	}
	return round, total, nil
}

// TightenExplicitBasis implements the explicit-basis strategy:
// materialize B^-1 once, derive every row as B^-1[i,·]·A_N, and
// release the inverse on every exit path.
func (rt *RowTightener) TightenExplicitBasis(oracle TableauOracle) (int, error) {
	inv, release, err := oracle.AcquireBasisInverse()
	if err != nil {
		return 0, err
	}
	defer release()

	nonBasic := oracle.NonBasicVariables()
	an := oracle.NonBasicMatrix()
	basics := oracle.BasicVariables()

	learned := 0
	for i, basicVar := range basics {
		invRow := mat.Row(nil, i, inv)
		coeffs := make([]float64, len(nonBasic))
		for j := range nonBasic {
			col := mat.Col(nil, j, an)
			coeffs[j] = dot(invRow, col)
		}
		entries := make([]RowEntry, 0, len(nonBasic))
		for j, nb := range nonBasic {
			if coeffs[j] != 0 {
				entries = append(entries, RowEntry{Index: nb, Coefficient: coeffs[j]})
			}
		}
		row := TableauRow{BasicVar: basicVar, Beta: oracle.BasicSolutionValue(i), Entries: entries}
		n, err := rt.tightenTableauRow(row, sourceExplicitBasis)
		learned += n
		if err != nil {
			return learned, err
		}
	}
	return learned, nil
}

// TightenImplicitBasis implements the implicit-basis strategy: assemble
// rows column-by-column via the engine's forward-transformation oracle,
// never materializing B^-1.
func (rt *RowTightener) TightenImplicitBasis(oracle TableauOracle) (int, error) {
	basics := oracle.BasicVariables()
	rows := make([]TableauRow, len(basics))
	for i, bv := range basics {
		rows[i] = TableauRow{BasicVar: bv, Beta: oracle.BasicSolutionValue(i)}
	}

	an := oracle.NonBasicMatrix()
	for j, nb := range oracle.NonBasicVariables() {
		column := mat.Col(nil, j, an)
		z, err := oracle.ForwardTransform(column)
		if err != nil {
			return 0, err
		}
		for i := range rows {
			if z[i] != 0 {
				rows[i].Entries = append(rows[i].Entries, RowEntry{Index: nb, Coefficient: z[i]})
			}
		}
	}

	learned := 0
	for _, row := range rows {
		n, err := rt.tightenTableauRow(row, sourceRow)
		learned += n
		if err != nil {
			return learned, err
		}
	}
	return learned, nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
