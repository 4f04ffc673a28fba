package ivcore

// RowEntry is a single non-zero (index, coefficient) pair of a sparse
// row.
type RowEntry struct {
	Index       Variable
	Coefficient float64
}

// SparseRow represents one row of the original constraint matrix A:
// Σᵢ cᵢ xᵢ = RHS, zero entries omitted.
type SparseRow struct {
	Entries []RowEntry
	RHS     float64
}

// TableauRow is the dense inverted-basis form of one row: BasicVar =
// Σᵢ Coefficient·NonBasic + Beta.
type TableauRow struct {
	BasicVar Variable
	Beta     float64
	Entries  []RowEntry
}
