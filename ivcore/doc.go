// Package ivcore implements the search-and-deduction core of a
// linear-arithmetic solver augmented with piecewise-linear constraints:
// a row-based bound tightener, an SMT-style decision stack over
// case-splits, and the context-versioned bound manager the two share.
//
// The package does not perform simplex pivoting, basis refactorization,
// or problem-file parsing; it consumes those as an injected Engine
// collaborator (see engine.go) and focuses purely on bound propagation
// and branch/backtrack search over piecewise-linear case splits.
package ivcore
