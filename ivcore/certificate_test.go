package ivcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func split(v Variable, value float64, kind BoundKind) CaseSplit {
	return CaseSplit{Bounds: []BoundTightening{{Variable: v, Value: value, Kind: kind}}}
}

func TestCertificateTreeRootHasNoSplit(t *testing.T) {
	tree := NewCertificateTree()
	require.Nil(t, tree.GetSplit())
	require.Nil(t, tree.GetParent())
}

func TestCertificateTreeDescendCreatesAndMovesCurrent(t *testing.T) {
	tree := NewCertificateTree()
	s := split(0, 0, LowerBound)

	child := tree.Descend(s)
	assert.Equal(t, tree.Current(), child)
	assert.Equal(t, s.Signature(), tree.GetSplit().Signature())
	assert.Equal(t, tree.Root(), tree.GetParent())
}

func TestCertificateTreeAddChildDedupsBySignature(t *testing.T) {
	tree := NewCertificateTree()
	s := split(0, 0, LowerBound)

	first := tree.AddChild(s)
	second := tree.AddChild(s)
	assert.Same(t, first, second)
}

func TestCertificateTreeAscendIsNoOpAtRoot(t *testing.T) {
	tree := NewCertificateTree()
	tree.Ascend()
	assert.Equal(t, tree.Root(), tree.Current())
}

func TestCertificateTreeAdvanceToMovesAmongSiblings(t *testing.T) {
	tree := NewCertificateTree()
	caseA := split(0, 0, LowerBound)
	caseB := split(0, 0, UpperBound)

	tree.Descend(caseA)
	sibling := tree.AdvanceTo(caseB)

	assert.Equal(t, tree.Root(), sibling.Parent())
	assert.Equal(t, tree.Current(), sibling)
	assert.Equal(t, caseB.Signature(), tree.GetSplit().Signature())
}

func TestCertificateTreeGetChildBySplit(t *testing.T) {
	tree := NewCertificateTree()
	s := split(1, 5, UpperBound)
	child := tree.AddChild(s)
	assert.Equal(t, child, tree.GetChildBySplit(s))
	assert.Nil(t, tree.GetChildBySplit(split(2, 9, LowerBound)))
}
