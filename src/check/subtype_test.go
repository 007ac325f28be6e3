package check

import (
	"testing"

	"github.com/VijayEluri/WhileyCompiler/tree"
	"github.com/stretchr/testify/assert"
)

// TestSubtypeReflexive exercises P7: every type is a subtype of itself,
// for a handful of representative shapes (spec §8 "properties").
func TestSubtypeReflexive(t *testing.T) {
	so := NewSubtypeOperator(NewEmptinessOracle(false))
	for _, ty := range []tree.Type{
		tree.Int,
		tree.Bool,
		tree.NewArrayType(tree.Int),
		tree.NewUnion(tree.Int, tree.Bool),
	} {
		assert.True(t, so.IsSubtype(ty, ty, noLifetimes{}), "%v <: %v should hold", ty, ty)
	}
}

// TestSubtypeTransitive exercises P8 over a three-type chain built from
// narrowing unions: int <: int|bool <: any.
func TestSubtypeTransitive(t *testing.T) {
	so := NewSubtypeOperator(NewEmptinessOracle(false))
	a := tree.Int
	b := tree.NewUnion(tree.Int, tree.Bool)
	c := tree.Any

	assert.True(t, so.IsSubtype(a, b, noLifetimes{}))
	assert.True(t, so.IsSubtype(b, c, noLifetimes{}))
	assert.True(t, so.IsSubtype(a, c, noLifetimes{}), "subtyping must be transitive")
}

func TestSubtypeRejectsUnrelatedAtoms(t *testing.T) {
	so := NewSubtypeOperator(NewEmptinessOracle(false))
	assert.False(t, so.IsSubtype(tree.Bool, tree.Int, noLifetimes{}))
}

func TestSubtypeUnionIsLeastUpperBound(t *testing.T) {
	so := NewSubtypeOperator(NewEmptinessOracle(false))
	u := tree.NewUnion(tree.Int, tree.Bool)
	assert.True(t, so.IsSubtype(tree.Int, u, noLifetimes{}))
	assert.True(t, so.IsSubtype(tree.Bool, u, noLifetimes{}))
	assert.False(t, so.IsSubtype(u, tree.Int, noLifetimes{}), "the union itself is not a subtype of either branch alone")
}

func TestIsEquivalentRequiresBothDirections(t *testing.T) {
	so := NewSubtypeOperator(NewEmptinessOracle(false))
	assert.True(t, so.IsEquivalent(tree.Int, tree.Int, noLifetimes{}))
	assert.False(t, so.IsEquivalent(tree.Int, tree.NewUnion(tree.Int, tree.Bool), noLifetimes{}))
}
