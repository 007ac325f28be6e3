package check

import (
	"testing"

	"github.com/VijayEluri/WhileyCompiler/tree"
	"github.com/stretchr/testify/assert"
)

func newCTE() *ConcreteTypeExtractor {
	return NewConcreteTypeExtractor(NewEmptinessOracle(true))
}

// TestExtractDropsVoidDisjuncts: a union with one uninhabited disjunct
// (int - int) keeps only the inhabited one.
func TestExtractDropsVoidDisjuncts(t *testing.T) {
	cte := newCTE()
	u := tree.NewUnion(tree.Int, tree.NewDifference(tree.Int, tree.Int))
	assert.Equal(t, tree.Int, cte.Extract(u, noLifetimes{}))
}

// TestExtractAllDisjunctsVoidYieldsVoid: when nothing survives, Extract
// degrades to Void rather than an empty union.
func TestExtractAllDisjunctsVoidYieldsVoid(t *testing.T) {
	cte := newCTE()
	assert.Equal(t, tree.Void, cte.Extract(tree.NewDifference(tree.Int, tree.Int), noLifetimes{}))
}

// TestExtractFoldsArrayIntersectionElementwise: Array(any) ∧ Array(int) is
// inhabited and folds to the concrete shape Array(int).
func TestExtractFoldsArrayIntersectionElementwise(t *testing.T) {
	cte := newCTE()
	inter := tree.NewIntersection(tree.NewArrayType(tree.Any), tree.NewArrayType(tree.Int))
	assert.Equal(t, tree.NewArrayType(tree.Int), cte.Extract(inter, noLifetimes{}))
}

// TestExtractBareNegationDegradesToAny: a negation with no accompanying
// positive structural shape has no concrete surface form of its own.
func TestExtractBareNegationDegradesToAny(t *testing.T) {
	cte := newCTE()
	assert.Equal(t, tree.Any, cte.Extract(tree.NewNegation(tree.Int), noLifetimes{}))
}
