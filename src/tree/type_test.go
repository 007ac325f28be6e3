package tree

import (
	"testing"

	. "github.com/VijayEluri/WhileyCompiler/common"
	"github.com/stretchr/testify/assert"
)

func TestUnionAbsorbsVoidAndAny(t *testing.T) {
	assert.Equal(t, Int, NewUnion(Int, Void))
	assert.Equal(t, Any, NewUnion(Int, Any))
	assert.Equal(t, Void, NewUnion())
}

func TestIntersectionAbsorbsVoidAndAny(t *testing.T) {
	assert.Equal(t, Int, NewIntersection(Int, Any))
	assert.Equal(t, Void, NewIntersection(Int, Void))
	assert.Equal(t, Any, NewIntersection())
}

func TestUnionFlattensAndDeduplicates(t *testing.T) {
	nested := NewUnion(Int, NewUnion(Bool, Int))
	u, ok := nested.(*UnionType)
	if assert.True(t, ok, "expected a flattened UnionType, got %T", nested) {
		assert.Len(t, u.Children, 2)
	}
}

func TestNegationDoubleEliminates(t *testing.T) {
	assert.Equal(t, Int, NewNegation(NewNegation(Int)))
	assert.Equal(t, Any, NewNegation(Void))
	assert.Equal(t, Void, NewNegation(Any))
}

func TestInterningReturnsSameValue(t *testing.T) {
	a := NewArrayType(Int)
	b := NewArrayType(Int)
	assert.Same(t, a, b, "two structurally-equal ArrayTypes must intern to the same pointer")
}

func TestRecordCanonicalKeyIgnoresFieldOrder(t *testing.T) {
	n := NewIdentifier("n")
	x := NewIdentifier("x")
	fieldsA := NewMap[Identifier, Type]()
	fieldsA[n] = Int
	fieldsA[x] = Bool
	fieldsB := NewMap[Identifier, Type]()
	fieldsB[x] = Bool
	fieldsB[n] = Int

	recA := NewRecordType(false, []Identifier{n, x}, fieldsA)
	recB := NewRecordType(false, []Identifier{x, n}, fieldsB)
	assert.Same(t, recA, recB)
}

func TestDifferenceBuildsIntersectionWithNegation(t *testing.T) {
	// NewDifference is pure term construction (spec §3): it does not know
	// int and bool are disjoint, that judgement belongs to the Emptiness
	// Oracle. It just builds Intersection(Int, Negation(Bool)).
	diff := NewDifference(Int, Bool)
	inter, ok := diff.(*IntersectionType)
	if assert.True(t, ok, "expected an IntersectionType, got %T", diff) {
		assert.Len(t, inter.Children, 2)
	}
}
