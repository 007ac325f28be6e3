package check

import (
	"testing"

	. "github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/tree"
	"github.com/stretchr/testify/assert"
)

// noLifetimes satisfies LifetimeRelation for tests that never mention
// references, mirroring spec §4.1's examples which mostly ignore lifetimes.
type noLifetimes struct{}

func (noLifetimes) Subsumes(outer, inner Identifier) bool { return outer == inner }

func TestIsVoidDetectsDisjointAtoms(t *testing.T) {
	eo := NewEmptinessOracle(false)
	inter := tree.NewIntersection(tree.Int, tree.Bool)
	assert.True(t, eo.IsVoid(inter, noLifetimes{}), "int and bool never overlap")
}

func TestIsVoidOfVoidIsTrue(t *testing.T) {
	eo := NewEmptinessOracle(false)
	assert.True(t, eo.IsVoid(tree.Void, noLifetimes{}))
}

func TestIsVoidOfAnyIsFalse(t *testing.T) {
	eo := NewEmptinessOracle(false)
	assert.False(t, eo.IsVoid(tree.Any, noLifetimes{}))
}

func TestIsVoidUnionRequiresEveryDisjunctEmpty(t *testing.T) {
	eo := NewEmptinessOracle(false)
	u := tree.NewUnion(tree.NewDifference(tree.Int, tree.Int), tree.Int)
	// Int - Int is void, but the second disjunct (Int) is not, so the
	// union as a whole is inhabited.
	assert.False(t, eo.IsVoid(u, noLifetimes{}))
}

func TestIsVoidArrayElementPropagates(t *testing.T) {
	eo := NewEmptinessOracle(false)
	arrOfVoid := tree.NewArrayType(tree.Void)
	assert.True(t, eo.IsVoid(arrOfVoid, noLifetimes{}), "an array of an uninhabited element type is itself uninhabited")
}

func TestIsVoidArrayVsNonArrayIsContradiction(t *testing.T) {
	eo := NewEmptinessOracle(false)
	conflict := tree.NewIntersection(tree.NewArrayType(tree.Int), tree.Int)
	assert.True(t, eo.IsVoid(conflict, noLifetimes{}))
}

func TestIsVoidRecordMissingClosedFieldIsVoid(t *testing.T) {
	eo := NewEmptinessOracle(false)
	n := NewIdentifier("n")
	recA := tree.NewRecordType(false, []Identifier{n}, oneField(n, tree.Int))
	recB := tree.NewRecordType(false, nil, NewMap[Identifier, tree.Type]())
	// recA declares field n, recB is closed and does not: their
	// intersection is uninhabited (no value can satisfy both shapes).
	assert.True(t, eo.IsVoid(tree.NewIntersection(recA, recB), noLifetimes{}))
}

func TestIsVoidOpenRecordAcceptsExtraFields(t *testing.T) {
	eo := NewEmptinessOracle(false)
	n := NewIdentifier("n")
	recA := tree.NewRecordType(false, []Identifier{n}, oneField(n, tree.Int))
	recOpen := tree.NewRecordType(true, nil, NewMap[Identifier, tree.Type]())
	assert.False(t, eo.IsVoid(tree.NewIntersection(recA, recOpen), noLifetimes{}))
}

func oneField(name Identifier, t tree.Type) Map[Identifier, tree.Type] {
	m := NewMap[Identifier, tree.Type]()
	m[name] = t
	return m
}

// TestIsVoidNominalWithInvariantIsRelaxedAsInhabited exercises descentNominal against a
// contractive `type nat is (int n) where n >= 0`-shaped declaration whose
// body is simply Int: since the nominal's body is inhabited and, in the
// relaxed oracle, an invariant-bearing nominal is never unfolded, the
// nominal itself must be considered inhabited.
func TestIsVoidNominalWithInvariantIsRelaxedAsInhabited(t *testing.T) {
	relaxed := NewEmptinessOracle(false)
	n := tree.NewVariableDecl(NewIdentifier("n"), tree.Int)
	natDecl := &tree.TypeDecl{
		Name:      NewIdentifier("nat"),
		Binding:   n,
		Body:      tree.Int,
		Invariant: []tree.Expr{&tree.BinaryExpr{Op: tree.BinaryOpGreaterEqual}},
	}
	nat := tree.NewNominalType(NewIdentifier("nat"), natDecl)
	assert.False(t, relaxed.IsVoid(nat, noLifetimes{}))
}

func TestIsVoidNominalWithoutInvariantUnfoldsBody(t *testing.T) {
	eo := NewEmptinessOracle(true)
	emptyDecl := &tree.TypeDecl{
		Name: NewIdentifier("impossible"),
		Body: tree.Void,
	}
	nominal := tree.NewNominalType(NewIdentifier("impossible"), emptyDecl)
	assert.True(t, eo.IsVoid(nominal, noLifetimes{}))
}
