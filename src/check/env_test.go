package check

import (
	"testing"

	. "github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/tree"
	"github.com/stretchr/testify/assert"
)

func TestEnvironmentLookupFallsBackToDeclaredType(t *testing.T) {
	x := tree.NewVariableDecl(NewIdentifier("x"), tree.Int)
	env := NewEnvironment()
	assert.Equal(t, tree.Int, env.Lookup(x))
}

func TestEnvironmentRefineOverridesLookup(t *testing.T) {
	x := tree.NewVariableDecl(NewIdentifier("x"), tree.NewUnion(tree.Int, tree.Bool))
	env := NewEnvironment().Extend(x, tree.NewUnion(tree.Int, tree.Bool))
	refined := env.Refine(x, tree.Int)
	assert.Equal(t, tree.NewIntersection(tree.Int, tree.NewUnion(tree.Int, tree.Bool)), refined.Lookup(x))
	// The original environment is untouched (copy-on-write).
	assert.Equal(t, tree.NewUnion(tree.Int, tree.Bool), env.Lookup(x))
}

func TestBottomIsIdentityForUnion(t *testing.T) {
	x := tree.NewVariableDecl(NewIdentifier("x"), tree.Int)
	env := NewEnvironment().Extend(x, tree.Int)

	assert.Same(t, env, Union(Bottom(), env))
	assert.Same(t, env, Union(env, Bottom()))
}

// TestUnionMergesKnownTypes exercises property P4: a variable known on
// both branches of a merge point is refined to the union of its two
// branch-local types.
func TestUnionMergesKnownTypes(t *testing.T) {
	x := tree.NewVariableDecl(NewIdentifier("x"), tree.NewUnion(tree.Int, tree.Bool))
	left := NewEnvironment().Extend(x, tree.Int)
	right := NewEnvironment().Extend(x, tree.Bool)

	merged := Union(left, right)
	declared := tree.NewUnion(tree.Int, tree.Bool)
	assert.Equal(t, tree.NewUnion(tree.NewIntersection(tree.Int, declared), tree.NewIntersection(tree.Bool, declared)), merged.Lookup(x))
}

// TestUnionPassesThroughVariableKnownOnOneSideOnly: a variable declared
// only inside one branch (e.g. inside an if-block) survives the merge
// unchanged, since its absence on the other side carries no information.
func TestUnionPassesThroughVariableKnownOnOneSideOnly(t *testing.T) {
	x := tree.NewVariableDecl(NewIdentifier("x"), tree.Int)
	left := NewEnvironment().Extend(x, tree.Int)
	right := NewEnvironment()

	merged := Union(left, right)
	assert.Equal(t, tree.Int, merged.Lookup(x))
}

func TestBottomLookupIsVoid(t *testing.T) {
	x := tree.NewVariableDecl(NewIdentifier("x"), tree.Int)
	assert.Equal(t, tree.Void, Bottom().Lookup(x))
	assert.True(t, Bottom().IsBottom())
}

func TestWithLifetimeSubsumesEnclosingLifetime(t *testing.T) {
	outer := NewIdentifier("outer")
	inner := NewIdentifier("inner")
	env := NewEnvironment().WithLifetime(outer).WithLifetime(inner, outer)

	assert.True(t, env.Subsumes(outer, inner))
	assert.True(t, env.Subsumes(inner, inner), "Subsumes is reflexive")
	assert.False(t, env.Subsumes(inner, outer), "the relation is not symmetric")
}
