package check

import (
	"testing"

	. "github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/source"
	"github.com/VijayEluri/WhileyCompiler/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(name string, params ...tree.Type) *tree.FunctionOrMethodDecl {
	paramDecls := make([]*tree.VariableDecl, len(params))
	for i, p := range params {
		paramDecls[i] = tree.NewVariableDecl(NewIdentifier("p"), p)
	}
	return &tree.FunctionOrMethodDecl{
		Kind:    tree.CallableFunction,
		Name:    NewIdentifier(name),
		Params:  paramDecls,
		Returns: []*tree.VariableDecl{tree.NewVariableDecl(NewIdentifier("r"), tree.Int)},
	}
}

func newTIO() *TypeInferenceOracle {
	return NewTypeInferenceOracle(NewSubtypeOperator(NewEmptinessOracle(false)))
}

// TestResolveSelectsSoleArityMatchingCandidate exercises step 1 of spec
// §4.5: a candidate whose parameter count doesn't match the call site is
// dropped before any type reasoning runs.
func TestResolveSelectsSoleArityMatchingCandidate(t *testing.T) {
	one := candidate("f", tree.Int)
	two := candidate("f", tree.Int, tree.Int)
	link := tree.NewLink[tree.Callable](one, two)

	tio := newTIO()
	sink := NewSink()
	sig := tio.Resolve(link, []tree.Type{tree.Int}, noLifetimes{}, source.NoSpan, sink)

	require.True(t, sink.OK())
	require.NotNil(t, sig)
	assert.Same(t, one, link.MustResolved())
}

// TestResolveFiltersBySubtype: a candidate whose declared parameter type
// doesn't accept the argument's type is excluded by step 3.
func TestResolveFiltersBySubtype(t *testing.T) {
	acceptsInt := candidate("f", tree.Int)
	acceptsBool := candidate("f", tree.Bool)
	link := tree.NewLink[tree.Callable](acceptsInt, acceptsBool)

	tio := newTIO()
	sink := NewSink()
	tio.Resolve(link, []tree.Type{tree.Int}, noLifetimes{}, source.NoSpan, sink)

	require.True(t, sink.OK())
	assert.Same(t, acceptsInt, link.MustResolved())
}

// TestResolveReportsAmbiguousWhenNoCandidateSurvives: every candidate is
// eliminated (here by a parameter-type mismatch), so Resolve reports
// AmbiguousCallable and resolves nothing.
func TestResolveReportsAmbiguousWhenNoCandidateSurvives(t *testing.T) {
	acceptsInt := candidate("f", tree.Int)
	link := tree.NewLink[tree.Callable](acceptsInt)

	tio := newTIO()
	sink := NewSink()
	sig := tio.Resolve(link, []tree.Type{tree.Bool}, noLifetimes{}, source.NoSpan, sink)

	require.False(t, sink.OK())
	assert.Nil(t, sig)
	require.Len(t, sink.Diagnostics(), 1)
	assert.Equal(t, AmbiguousCallable, sink.Diagnostics()[0].Code)
	assert.False(t, link.IsResolved())
}

// TestResolvePicksMostSpecificAmongOverlapping exercises spec §4.5's
// tie-break: both candidates accept an int argument, but the one declared
// with the narrower parameter type (int over any) wins.
func TestResolvePicksMostSpecificAmongOverlapping(t *testing.T) {
	wide := candidate("f", tree.Any)
	narrow := candidate("f", tree.Int)
	link := tree.NewLink[tree.Callable](wide, narrow)

	tio := newTIO()
	sink := NewSink()
	tio.Resolve(link, []tree.Type{tree.Int}, noLifetimes{}, source.NoSpan, sink)

	require.True(t, sink.OK())
	assert.Same(t, narrow, link.MustResolved())
}

// TestResolveReportsAmbiguousWhenNeitherCandidateIsMostSpecific: both
// candidates survive filtering but their parameter types are incomparable
// (neither is a subtype of the other), so no unique winner exists.
func TestResolveReportsAmbiguousWhenNeitherCandidateIsMostSpecific(t *testing.T) {
	a := candidate("f", tree.NewUnion(tree.Int, tree.Bool))
	b := candidate("f", tree.NewUnion(tree.Int, tree.Byte))
	link := tree.NewLink[tree.Callable](a, b)

	tio := newTIO()
	sink := NewSink()
	sig := tio.Resolve(link, []tree.Type{tree.Int}, noLifetimes{}, source.NoSpan, sink)

	require.False(t, sink.OK())
	assert.Nil(t, sig)
	assert.Equal(t, AmbiguousCallable, sink.Diagnostics()[0].Code)
}
