package check

import (
	"testing"

	. "github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReadableArrayDirect(t *testing.T) {
	rw := NewReadWriteExtractor()
	arr := tree.NewArrayType(tree.Int)
	extracted := rw.Extract(arr, ReadableArray)
	assert.Same(t, arr, extracted)
}

func TestExtractReadableArrayUnionCombinesByUnion(t *testing.T) {
	rw := NewReadWriteExtractor()
	u := tree.NewUnion(tree.NewArrayType(tree.Int), tree.NewArrayType(tree.Bool))
	extracted := rw.Extract(u, ReadableArray)
	arr, ok := extracted.(*tree.ArrayType)
	require.True(t, ok)
	assert.Equal(t, tree.NewUnion(tree.Int, tree.Bool), arr.Elem)
}

func TestExtractReadableArrayFailsWhenOneBranchIsNotAnArray(t *testing.T) {
	rw := NewReadWriteExtractor()
	u := tree.NewUnion(tree.NewArrayType(tree.Int), tree.Bool)
	assert.Nil(t, rw.Extract(u, ReadableArray))
}

// TestExtractWriteableRecordIntersectionDropsFieldsAbsentFromEitherBranch
// exercises the combination rule for a Writeable projection over an
// Intersection-typed value (spec §4.3 duality: Intersection+Write mirrors
// Union+Read): a field declared by only one of two closed record shapes
// cannot be safely written through either shape, so it is dropped from the
// combined projection rather than failing the whole extraction.
func TestExtractWriteableRecordIntersectionDropsFieldsAbsentFromEitherBranch(t *testing.T) {
	rw := NewReadWriteExtractor()
	n := NewIdentifier("n")
	m := NewIdentifier("m")
	recA := tree.NewRecordType(false, []Identifier{n}, oneField(n, tree.Int))
	recB := tree.NewRecordType(false, []Identifier{m}, oneField(m, tree.Int))

	inter := tree.NewIntersection(recA, recB)
	extracted := rw.Extract(inter, WriteableRecord)
	rec, ok := extracted.(*tree.RecordType)
	require.True(t, ok)
	assert.False(t, rec.HasField(n))
	assert.False(t, rec.HasField(m))
}

// TestExtractWriteableRecordIntersectionKeepsSharedField exercises the same
// rule for a field both branches declare: it survives, combined via union
// of the two branches' field types (the Intersection/Write dual of the
// Union/Read rule already exercised for arrays above).
func TestExtractWriteableRecordIntersectionKeepsSharedField(t *testing.T) {
	rw := NewReadWriteExtractor()
	n := NewIdentifier("n")
	recA := tree.NewRecordType(false, []Identifier{n}, oneField(n, tree.Int))
	recB := tree.NewRecordType(false, []Identifier{n}, oneField(n, tree.Bool))

	inter := tree.NewIntersection(recA, recB)
	extracted := rw.Extract(inter, WriteableRecord)
	rec, ok := extracted.(*tree.RecordType)
	require.True(t, ok)
	require.True(t, rec.HasField(n))
	ft, _ := rec.Fields.Get(n)
	assert.Equal(t, tree.NewUnion(tree.Int, tree.Bool), ft)
}

func TestExtractReadableReferenceDirect(t *testing.T) {
	rw := NewReadWriteExtractor()
	ref := tree.NewReferenceType(tree.Int, nil)
	extracted := rw.Extract(ref, ReadableReference)
	assert.Same(t, ref, extracted)
}

func TestExtractReadableCallableRejectsArityMismatch(t *testing.T) {
	rw := NewReadWriteExtractor()
	one := tree.NewCallableType(tree.CallableFunction, []tree.Type{tree.Int}, []tree.Type{tree.Bool}, nil)
	two := tree.NewCallableType(tree.CallableFunction, []tree.Type{tree.Int, tree.Int}, []tree.Type{tree.Bool}, nil)
	u := tree.NewUnion(one, two)
	assert.Nil(t, rw.Extract(u, ReadableCallable))
}
