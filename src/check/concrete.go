package check

import "github.com/VijayEluri/WhileyCompiler/tree"

// ConcreteTypeExtractor reduces a semantic term to a concrete type: a
// disjunction with no residual Intersection/Negation, suitable for writing
// back onto the AST as a type annotation (spec §4.4).
//
// Procedure: normalize via the strict Emptiness Oracle into a set of
// disjuncts, drop the ones that are empty, fold structurally-identical
// survivors, and rebuild as Union(...) — or the lone survivor, or Void if
// none remain. Void at an expression position signals an upstream type
// error (spec §7); CTE itself never reports a diagnostic for it, callers
// do.
type ConcreteTypeExtractor struct {
	EO *EmptinessOracle
}

func NewConcreteTypeExtractor(eo *EmptinessOracle) *ConcreteTypeExtractor {
	return &ConcreteTypeExtractor{EO: eo}
}

// Extract computes the concrete type of t under lt.
func (cte *ConcreteTypeExtractor) Extract(t tree.Type, lt LifetimeRelation) tree.Type {
	disjuncts := disjunctsOf(t)

	var kept []tree.Type
	for _, d := range disjuncts {
		if cte.EO.IsVoid(d, lt) {
			continue
		}
		kept = append(kept, stripIntersectionsAndNegations(d))
	}

	return tree.NewUnion(kept...)
}

// disjunctsOf distributes a Union at the top level into its children;
// anything else is treated as a single disjunct (the Intersection/Negation
// children are resolved later by stripIntersectionsAndNegations).
func disjunctsOf(t tree.Type) []tree.Type {
	if u, ok := t.(*tree.UnionType); ok {
		var out []tree.Type
		for _, c := range u.Children {
			out = append(out, disjunctsOf(c)...)
		}
		return out
	}
	return []tree.Type{t}
}

// stripIntersectionsAndNegations collapses a non-empty conjunction down to
// a concrete (AST-surface) shape: Atom/Nominal/Array/Record/Reference/
// Callable pass through; an Intersection of structural shapes of the same
// kind folds field-wise/element-wise (mirroring RWE's readable-combination
// rule, since a non-empty Intersection of two Array/Record/Reference/
// Callable shapes is itself exactly that shape's meet); a bare Negation
// with no accompanying positive structural shape has no concrete surface
// form and degrades to Any (it is only informative relative to some other
// positive conjunct, which CTE does not reconstruct).
func stripIntersectionsAndNegations(t tree.Type) tree.Type {
	switch t := t.(type) {
	case *tree.IntersectionType:
		acc := tree.Type(tree.Any)
		for _, c := range t.Children {
			if _, neg := c.(*tree.NegationType); neg {
				continue
			}
			acc = meetConcrete(acc, stripIntersectionsAndNegations(c))
		}
		return acc
	case *tree.NegationType:
		return tree.Any
	default:
		return t
	}
}

// meetConcrete folds two concrete shapes of matching kind; mismatched
// kinds have no concrete overlap representation (the emptiness pass above
// is what would have rejected that case as Void already) and fold to Void
// defensively.
func meetConcrete(a, b tree.Type) tree.Type {
	if tree.IsAnyAtom(a) {
		return b
	}
	if tree.IsAnyAtom(b) {
		return a
	}
	switch a := a.(type) {
	case *tree.ArrayType:
		if bb, ok := b.(*tree.ArrayType); ok {
			return tree.NewArrayType(meetConcrete(a.Elem, bb.Elem))
		}
	case *tree.ReferenceType:
		if bb, ok := b.(*tree.ReferenceType); ok {
			return tree.NewReferenceType(meetConcrete(a.Elem, bb.Elem), a.Lifetime)
		}
	case *tree.RecordType:
		if bb, ok := b.(*tree.RecordType); ok {
			rw := NewReadWriteExtractor()
			if merged := rw.fold(a, bb, ReadableRecord, false); merged != nil {
				return merged
			}
		}
	}
	if a.CanonicalKey() == b.CanonicalKey() {
		return a
	}
	return tree.NewIntersection(a, b)
}
