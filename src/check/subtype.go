package check

import "github.com/VijayEluri/WhileyCompiler/tree"

// SubtypeOperator reduces S <: T to isVoid(S ∧ ¬T) (spec §4.2), delegating
// to an EmptinessOracle. The checker keeps one strict and one relaxed
// instance around (spec §4.1's two flavours), both sharing this reduction.
type SubtypeOperator struct {
	EO *EmptinessOracle
}

func NewSubtypeOperator(eo *EmptinessOracle) *SubtypeOperator {
	return &SubtypeOperator{EO: eo}
}

// IsSubtype decides S <: T under lt (spec §4.2).
func (so *SubtypeOperator) IsSubtype(sub, super tree.Type, lt LifetimeRelation) bool {
	result := so.EO.IsVoid(tree.NewDifference(sub, super), lt)
	SubtypePrintf("%v <: %v = %v\n", sub.CanonicalKey(), super.CanonicalKey(), result)
	return result
}

// IsEquivalent decides S <: T <: S, used by the checker when two types must
// coincide exactly (e.g. invariant checking against a declared type with no
// further subsumption intended).
func (so *SubtypeOperator) IsEquivalent(a, b tree.Type, lt LifetimeRelation) bool {
	return so.IsSubtype(a, b, lt) && so.IsSubtype(b, a, lt)
}
