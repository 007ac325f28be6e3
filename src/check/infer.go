package check

import (
	. "github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/source"
	"github.com/VijayEluri/WhileyCompiler/tree"
)

// TypeInferenceOracle resolves a direct invocation's candidate set down to
// a single matching callable (spec §4.5).
type TypeInferenceOracle struct {
	SO *SubtypeOperator
}

func NewTypeInferenceOracle(so *SubtypeOperator) *TypeInferenceOracle {
	return &TypeInferenceOracle{SO: so}
}

// binding is a candidate that survived arity + lifetime-unification +
// argument-subtype filtering, carrying the lifetime substitution TIO
// derived for it.
type binding struct {
	candidate tree.Callable
	lifetimes Map[Identifier, Identifier]
	signature *tree.CallableType
}

// Resolve implements the three-step algorithm of spec §4.5: arity check,
// lifetime unification, then argument-subtype filtering (against the
// relaxed SO, per spec's wording), followed by most-specific selection.
// The winning candidate is recorded into link (its lifetime binding is not
// stored anywhere); on success Resolve returns
// its signature, on failure it reports AmbiguousCallable and returns nil.
func (tio *TypeInferenceOracle) Resolve(link *tree.Link[tree.Callable], argTypes []tree.Type, lt LifetimeRelation, span source.Span, sink *Sink) *tree.CallableType {
	var survivors []binding

	for _, cand := range link.Candidates {
		sig := cand.Signature()
		if len(sig.Params) != len(argTypes) {
			continue
		}

		lifetimes, ok := unifyLifetimes(sig, argTypes, lt)
		if !ok {
			continue
		}

		allSubtype := true
		for i, param := range sig.Params {
			bound := substituteLifetimes(param, lifetimes)
			if !tio.SO.IsSubtype(argTypes[i], bound, lt) {
				allSubtype = false
				break
			}
		}
		if !allSubtype {
			continue
		}

		survivors = append(survivors, binding{candidate: cand, lifetimes: lifetimes, signature: sig})
		InferPrintf("candidate %v survives arity+subtype filtering\n", sig.CanonicalKey())
	}

	winner := mostSpecific(survivors, tio.SO, lt)
	if winner == nil {
		sink.Report(AmbiguousCallable, span, "no unique matching callable among %d candidate(s)", len(link.Candidates))
		return nil
	}

	link.Resolve(winner.candidate)
	return winner.signature
}

// unifyLifetimes matches each declared `&a:T` parameter shape against its
// concrete argument's lifetime, binding a to the argument's lifetime
// (spec §4.5 step 2). Two occurrences of the same declared lifetime
// variable must bind to within-compatible concrete lifetimes.
func unifyLifetimes(sig *tree.CallableType, argTypes []tree.Type, lt LifetimeRelation) (Map[Identifier, Identifier], bool) {
	bindings := NewMap[Identifier, Identifier]()
	for i, param := range sig.Params {
		if !unifyLifetimesOne(param, argTypes[i], lt, bindings) {
			return nil, false
		}
	}
	return bindings, true
}

func unifyLifetimesOne(param, arg tree.Type, lt LifetimeRelation, bindings Map[Identifier, Identifier]) bool {
	pr, ok := param.(*tree.ReferenceType)
	if !ok {
		return true
	}
	ar, ok := arg.(*tree.ReferenceType)
	if !ok {
		return true // non-reference argument; SO's subtype check rejects it afterward
	}
	if pr.Lifetime != nil && ar.Lifetime != nil {
		if existing, bound := bindings.Get(*pr.Lifetime); bound {
			if existing != *ar.Lifetime && !lt.Subsumes(existing, *ar.Lifetime) && !lt.Subsumes(*ar.Lifetime, existing) {
				return false
			}
		} else {
			bindings[*pr.Lifetime] = *ar.Lifetime
		}
	}
	return unifyLifetimesOne(pr.Elem, ar.Elem, lt, bindings)
}

// substituteLifetimes rewrites a declared parameter shape's lifetime
// variables according to bindings, producing the concrete bound type
// argument i is checked against.
func substituteLifetimes(t tree.Type, bindings Map[Identifier, Identifier]) tree.Type {
	switch t := t.(type) {
	case *tree.ReferenceType:
		elem := substituteLifetimes(t.Elem, bindings)
		lifetime := t.Lifetime
		if lifetime != nil {
			if bound, ok := bindings.Get(*lifetime); ok {
				lifetime = &bound
			}
		}
		return tree.NewReferenceType(elem, lifetime)
	case *tree.ArrayType:
		return tree.NewArrayType(substituteLifetimes(t.Elem, bindings))
	default:
		return t
	}
}

// mostSpecific implements spec §4.5's tie-break: prefer the survivor whose
// parameter tuple is a subtype of every other survivor's. If none is
// uniquely most specific (including the single-survivor case, trivially
// true), the lone winner (or nil on ambiguity) is returned.
func mostSpecific(survivors []binding, so *SubtypeOperator, lt LifetimeRelation) *binding {
	if len(survivors) == 0 {
		return nil
	}
	if len(survivors) == 1 {
		return &survivors[0]
	}

	for i := range survivors {
		isMostSpecific := true
		for j := range survivors {
			if i == j {
				continue
			}
			if !paramsSubtype(survivors[i].signature, survivors[j].signature, so, lt) {
				isMostSpecific = false
				break
			}
		}
		if isMostSpecific {
			return &survivors[i]
		}
	}
	return nil
}

func paramsSubtype(a, b *tree.CallableType, so *SubtypeOperator, lt LifetimeRelation) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !so.IsSubtype(a.Params[i], b.Params[i], lt) {
			return false
		}
	}
	return true
}
