package check

import (
	"sort"
	"sync"

	. "github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/tree"
)

// LifetimeRelation is the within-relation consulted by array/reference
// emptiness and by TIO's lifetime unification (spec §4.1 "References").
// Environment implements it directly.
type LifetimeRelation interface {
	// Subsumes reports whether inner is within outer (outer encloses
	// inner), reflexively.
	Subsumes(outer, inner Identifier) bool
}

// EmptinessOracle decides ⊥(T) under a LifetimeRelation (spec §4.1). Two
// instances exist, sharing the same algorithm but differing in how they
// treat a Nominal with a nontrivial invariant: Strict unfolds the
// invariant's refinement; Relaxed treats it as inhabited.
type EmptinessOracle struct {
	Strict bool

	memoMu sync.Mutex
	memo   map[string]bool
}

func NewEmptinessOracle(strict bool) *EmptinessOracle {
	return &EmptinessOracle{Strict: strict, memo: make(map[string]bool)}
}

// IsVoid implements spec §4.1's algorithm: normalize to a disjunction of
// conjunctions (by distributing unions outward), and test each conjunction
// for the listed contradiction patterns.
func (o *EmptinessOracle) IsVoid(t tree.Type, lt LifetimeRelation) bool {
	return o.isVoidMemo(t, lt, NewSet[string]())
}

func (o *EmptinessOracle) isVoidMemo(t tree.Type, lt LifetimeRelation, openNominals Set[string]) bool {
	key := t.CanonicalKey() + "|" + openNominalsKey(openNominals)

	o.memoMu.Lock()
	if v, ok := o.memo[key]; ok {
		o.memoMu.Unlock()
		return v
	}
	o.memoMu.Unlock()

	result := o.isVoidUncached(t, lt, openNominals)

	o.memoMu.Lock()
	o.memo[key] = result
	o.memoMu.Unlock()

	SubtypePrintf("isVoid(strict=%v, %v) = %v\n", o.Strict, t.CanonicalKey(), result)
	return result
}

func openNominalsKey(s Set[string]) string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += k + ";"
	}
	return out
}

// isVoidUncached dispatches on the top-level constructor, distributing
// Union outward first (T is empty iff every disjunct is empty, spec §4.1).
func (o *EmptinessOracle) isVoidUncached(t tree.Type, lt LifetimeRelation, open Set[string]) bool {
	switch t := t.(type) {
	case *tree.UnionType:
		for _, child := range t.Children {
			if !o.isVoidMemo(child, lt, open) {
				return false
			}
		}
		return true
	default:
		// A single conjunction (possibly the whole term, if it has no
		// top-level Union): test it as a conjunction of literals.
		return o.isVoidConjunction([]literal{{positive: true, t: t}}, lt, open)
	}
}

// literal is a possibly-negated occurrence inside a conjunction being
// tested for contradictions.
type literal struct {
	positive bool
	t        tree.Type
}

// isVoidConjunction flattens Intersection/Negation into a flat list of
// literals (a positive Intersection contributes its children positively, a
// negated one becomes the Union of its negated children, a Negation flips
// the sign of what it wraps), splits Unions, and then looks for the
// contradiction patterns spec §4.1 lists.
func (o *EmptinessOracle) isVoidConjunction(lits []literal, lt LifetimeRelation, open Set[string]) bool {
	flat := flattenLiterals(lits)

	// Distribute Unions outward: a negated Union is the conjunction of its
	// negated children; a positive Union is empty only if each child is.
	for i, l := range flat {
		u, ok := l.t.(*tree.UnionType)
		if !ok {
			continue
		}
		rest := append(append([]literal{}, flat[:i]...), flat[i+1:]...)
		if !l.positive {
			for _, c := range u.Children {
				rest = append(rest, literal{positive: false, t: c})
			}
			return o.isVoidConjunction(rest, lt, open)
		}
		for _, c := range u.Children {
			if !o.isVoidConjunction(append(rest[:len(rest):len(rest)], literal{positive: true, t: c}), lt, open) {
				return false
			}
		}
		return true
	}

	var positives, negatives []literal
	for _, l := range flat {
		if l.positive {
			positives = append(positives, l)
		} else {
			negatives = append(negatives, l)
		}
	}

	for _, p := range positives {
		if tree.IsVoidAtom(p.t) {
			return true // Void positively
		}
	}
	for _, n := range negatives {
		if tree.IsAnyAtom(n.t) {
			return true // Any negatively
		}
	}

	// Two positive atomic kinds that cannot overlap.
	var posAtomKind *tree.AtomKind
	for _, p := range positives {
		if a, ok := p.t.(*tree.AtomType); ok {
			if posAtomKind != nil && *posAtomKind != a.Kind {
				return true
			}
			k := a.Kind
			posAtomKind = &k
		}
	}

	// Structural descent per top-level kind present among the positives.
	if empty, decided := o.structuralDescent(positives, negatives, lt, open); decided {
		return empty
	}

	// A positive and negative occurrence of a contradictory pair after
	// structural descent (same canonical key, opposite sign).
	for _, p := range positives {
		for _, n := range negatives {
			if p.t.CanonicalKey() == n.t.CanonicalKey() {
				return true
			}
		}
	}

	return false
}

func flattenLiterals(lits []literal) []literal {
	var out []literal
	for _, l := range lits {
		switch t := l.t.(type) {
		case *tree.IntersectionType:
			if !l.positive {
				// ¬(A ∧ B) is ¬A ∨ ¬B: one positive Union literal, which
				// isVoidConjunction then splits.
				negs := make([]tree.Type, len(t.Children))
				for i, c := range t.Children {
					negs[i] = tree.NewNegation(c)
				}
				out = append(out, literal{positive: true, t: tree.NewUnion(negs...)})
				continue
			}
			for _, c := range t.Children {
				out = append(out, flattenLiterals([]literal{{positive: l.positive, t: c}})...)
			}
		case *tree.NegationType:
			out = append(out, flattenLiterals([]literal{{positive: !l.positive, t: t.Child}})...)
		default:
			out = append(out, l)
		}
	}
	return out
}

// structuralDescent implements the per-kind rules of spec §4.1 (arrays,
// records, references, callables, nominals). `decided` is false when none
// of the positives match a structural kind this function handles, meaning
// the conjunction is not (yet) known to be empty by structural means.
func (o *EmptinessOracle) structuralDescent(positives, negatives []literal, lt LifetimeRelation, open Set[string]) (empty bool, decided bool) {
	for _, p := range positives {
		switch pt := p.t.(type) {
		case *tree.ArrayType:
			return o.descentArray(pt, positives, negatives, lt, open), true
		case *tree.RecordType:
			return o.descentRecord(pt, positives, negatives, lt, open), true
		case *tree.ReferenceType:
			return o.descentReference(pt, positives, negatives, lt, open), true
		case *tree.CallableType:
			return o.descentCallable(pt, positives, negatives, lt, open), true
		case *tree.NominalType:
			return o.descentNominal(pt, positives, negatives, lt, open), true
		}
	}
	return false, false
}

// descentArray: "Array(E1) ∧ Array(E2) reduces to Array(E1 ∧ E2);
// Array(E1) ∧ ¬Array(E2) is empty iff E1 <: E2; an array intersected with a
// non-array kind is empty."
func (o *EmptinessOracle) descentArray(first *tree.ArrayType, positives, negatives []literal, lt LifetimeRelation, open Set[string]) bool {
	elem := first.Elem
	for _, p := range positives {
		a, ok := p.t.(*tree.ArrayType)
		if !ok {
			if !isAnyOrArrayCompatible(p.t) {
				return true // array ∧ non-array positive kind
			}
			continue
		}
		elem = tree.NewIntersection(elem, a.Elem)
	}
	for _, n := range negatives {
		a, ok := n.t.(*tree.ArrayType)
		if !ok {
			continue
		}
		if isSubtypeVia(o, elem, a.Elem, lt, open) {
			return true
		}
	}
	return o.isVoidMemo(elem, lt, open)
}

func isAnyOrArrayCompatible(t tree.Type) bool {
	// Any positive literal other than another Array contradicts an Array,
	// except Any itself (which carries no information).
	return tree.IsAnyAtom(t)
}

func (o *EmptinessOracle) descentRecord(first *tree.RecordType, positives, negatives []literal, lt LifetimeRelation, open Set[string]) bool {
	open_ := first.Open
	fields := first.Fields.Clone()
	for _, p := range positives {
		r, ok := p.t.(*tree.RecordType)
		if !ok {
			if !tree.IsAnyAtom(p.t) {
				return true
			}
			continue
		}
		for name, ty := range r.Fields {
			if existing, ok := fields.Get(name); ok {
				fields[name] = tree.NewIntersection(existing, ty)
			} else if !open_ {
				// field present in r but absent from a closed first: only
				// empty if first itself is closed and doesn't declare it.
				fields[name] = ty
			} else {
				fields[name] = ty
			}
		}
		// field present in one and absent in a closed other is empty.
		if !open_ {
			for name := range r.Fields {
				if !first.HasField(name) {
					return true
				}
			}
		}
		if !r.Open {
			for name := range first.Fields {
				if !r.HasField(name) {
					return true
				}
			}
		}
		open_ = open_ && r.Open
	}
	for name, ty := range fields {
		if o.isVoidMemo(ty, lt, open) {
			_ = name
			return true
		}
	}
	for _, n := range negatives {
		r, ok := n.t.(*tree.RecordType)
		if !ok {
			continue
		}
		if recordSubtypeVia(o, &tree.RecordType{Open: open_, Fields: fields}, r, lt, open) {
			return true
		}
	}
	return false
}

func (o *EmptinessOracle) descentReference(first *tree.ReferenceType, positives, negatives []literal, lt LifetimeRelation, open Set[string]) bool {
	elem := first.Elem
	for _, p := range positives {
		r, ok := p.t.(*tree.ReferenceType)
		if !ok {
			if !tree.IsAnyAtom(p.t) {
				return true
			}
			continue
		}
		elem = tree.NewIntersection(elem, r.Elem)
		if !lifetimesCompatible(first.Lifetime, r.Lifetime, lt) {
			return true
		}
	}
	for _, n := range negatives {
		r, ok := n.t.(*tree.ReferenceType)
		if !ok {
			continue
		}
		if isSubtypeVia(o, elem, r.Elem, lt, open) && lifetimesCompatible(first.Lifetime, r.Lifetime, lt) {
			return true
		}
	}
	return o.isVoidMemo(elem, lt, open)
}

func lifetimesCompatible(a, b *Identifier, lt LifetimeRelation) bool {
	if a == nil || b == nil {
		return true // unannotated lifetime is compatible with anything
	}
	return *a == *b || lt.Subsumes(*a, *b) || lt.Subsumes(*b, *a)
}

// descentCallable: two positive callables contradict only when their
// parameter or return counts differ. Parameter and return types, function
// vs method kinds and negated callables are not examined, so every other
// callable conjunction is treated as inhabited.
func (o *EmptinessOracle) descentCallable(first *tree.CallableType, positives, negatives []literal, lt LifetimeRelation, open Set[string]) bool {
	for _, p := range positives {
		c, ok := p.t.(*tree.CallableType)
		if !ok {
			if !tree.IsAnyAtom(p.t) {
				return true
			}
			continue
		}
		if len(c.Params) != len(first.Params) || len(c.Returns) != len(first.Returns) {
			return true
		}
	}
	_ = negatives
	return false
}

func (o *EmptinessOracle) descentNominal(first *tree.NominalType, positives, negatives []literal, lt LifetimeRelation, open Set[string]) bool {
	key := first.CanonicalKey()
	if open.Contains(key) {
		// Already unfolding this nominal on the current path: memoized to
		// break cycles (spec §4.1 "Termination relies on a memo table
		// keyed by the set of open nominals on the current path").
		return false
	}
	decl := first.Decl.MustResolved()

	if decl.HasInvariant() && !o.Strict {
		// Relaxed: a nominal with a nontrivial invariant is treated as
		// potentially inhabited rather than unfolding the invariant.
		return false
	}

	nextOpen := open.Clone()
	nextOpen.Add(key)

	body := decl.Body
	var rest []literal
	for _, p := range positives {
		if p.t.CanonicalKey() != key {
			rest = append(rest, p)
		}
	}
	for _, n := range negatives {
		rest = append(rest, literal{positive: false, t: n.t})
	}
	rest = append(rest, literal{positive: true, t: body})

	return o.isVoidConjunction(rest, lt, nextOpen)
}

func isSubtypeVia(o *EmptinessOracle, sub, super tree.Type, lt LifetimeRelation, open Set[string]) bool {
	return o.isVoidMemo(tree.NewDifference(sub, super), lt, open)
}

func recordSubtypeVia(o *EmptinessOracle, sub, super *tree.RecordType, lt LifetimeRelation, open Set[string]) bool {
	return isSubtypeVia(o, sub, super, lt, open)
}
