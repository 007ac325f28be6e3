package check

import (
	. "github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/tree"
)

// Environment is ENV (spec §3/§4.6): a copy-on-write mapping from variable
// declaration to its currently-known (flow-refined) type, plus the
// within-relation over declared lifetimes, plus the BOTTOM sentinel marking
// unreachable code.
type Environment struct {
	known   Map[*tree.VariableDecl, tree.Type]
	within  Map[Identifier, Set[Identifier]] // within[inner] = {outers that enclose inner, reflexively}
	bottom  bool
}

// bottomSentinel is the unique BOTTOM value; every Environment compares
// against it by reference via IsBottom, never by deep equality.
var bottomSentinel = &Environment{bottom: true}

func Bottom() *Environment { return bottomSentinel }

func NewEnvironment() *Environment {
	return &Environment{
		known:  NewMap[*tree.VariableDecl, tree.Type](),
		within: NewMap[Identifier, Set[Identifier]](),
	}
}

func (e *Environment) IsBottom() bool { return e == bottomSentinel || e.bottom }

// Lookup returns the known (flow-refined) type for decl, falling back to
// its DeclaredType when no refinement is on record (spec §3: "absence of an
// entry means the declared type applies").
func (e *Environment) Lookup(decl *tree.VariableDecl) tree.Type {
	if e.IsBottom() {
		return tree.Void // unreachable code: every access is vacuously well-typed at Void
	}
	if t, ok := e.known.Get(decl); ok {
		return t
	}
	return decl.DeclaredType
}

// Refine returns a new Environment identical to e except decl now maps to
// t, restricted to never escape decl's declared type (spec §4.6/P2: "the
// refined type is always a subtype of the declared type, clamping at the
// declared type if the caller proposes something broader"). The clamp is
// Intersection(t, decl.DeclaredType): by construction its denotation can
// never exceed DeclaredType's, regardless of whether t itself does. The
// stored type is that Intersection term, not t itself, even when t <:
// DeclaredType already holds (only a t identical to DeclaredType dedups
// back to t); it is semantically equivalent to t in that case, and for
// callers that didn't check (e.g. after reporting a SubtypeError) its
// denotation is correctly narrowed, down to Void if t and DeclaredType
// don't overlap at all.
func (e *Environment) Refine(decl *tree.VariableDecl, t tree.Type) *Environment {
	if e.IsBottom() {
		return e
	}
	next := e.clone()
	next.known[decl] = clampToDeclared(t, decl.DeclaredType)
	EnvPrintf("refine %v : %v\n", decl.Name, next.known[decl].CanonicalKey())
	return next
}

// clampToDeclared intersects t with declared, unless declared is absent
// (a variable bound with no a priori type, e.g. a quantifier's iteration
// variable — nothing to clamp against).
func clampToDeclared(t, declared tree.Type) tree.Type {
	if declared == nil {
		return t
	}
	return tree.NewIntersection(t, declared)
}

// Extend introduces a newly-declared variable, initially known at t (a
// local variable declaration passes its declared type, with or without an
// initialiser),
// clamped the same way Refine clamps (P2 applies from the declaration
// site onward, not just at subsequent assignments).
func (e *Environment) Extend(decl *tree.VariableDecl, t tree.Type) *Environment {
	if e.IsBottom() {
		return e
	}
	next := e.clone()
	next.known[decl] = clampToDeclared(t, decl.DeclaredType)
	return next
}

// WithLifetime extends the within-relation: name now sits within every
// lifetime currently enclosing the scope introducing it, plus itself
// reflexively (spec §4.7, NamedBlockStmt / FunctionOrMethodScope entry).
func (e *Environment) WithLifetime(name Identifier, enclosing ...Identifier) *Environment {
	if e.IsBottom() {
		return e
	}
	next := e.clone()
	outers := NewSet[Identifier]()
	outers.Add(name)
	for _, o := range enclosing {
		outers.Add(o)
		if existing, ok := next.within.Get(o); ok {
			for x := range existing {
				outers.Add(x)
			}
		}
	}
	next.within[name] = outers
	return next
}

// Subsumes implements LifetimeRelation: outer encloses inner, reflexively.
func (e *Environment) Subsumes(outer, inner Identifier) bool {
	if outer == inner {
		return true
	}
	if e.IsBottom() {
		return true
	}
	outers, ok := e.within.Get(inner)
	if !ok {
		return false
	}
	return outers.Contains(outer)
}

func (e *Environment) clone() *Environment {
	return &Environment{
		known:  e.known.Clone(),
		within: e.within.Clone(),
	}
}

// Union implements ENV's merge-at-control-flow-join operator (spec §4.6,
// property P4): BOTTOM is the identity element; a variable known on both
// sides merges to the union of its two known types; a variable known on
// only one side passes through unchanged (the other side is unreachable
// for that variable, so its absence carries no information).
func Union(a, b *Environment) *Environment {
	if a.IsBottom() {
		return b
	}
	if b.IsBottom() {
		return a
	}
	result := NewEnvironment()
	for decl, t := range a.known {
		if other, ok := b.known.Get(decl); ok {
			result.known[decl] = tree.NewUnion(t, other)
		} else {
			result.known[decl] = t
		}
	}
	for decl, t := range b.known {
		if _, ok := result.known.Get(decl); !ok {
			result.known[decl] = t
		}
	}
	result.within = a.within.Clone()
	for name, outers := range b.within {
		if existing, ok := result.within.Get(name); ok {
			merged := existing.Clone()
			for o := range outers {
				merged.Add(o)
			}
			result.within[name] = merged
		} else {
			result.within[name] = outers.Clone()
		}
	}
	return result
}
