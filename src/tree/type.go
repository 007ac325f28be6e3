package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/VijayEluri/WhileyCompiler/algos"
	. "github.com/VijayEluri/WhileyCompiler/common"
)

// Type is a SemanticType node (spec §3): the single term algebra shared by
// both the AST-visible declared-type surface and the checker's internal
// subtyping machinery, the way the teacher's tree.Type plays both roles.
type Type interface {
	Node
	_Type()
	// CanonicalKey is a deterministic string unique to this term's
	// structure, used both for display and as the hash-consing key.
	CanonicalKey() string
}

type TypeBase struct {
	NodeBase
}

func (*TypeBase) _Type() {}

// ---- Atoms -----------------------------------------------------------

type AtomKind int

const (
	AtomVoid AtomKind = iota
	AtomAny
	AtomNull
	AtomBool
	AtomByte
	AtomInt
)

func (k AtomKind) String() string {
	switch k {
	case AtomVoid:
		return "void"
	case AtomAny:
		return "any"
	case AtomNull:
		return "null"
	case AtomBool:
		return "bool"
	case AtomByte:
		return "byte"
	case AtomInt:
		return "int"
	default:
		panic("unreachable: unknown AtomKind")
	}
}

type AtomType struct {
	TypeBase
	Kind AtomKind
}

func (t *AtomType) CanonicalKey() string { return t.Kind.String() }

var (
	Void = intern(&AtomType{Kind: AtomVoid})
	Any  = intern(&AtomType{Kind: AtomAny})
	Null = intern(&AtomType{Kind: AtomNull})
	Bool = intern(&AtomType{Kind: AtomBool})
	Byte = intern(&AtomType{Kind: AtomByte})
	Int  = intern(&AtomType{Kind: AtomInt})
)

// IsVoidAtom/IsAnyAtom are used pervasively by the algebra constructors
// below (Void absorbs/Any is identity, per spec §3 invariants).
func IsVoidAtom(t Type) bool {
	a, ok := t.(*AtomType)
	return ok && a.Kind == AtomVoid
}

func IsAnyAtom(t Type) bool {
	a, ok := t.(*AtomType)
	return ok && a.Kind == AtomAny
}

// ---- Nominal -----------------------------------------------------------

// NominalType is a qualified name linked to a declared type (spec §3). The
// Decl link is resolved by the (out-of-scope) name resolver before the
// checker ever sees it; an unresolved link is an internal failure.
type NominalType struct {
	TypeBase
	Import ImportPath
	Name   Identifier
	Decl   *Link[*TypeDecl]
}

func (t *NominalType) CanonicalKey() string {
	if t.Import == "" {
		return "N:" + t.Name.Value
	}
	return "N:" + string(t.Import) + "." + t.Name.Value
}

// NewNominalType builds a NominalType whose link is already resolved to
// decl. Nominal occurrences produced by the (out-of-scope) name resolver
// arrive pre-resolved the same way; an unresolved link reaching the
// checker is an internal failure (spec §3).
func NewNominalType(name Identifier, decl *TypeDecl) *NominalType {
	link := NewLink(decl)
	link.Resolve(decl)
	return &NominalType{Name: name, Decl: link}
}

// ---- Array / Reference ---------------------------------------------------

type ArrayType struct {
	TypeBase
	Elem Type
}

func (t *ArrayType) CanonicalKey() string {
	return "[]" + t.Elem.CanonicalKey()
}

func NewArrayType(elem Type) *ArrayType {
	return intern(&ArrayType{Elem: elem}).(*ArrayType)
}

type ReferenceType struct {
	TypeBase
	Elem     Type
	Lifetime *Identifier // nil means unannotated ("static")
}

func (t *ReferenceType) CanonicalKey() string {
	lt := "*"
	if t.Lifetime != nil {
		lt = t.Lifetime.Value
	}
	return "&" + lt + ":" + t.Elem.CanonicalKey()
}

func NewReferenceType(elem Type, lifetime *Identifier) *ReferenceType {
	return intern(&ReferenceType{Elem: elem, Lifetime: lifetime}).(*ReferenceType)
}

// ---- Record --------------------------------------------------------------

// RecordType holds its fields as an ordered mapping (spec §3): Order
// preserves declaration order for initializer display, Fields is the
// lookup table. Subtyping and emptiness treat Fields as an unordered finite
// map (spec §9 "Record ordering"); only CanonicalKey sorts it, so two
// records differing only in declared order intern to the same object.
type RecordType struct {
	TypeBase
	Open   bool
	Order  []Identifier
	Fields Map[Identifier, Type]
}

func NewRecordType(open bool, order []Identifier, fields Map[Identifier, Type]) *RecordType {
	return intern(&RecordType{Open: open, Order: order, Fields: fields}).(*RecordType)
}

func (t *RecordType) CanonicalKey() string {
	names := make([]string, 0, len(t.Fields))
	for n := range t.Fields {
		names = append(names, n.Value)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteByte('{')
	if t.Open {
		b.WriteString("...,")
	}
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte(':')
		b.WriteString(t.Fields[Identifier{Value: n}].CanonicalKey())
		b.WriteByte(',')
	}
	b.WriteByte('}')
	return b.String()
}

func (t *RecordType) HasField(name Identifier) bool {
	return t.Fields.Contains(name)
}

// ---- Callable -------------------------------------------------------------

type CallableKind int

const (
	CallableFunction CallableKind = iota
	CallableMethod
)

func (k CallableKind) String() string {
	if k == CallableMethod {
		return "method"
	}
	return "function"
}

// Meet implements spec §4.1's callable rule: "function vs method kinds meet
// as method."
func (k CallableKind) Meet(other CallableKind) CallableKind {
	if k == CallableMethod || other == CallableMethod {
		return CallableMethod
	}
	return CallableFunction
}

type CallableType struct {
	TypeBase
	Kind      CallableKind
	Params    []Type
	Returns   []Type
	Lifetimes []Identifier // captured/declared lifetimes
}

func NewCallableType(kind CallableKind, params, returns []Type, lifetimes []Identifier) *CallableType {
	return intern(&CallableType{Kind: kind, Params: params, Returns: returns, Lifetimes: lifetimes}).(*CallableType)
}

func (t *CallableType) CanonicalKey() string {
	var b strings.Builder
	b.WriteString(t.Kind.String())
	b.WriteByte('(')
	for i, p := range t.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.CanonicalKey())
	}
	b.WriteString(")->(")
	for i, r := range t.Returns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(r.CanonicalKey())
	}
	b.WriteByte(')')
	return b.String()
}

// ---- Union / Intersection / Negation --------------------------------------

type UnionType struct {
	TypeBase
	Children []Type // flat, deduplicated, deterministically ordered
}

func (t *UnionType) CanonicalKey() string {
	return joinKeys("(", "|", ")", t.Children)
}

type IntersectionType struct {
	TypeBase
	Children []Type
}

func (t *IntersectionType) CanonicalKey() string {
	return joinKeys("(", "&", ")", t.Children)
}

type NegationType struct {
	TypeBase
	Child Type
}

func (t *NegationType) CanonicalKey() string {
	return "!" + t.Child.CanonicalKey()
}

func joinKeys(open, sep, close_ string, ts []Type) string {
	keys := make([]string, len(ts))
	for i, t := range ts {
		keys[i] = t.CanonicalKey()
	}
	sort.Strings(keys)
	return open + strings.Join(keys, sep) + close_
}

// ---- Algebra constructors --------------------------------------------------
//
// These implement spec §3's invariants: Void absorbs in intersection and is
// identity in union; Any is the dual; unions/intersections are flat and
// idempotent; Negation(Negation(t)) = t.

// NewUnion flattens nested unions, deduplicates structurally-equal children
// (via algos.Uniq over interned CanonicalKeys), drops Void (identity), and
// collapses to Any if any child is Any.
func NewUnion(ts ...Type) Type {
	var flat []Type
	for _, t := range ts {
		if t == nil {
			continue
		}
		switch t := t.(type) {
		case *UnionType:
			flat = append(flat, t.Children...)
		default:
			flat = append(flat, t)
		}
	}
	flat = dedupTypes(flat)

	var kept []Type
	for _, t := range flat {
		if IsAnyAtom(t) {
			return Any
		}
		if IsVoidAtom(t) {
			continue
		}
		kept = append(kept, t)
	}
	switch len(kept) {
	case 0:
		return Void
	case 1:
		return kept[0]
	default:
		sortTypes(kept)
		return intern(&UnionType{Children: kept})
	}
}

// NewIntersection flattens, deduplicates, drops Any (identity), and
// collapses to Void if any child is Void.
func NewIntersection(ts ...Type) Type {
	var flat []Type
	for _, t := range ts {
		if t == nil {
			continue
		}
		switch t := t.(type) {
		case *IntersectionType:
			flat = append(flat, t.Children...)
		default:
			flat = append(flat, t)
		}
	}
	flat = dedupTypes(flat)

	var kept []Type
	for _, t := range flat {
		if IsVoidAtom(t) {
			return Void
		}
		if IsAnyAtom(t) {
			continue
		}
		kept = append(kept, t)
	}
	switch len(kept) {
	case 0:
		return Any
	case 1:
		return kept[0]
	default:
		sortTypes(kept)
		return intern(&IntersectionType{Children: kept})
	}
}

// NewNegation implements double-negation elimination and the Void/Any
// duality.
func NewNegation(t Type) Type {
	switch t := t.(type) {
	case *NegationType:
		return t.Child
	}
	if IsVoidAtom(t) {
		return Any
	}
	if IsAnyAtom(t) {
		return Void
	}
	return intern(&NegationType{Child: t})
}

// NewDifference is sugar: Difference(a, b) ≡ Intersection(a, Negation(b)).
func NewDifference(a, b Type) Type {
	return NewIntersection(a, NewNegation(b))
}

func dedupTypes(ts []Type) []Type {
	keyed := make([]string, len(ts))
	byKey := make(map[string]Type, len(ts))
	for i, t := range ts {
		k := t.CanonicalKey()
		keyed[i] = k
		byKey[k] = t
	}
	uniqKeys := algos.Uniq(keyed)
	result := make([]Type, len(uniqKeys))
	for i, k := range uniqKeys {
		result[i] = byKey[k]
	}
	return result
}

func sortTypes(ts []Type) {
	sort.Slice(ts, func(i, j int) bool {
		return ts[i].CanonicalKey() < ts[j].CanonicalKey()
	})
}

func (t *AtomType) String() string         { return t.CanonicalKey() }
func (t *NominalType) String() string      { return t.CanonicalKey() }
func (t *ArrayType) String() string        { return t.CanonicalKey() }
func (t *ReferenceType) String() string    { return t.CanonicalKey() }
func (t *RecordType) String() string       { return t.CanonicalKey() }
func (t *CallableType) String() string     { return t.CanonicalKey() }
func (t *UnionType) String() string        { return t.CanonicalKey() }
func (t *IntersectionType) String() string { return t.CanonicalKey() }
func (t *NegationType) String() string     { return fmt.Sprintf("!%v", t.Child) }
