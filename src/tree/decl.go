package tree

import (
	. "github.com/VijayEluri/WhileyCompiler/common"
)

// Decl is any top-level declaration kind the checker consumes (spec §6).
type Decl interface {
	Node
	_Decl()
}

type DeclBase struct {
	NodeBase
}

func (*DeclBase) _Decl() {}

// UnitDecl is the top-level container for a compilation unit's
// declarations (spec §6's "Unit" declaration kind).
type UnitDecl struct {
	DeclBase
	Name  ImportPath
	Decls []Decl
}

// ImportDecl is parsed but ignored by the checker (spec §6).
type ImportDecl struct {
	DeclBase
	Path ImportPath
}

// VariableDecl is both a declaration-site node and the Environment's map
// key (spec §3): "a mapping variable-declaration → SemanticType". The same
// struct backs parameters, named returns, local variables and
// quantifier-bound variables.
type VariableDecl struct {
	DeclBase
	Name         Identifier
	DeclaredType Type
}

func NewVariableDecl(name Identifier, declared Type) *VariableDecl {
	return &VariableDecl{Name: name, DeclaredType: declared}
}

// StaticVariableDecl is a module-level variable; static accesses always
// read its DeclaredType, never a flow-refined type (spec §4.6).
type StaticVariableDecl struct {
	DeclBase
	Name         Identifier
	DeclaredType Type
	Initialiser  Expr // may be nil
}

// TypeDecl declares a nominal type: `type nat is (int n) where n >= 0`
// binds Binding ("n") to Body ("int"), with Invariant holding the `where`
// clause's conditions (spec §4.2, §8 S5/S7).
type TypeDecl struct {
	DeclBase
	Name      Identifier
	Binding   *VariableDecl // the refined variable the invariant quantifies over
	Body      Type
	Invariant []Expr
}

// HasInvariant reports whether this nominal carries a refinement predicate,
// consulted by the relaxed Emptiness Oracle per spec §4.1's nominal rule.
func (d *TypeDecl) HasInvariant() bool {
	return len(d.Invariant) > 0
}

// Modifier flags a FunctionOrMethodDecl (spec §4.6 "Native declarations
// skip [MISSING_RETURN_STATEMENT]").
type Modifier int

const (
	ModifierNone   Modifier = 0
	ModifierNative Modifier = 1 << 0
	ModifierExport Modifier = 1 << 1
)

func (m Modifier) Has(f Modifier) bool { return m&f != 0 }

// FunctionOrMethodDecl models both Whiley-style functions (pure) and
// methods (may read/write references); the distinction is carried by
// Signature.Kind and affects subtyping (spec §4.1 "Callables" rule).
type FunctionOrMethodDecl struct {
	DeclBase
	Kind       CallableKind
	Name       Identifier
	Lifetimes  []Identifier // declared lifetime parameters
	Params     []*VariableDecl
	Returns    []*VariableDecl
	Requires   []Expr
	Ensures    []Expr
	Modifiers  Modifier
	Body       []Stmt // nil for Native declarations
}

func (d *FunctionOrMethodDecl) IsNative() bool {
	return d.Modifiers.Has(ModifierNative)
}

// Signature is the part of a FunctionOrMethodDecl (or LambdaDeclNode)
// relevant to callable-type construction and TIO matching.
func (d *FunctionOrMethodDecl) Signature() *CallableType {
	params := make([]Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.DeclaredType
	}
	returns := make([]Type, len(d.Returns))
	for i, r := range d.Returns {
		returns[i] = r.DeclaredType
	}
	return NewCallableType(d.Kind, params, returns, d.Lifetimes)
}

// PropertyDecl declares a named boolean-valued specification predicate,
// usable inside Requires/Ensures/Invariant/Assert/Assume (spec §6's
// "Property" declaration kind). Unlike FunctionOrMethodDecl it has no
// executable Body: Invariant holds the clauses that define it.
type PropertyDecl struct {
	DeclBase
	Name      Identifier
	Params    []*VariableDecl
	Invariant []Expr
}

func (d *PropertyDecl) Signature() *CallableType {
	params := make([]Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.DeclaredType
	}
	return NewCallableType(CallableFunction, params, []Type{Bool}, nil)
}

// LambdaDeclNode is the anonymous callable introduced by a lambda
// expression (spec §6's "Lambda" declaration kind, distinct from the
// LambdaDecl *expression* that references it — see expr.go).
type LambdaDeclNode struct {
	DeclBase
	Kind      CallableKind
	Lifetimes []Identifier
	Params    []*VariableDecl
	Returns   []*VariableDecl // if empty, the signature has no returns; FC does not infer them
	Body      []Stmt
}

func (d *LambdaDeclNode) Signature() *CallableType {
	params := make([]Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.DeclaredType
	}
	returns := make([]Type, len(d.Returns))
	for i, r := range d.Returns {
		returns[i] = r.DeclaredType
	}
	return NewCallableType(d.Kind, params, returns, d.Lifetimes)
}
