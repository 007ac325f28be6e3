package tree

import (
	. "github.com/VijayEluri/WhileyCompiler/common"
)

// Expr is any expression AST node the checker consumes (spec §6). Every
// Expr that FC visits without error gets a ConcreteType annotation written
// back in place (spec §6 "Output"); l-value-shaped Exprs (VariableAccess,
// RecordAccess, ArrayAccess, Dereference) double as l-values when
// CheckLVal, rather than IndirectInvoke, dispatches on them.
type Expr interface {
	Node
	_Expr()
	// ConcreteType is the annotation FC writes via the Concrete Type
	// Extractor; nil until checked.
	ConcreteType() Type
	SetConcreteType(Type)
}

type ExprBase struct {
	NodeBase
	concreteType Type
}

func (*ExprBase) _Expr() {}

func (e *ExprBase) ConcreteType() Type { return e.concreteType }

func (e *ExprBase) SetConcreteType(t Type) { e.concreteType = t }

// ---- Constants -------------------------------------------------------------

type Literal interface {
	_Literal()
}

type literalBase struct{}

func (literalBase) _Literal() {}

type NullLiteral struct{ literalBase }
type BoolLiteral struct {
	literalBase
	Value bool
}
type IntLiteral struct {
	literalBase
	Value int64
}
type ByteLiteral struct {
	literalBase
	Value byte
}
type CharLiteral struct {
	literalBase
	Value rune
}
type StringLiteral struct {
	literalBase
	Value string
}

// ConstantExpr is a literal constant (spec §4.6: "string literal →
// Array(Int); char literal → Int").
type ConstantExpr struct {
	ExprBase
	Literal Literal
}

// ---- Variable / static access ----------------------------------------------

type VariableAccessExpr struct {
	ExprBase
	Decl *VariableDecl
}

type StaticVariableAccessExpr struct {
	ExprBase
	Decl *StaticVariableDecl
}

// ---- Cast -------------------------------------------------------------------

type CastExpr struct {
	ExprBase
	Target   Type
	Operand  Expr
}

// ---- Invocation -------------------------------------------------------------

// InvokeExpr is a direct call against a named candidate set, resolved by
// TIO (spec §4.5).
type InvokeExpr struct {
	ExprBase
	Name      Identifier
	Candidate *Link[Callable]
	Lifetimes map[Identifier]Identifier // declared-lifetime -> actual binding; TIO does not write it
	Args      []Expr
}

// Callable is the common shape TIO matches against: FunctionOrMethodDecl,
// PropertyDecl, and LambdaDeclNode all qualify.
type Callable interface {
	Decl
	Signature() *CallableType
}

// IndirectInvokeExpr calls a first-class callable value (spec §4.6: "RWE
// (readable-callable) for indirect invokes").
type IndirectInvokeExpr struct {
	ExprBase
	Source Expr
	Args   []Expr
}

// ---- Logical connectives (condition-shaped; see check/cond.go) ------------

type LogicalNotExpr struct {
	ExprBase
	Operand Expr
}

type LogicalAndExpr struct {
	ExprBase
	Operands []Expr
}

type LogicalOrExpr struct {
	ExprBase
	Operands []Expr
}

type LogicalIffExpr struct {
	ExprBase
	First, Second Expr
}

type LogicalImplicationExpr struct {
	ExprBase
	First, Second Expr
}

// IsExpr is a type test `v is T` (spec §4.6 condition checking, the most
// subtle operation: refines v when the operand is a simple variable).
type IsExpr struct {
	ExprBase
	Operand  Expr
	TestType Type
}

type QuantifierKind int

const (
	QuantifierUniversal QuantifierKind = iota
	QuantifierExistential
)

// QuantifierExpr: `all { x in src : body }` / `some { ... }`. Spec §4.6:
// "check each declared iteration variable's source, check body at sign +,
// discarding refinements."
type QuantifierExpr struct {
	ExprBase
	Kind    QuantifierKind
	Vars    []*VariableDecl
	Sources []Expr
	Body    Expr
}

// ---- Comparisons / arithmetic / bitwise (shared BinaryOp/UnaryOp, mirrors
// the teacher's tree.BinaryExpr/UnaryExpr dispatch-by-op idiom) -----------

type BinaryOp int

const (
	BinaryOpEqual BinaryOp = iota
	BinaryOpNotEqual
	BinaryOpLessThan
	BinaryOpLessEqual
	BinaryOpGreaterThan
	BinaryOpGreaterEqual

	BinaryOpAdd
	BinaryOpSub
	BinaryOpMul
	BinaryOpDiv
	BinaryOpRem

	BinaryOpBitAnd
	BinaryOpBitOr
	BinaryOpBitXor
	BinaryOpShl
	BinaryOpShr
)

func (op BinaryOp) String() string {
	switch op {
	case BinaryOpEqual:
		return "=="
	case BinaryOpNotEqual:
		return "!="
	case BinaryOpLessThan:
		return "<"
	case BinaryOpLessEqual:
		return "<="
	case BinaryOpGreaterThan:
		return ">"
	case BinaryOpGreaterEqual:
		return ">="
	case BinaryOpAdd:
		return "+"
	case BinaryOpSub:
		return "-"
	case BinaryOpMul:
		return "*"
	case BinaryOpDiv:
		return "/"
	case BinaryOpRem:
		return "%"
	case BinaryOpBitAnd:
		return "&"
	case BinaryOpBitOr:
		return "|"
	case BinaryOpBitXor:
		return "^"
	case BinaryOpShl:
		return "<<"
	case BinaryOpShr:
		return ">>"
	default:
		panic("unreachable: unknown BinaryOp")
	}
}

func (op BinaryOp) IsComparison() bool {
	return op <= BinaryOpGreaterEqual
}

func (op BinaryOp) IsEquality() bool {
	return op == BinaryOpEqual || op == BinaryOpNotEqual
}

type BinaryExpr struct {
	ExprBase
	Op            BinaryOp
	First, Second Expr
}

type UnaryOp int

const (
	UnaryOpIntegerNeg UnaryOp = iota
	UnaryOpBitwiseNot
	UnaryOpArrayLength
	UnaryOpDereference
)

type UnaryExpr struct {
	ExprBase
	Op      UnaryOp
	Operand Expr
}

// ---- Records ----------------------------------------------------------------

type RecordInitialiserExpr struct {
	ExprBase
	Order  []Identifier
	Fields Map[Identifier, Expr]
}

type RecordAccessExpr struct {
	ExprBase
	Source Expr
	Field  Identifier
}

// RecordBorrowExpr produces a reference to a field (`&r.f`).
type RecordBorrowExpr struct {
	ExprBase
	Source   Expr
	Field    Identifier
	Lifetime *Identifier
}

type RecordUpdateExpr struct {
	ExprBase
	Source Expr
	Field  Identifier
	Value  Expr
}

// ---- Arrays -----------------------------------------------------------------

type ArrayInitialiserExpr struct {
	ExprBase
	Elements []Expr
}

// ArrayGeneratorExpr: `[v; n]`, an array of n copies of v.
type ArrayGeneratorExpr struct {
	ExprBase
	Value  Expr
	Length Expr
}

type ArrayAccessExpr struct {
	ExprBase
	Source Expr
	Index  Expr
}

// ArrayBorrowExpr produces a reference to an element (`&a[i]`).
type ArrayBorrowExpr struct {
	ExprBase
	Source   Expr
	Index    Expr
	Lifetime *Identifier
}

// ArrayRangeExpr: `a .. b`, an array of consecutive ints.
type ArrayRangeExpr struct {
	ExprBase
	Start, End Expr
}

type ArrayUpdateExpr struct {
	ExprBase
	Source Expr
	Index  Expr
	Value  Expr
}

// ---- References ---------------------------------------------------------

type DereferenceExpr struct {
	ExprBase
	Operand Expr
}

// NewExpr allocates a fresh reference cell: `new e` or `this:new e`.
type NewExpr struct {
	ExprBase
	Operand  Expr
	Lifetime *Identifier
}

// ---- Lambdas ------------------------------------------------------------

// LambdaAccessExpr references a named function/method as a first-class
// value (`&f`), producing the Callable type of its sole candidate; more
// than one candidate is reported as AMBIGUOUS_CALLABLE.
type LambdaAccessExpr struct {
	ExprBase
	Name      Identifier
	Candidate *Link[Callable]
}

// LambdaDeclExpr wraps an inline anonymous LambdaDeclNode (`&(int x -> x+1)`).
type LambdaDeclExpr struct {
	ExprBase
	Decl *LambdaDeclNode
}
