package tree

import (
	. "github.com/VijayEluri/WhileyCompiler/common"
)

// Stmt is any statement AST node the checker consumes (spec §6).
type Stmt interface {
	Node
	_Stmt()
}

type StmtBase struct {
	NodeBase
}

func (*StmtBase) _Stmt() {}

// VariableDeclStmt declares a local variable, optionally with an
// initialiser (spec §4.6: "Check init ≤ declared; no refinement change").
type VariableDeclStmt struct {
	StmtBase
	Decl *VariableDecl
	Init Expr // nil if undefined-initial-value
}

// AssignStmt assigns a tuple of r-values into a tuple of l-value-shaped
// expressions (spec §4.6: "Check each rhs component ≤ its lval declared
// type").
type AssignStmt struct {
	StmtBase
	LVals []Expr
	RVals []Expr
}

type ReturnStmt struct {
	StmtBase
	Values []Expr
}

// FailStmt: `fail` — unreachable-by-construction statement, exits with
// BOTTOM exactly like Return (spec §4.6).
type FailStmt struct {
	StmtBase
}

type IfElseStmt struct {
	StmtBase
	Condition Expr
	Then      []Stmt
	Else      []Stmt // nil if no else branch
}

// NamedBlockStmt extends the within-relation by Name covering every
// lifetime declared so far in the enclosing scope (spec §4.6, §4.7).
type NamedBlockStmt struct {
	StmtBase
	Name Identifier
	Body []Stmt
}

type WhileStmt struct {
	StmtBase
	Condition Expr
	Invariant []Expr
	Body      []Stmt
}

type DoWhileStmt struct {
	StmtBase
	Body      []Stmt
	Condition Expr
	Invariant []Expr
}

type SwitchCase struct {
	Values  []Expr // matched values; the default arm is marked by Default
	Default bool
	Body    []Stmt
}

type SwitchStmt struct {
	StmtBase
	Value Expr
	Cases []*SwitchCase
}

type BreakStmt struct {
	StmtBase
}

type ContinueStmt struct {
	StmtBase
}

// AssertStmt / AssumeStmt both refine the environment with sign + (spec
// §4.6); Assert additionally requires the condition provably hold (subject
// to the out-of-scope verification backend — the checker only type-checks
// the condition and applies its refinement).
type AssertStmt struct {
	StmtBase
	Condition Expr
}

type AssumeStmt struct {
	StmtBase
	Condition Expr
}

// DebugStmt requires an Array(Int) operand (spec §4.6).
type DebugStmt struct {
	StmtBase
	Operand Expr
}

type SkipStmt struct {
	StmtBase
}

// ExprStmt wraps a side-effecting expression statement: Invoke or
// IndirectInvoke (spec §6).
type ExprStmt struct {
	StmtBase
	Expr Expr
}
