package check

import (
	"testing"

	. "github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func variableAccess(decl *tree.VariableDecl) *tree.VariableAccessExpr {
	return &tree.VariableAccessExpr{Decl: decl}
}

func intLiteral(v int64) *tree.ConstantExpr {
	return &tree.ConstantExpr{Literal: &tree.IntLiteral{Value: v}}
}

// maxDecl builds `function max(int x, int y) -> (int r): if x > y: r = x;
// else: r = y; return r`, the canonical if/else flow-merge scenario.
func maxDecl() *tree.FunctionOrMethodDecl {
	x := tree.NewVariableDecl(NewIdentifier("x"), tree.Int)
	y := tree.NewVariableDecl(NewIdentifier("y"), tree.Int)
	r := tree.NewVariableDecl(NewIdentifier("r"), tree.Int)

	cond := &tree.BinaryExpr{Op: tree.BinaryOpGreaterThan, First: variableAccess(x), Second: variableAccess(y)}
	return &tree.FunctionOrMethodDecl{
		Kind:    tree.CallableFunction,
		Name:    NewIdentifier("max"),
		Params:  []*tree.VariableDecl{x, y},
		Returns: []*tree.VariableDecl{r},
		Body: []tree.Stmt{
			&tree.IfElseStmt{
				Condition: cond,
				Then:      []tree.Stmt{&tree.AssignStmt{LVals: []tree.Expr{variableAccess(r)}, RVals: []tree.Expr{variableAccess(x)}}},
				Else:      []tree.Stmt{&tree.AssignStmt{LVals: []tree.Expr{variableAccess(r)}, RVals: []tree.Expr{variableAccess(y)}}},
			},
			&tree.ReturnStmt{Values: []tree.Expr{variableAccess(r)}},
		},
	}
}

func TestCheckFunctionOrMethodDeclAcceptsWellTypedMax(t *testing.T) {
	c := NewChecker()
	c.checkFunctionOrMethodDecl(maxDecl())
	assert.True(t, c.Sink.OK())
	assert.Empty(t, c.Sink.Diagnostics())
}

// TestCheckFunctionOrMethodDeclFlagsMissingReturn exercises
// MISSING_RETURN_STATEMENT: a function with a non-empty Returns list whose
// body can fall off the end without reaching a ReturnStmt.
func TestCheckFunctionOrMethodDeclFlagsMissingReturn(t *testing.T) {
	x := tree.NewVariableDecl(NewIdentifier("x"), tree.Int)
	r := tree.NewVariableDecl(NewIdentifier("r"), tree.Int)
	d := &tree.FunctionOrMethodDecl{
		Kind:    tree.CallableFunction,
		Name:    NewIdentifier("identity"),
		Params:  []*tree.VariableDecl{x},
		Returns: []*tree.VariableDecl{r},
		Body: []tree.Stmt{
			&tree.AssignStmt{LVals: []tree.Expr{variableAccess(r)}, RVals: []tree.Expr{variableAccess(x)}},
		},
	}

	c := NewChecker()
	c.checkFunctionOrMethodDecl(d)
	require.False(t, c.Sink.OK())
	require.Len(t, c.Sink.Diagnostics(), 1)
	assert.Equal(t, MissingReturnStatement, c.Sink.Diagnostics()[0].Code)
}

// TestCheckFunctionOrMethodDeclFlagsSubtypeErrorOnReturn exercises
// SUBTYPE_ERROR at a ReturnStmt: returning a bool where int is declared.
func TestCheckFunctionOrMethodDeclFlagsSubtypeErrorOnReturn(t *testing.T) {
	r := tree.NewVariableDecl(NewIdentifier("r"), tree.Int)
	d := &tree.FunctionOrMethodDecl{
		Kind:    tree.CallableFunction,
		Name:    NewIdentifier("wrongReturn"),
		Returns: []*tree.VariableDecl{r},
		Body: []tree.Stmt{
			&tree.ReturnStmt{Values: []tree.Expr{&tree.ConstantExpr{Literal: &tree.BoolLiteral{Value: true}}}},
		},
	}

	c := NewChecker()
	c.checkFunctionOrMethodDecl(d)
	require.False(t, c.Sink.OK())
	assert.Equal(t, SubtypeError, c.Sink.Diagnostics()[0].Code)
}

// TestCheckUnreachableCodeAfterReturn exercises UNREACHABLE_CODE: a
// statement following an unconditional ReturnStmt.
func TestCheckUnreachableCodeAfterReturn(t *testing.T) {
	r := tree.NewVariableDecl(NewIdentifier("r"), tree.Int)
	d := &tree.FunctionOrMethodDecl{
		Kind:    tree.CallableFunction,
		Name:    NewIdentifier("deadCode"),
		Returns: []*tree.VariableDecl{r},
		Body: []tree.Stmt{
			&tree.ReturnStmt{Values: []tree.Expr{intLiteral(0)}},
			&tree.ExprStmt{Expr: intLiteral(1)},
		},
	}

	c := NewChecker()
	c.checkFunctionOrMethodDecl(d)
	require.False(t, c.Sink.OK())
	assert.Equal(t, UnreachableCode, c.Sink.Diagnostics()[0].Code)
}

// TestCheckUnitFlagsNonContractiveType exercises §4.2: a self-referential
// type `type bad is bad` (no Array/Record/Reference/Callable in between)
// must be reported as EMPTY_TYPE, independent of any declaration order.
func TestCheckUnitFlagsNonContractiveType(t *testing.T) {
	badDecl := &tree.TypeDecl{Name: NewIdentifier("bad")}
	badDecl.Body = tree.NewNominalType(NewIdentifier("bad"), badDecl)

	c := NewChecker()
	c.CheckUnit(&tree.UnitDecl{Decls: []tree.Decl{badDecl}})
	require.False(t, c.Sink.OK())
	assert.Equal(t, EmptyType, c.Sink.Diagnostics()[0].Code)
}

// TestCheckUnitAcceptsContractiveTypeThroughArray: `type list is []list`
// is contractive (the self-reference crosses an Array constructor).
func TestCheckUnitAcceptsContractiveTypeThroughArray(t *testing.T) {
	listDecl := &tree.TypeDecl{Name: NewIdentifier("list")}
	listDecl.Body = tree.NewArrayType(tree.NewNominalType(NewIdentifier("list"), listDecl))

	c := NewChecker()
	c.CheckUnit(&tree.UnitDecl{Decls: []tree.Decl{listDecl}})
	assert.True(t, c.Sink.OK())
}

func TestCheckIsExprRefinesVariableInTrueBranch(t *testing.T) {
	v := tree.NewVariableDecl(NewIdentifier("v"), tree.NewUnion(tree.Int, tree.Bool))
	env := NewEnvironment().Extend(v, tree.NewUnion(tree.Int, tree.Bool))
	scope := PushFunction(nil, &tree.FunctionOrMethodDecl{})

	c := NewChecker()
	isExpr := &tree.IsExpr{Operand: variableAccess(v), TestType: tree.Int}
	refined := c.CheckCondition(isExpr, true, env, scope)
	assert.True(t, c.RelaxedSO.IsEquivalent(refined.Lookup(v), tree.Int, refined), "true branch should narrow v to int")

	falseEnv := c.CheckCondition(isExpr, false, env, scope)
	assert.True(t, c.RelaxedSO.IsEquivalent(falseEnv.Lookup(v), tree.Bool, falseEnv), "false branch should narrow v to bool")
}
