package main

import (
	"fmt"
	"io"
	"os"

	"github.com/VijayEluri/WhileyCompiler/check"
	"github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/compile"
	"github.com/VijayEluri/WhileyCompiler/tree"
)

// main builds a small fixed set of declarations in memory (there is no
// parser in this tree — see SPEC_FULL.md §1's non-goals) and runs them
// through a compile.Unit, printing any diagnostics. It exists as a smoke
// check of the wiring between compile, check and tree, not as a general
// front end.
func main() {
	parallel := false
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-v":
			*check.DebugAll = true
		case "-p":
			parallel = true
		case "-":
			_, _ = io.ReadAll(os.Stdin)
		}
	}

	unit := compile.NewUnit(demoDecls())

	var ok bool
	var diags []check.Diagnostic
	var err error
	if parallel {
		ok, diags, err = unit.CheckParallel(4)
	} else {
		ok, diags, err = unit.Check()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "internal failure: %v\n", err)
		os.Exit(2)
	}
	for _, d := range diags {
		fmt.Println(d.String())
	}
	if !ok {
		os.Exit(1)
	}
}

// demoDecls builds: `type nat is (int n) where n >= 0`, and
// `function max(int x, int y) -> (int r): if x > y: r = x; else: r = y;
// return r`, exercising the invariant/contractiveness path and a basic
// if/else flow-merge respectively.
func demoDecls() []tree.Decl {
	n := tree.NewVariableDecl(common.NewIdentifier("n"), tree.Int)
	natInvariant := &tree.BinaryExpr{
		Op:     tree.BinaryOpGreaterEqual,
		First:  variableAccess(n),
		Second: intLiteral(0),
	}
	natDecl := &tree.TypeDecl{
		Name:      common.NewIdentifier("nat"),
		Binding:   n,
		Body:      tree.Int,
		Invariant: []tree.Expr{natInvariant},
	}

	x := tree.NewVariableDecl(common.NewIdentifier("x"), tree.Int)
	y := tree.NewVariableDecl(common.NewIdentifier("y"), tree.Int)
	r := tree.NewVariableDecl(common.NewIdentifier("r"), tree.Int)

	cond := &tree.BinaryExpr{
		Op:     tree.BinaryOpGreaterThan,
		First:  variableAccess(x),
		Second: variableAccess(y),
	}
	thenBranch := []tree.Stmt{
		&tree.AssignStmt{
			LVals: []tree.Expr{variableAccess(r)},
			RVals: []tree.Expr{variableAccess(x)},
		},
	}
	elseBranch := []tree.Stmt{
		&tree.AssignStmt{
			LVals: []tree.Expr{variableAccess(r)},
			RVals: []tree.Expr{variableAccess(y)},
		},
	}
	maxDecl := &tree.FunctionOrMethodDecl{
		Kind:    tree.CallableFunction,
		Name:    common.NewIdentifier("max"),
		Params:  []*tree.VariableDecl{x, y},
		Returns: []*tree.VariableDecl{r},
		Body: []tree.Stmt{
			&tree.IfElseStmt{
				Condition: cond,
				Then:      thenBranch,
				Else:      elseBranch,
			},
			&tree.ReturnStmt{Values: []tree.Expr{variableAccess(r)}},
		},
	}

	return []tree.Decl{natDecl, maxDecl}
}

func variableAccess(decl *tree.VariableDecl) *tree.VariableAccessExpr {
	return &tree.VariableAccessExpr{Decl: decl}
}

func intLiteral(v int64) *tree.ConstantExpr {
	return &tree.ConstantExpr{Literal: &tree.IntLiteral{Value: v}}
}
