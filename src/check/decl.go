package check

import (
	. "github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/tree"
)

// CheckUnit checks every declaration in u sequentially (spec §4.8's
// sequential counterpart; see compile.Unit.CheckParallel for the
// concurrent variant built on top of this). It first runs the
// contractiveness check over every TypeDecl in the unit, since that
// check is inherently global (a cycle can span multiple declarations),
// then dispatches each declaration in turn.
func (c *Checker) CheckUnit(u *tree.UnitDecl) {
	var typeDecls []*tree.TypeDecl
	for _, d := range u.Decls {
		if td, ok := d.(*tree.TypeDecl); ok {
			typeDecls = append(typeDecls, td)
		}
	}
	CheckContractive(typeDecls, c.Sink)

	for _, d := range u.Decls {
		c.CheckDecl(d, nil)
	}
}

// CheckDecl dispatches a single top-level declaration (spec §6's
// declaration kinds).
func (c *Checker) CheckDecl(d tree.Decl, scope *Scope) {
	switch d := d.(type) {
	case *tree.ImportDecl:
		// nothing to check

	case *tree.TypeDecl:
		c.checkTypeDecl(d)

	case *tree.StaticVariableDecl:
		c.checkStaticVariableDecl(d)

	case *tree.FunctionOrMethodDecl:
		c.checkFunctionOrMethodDecl(d)

	case *tree.PropertyDecl:
		c.checkPropertyDecl(d)

	case *tree.LambdaDeclNode:
		c.checkLambdaDeclNode(d, NewEnvironment(), scope)

	default:
		panic(spewUnreachable("declaration", d))
	}
}

func (c *Checker) checkTypeDecl(d *tree.TypeDecl) {
	env := NewEnvironment()
	if d.Binding != nil {
		env = env.Extend(d.Binding, d.Body)
	}
	scope := PushNamedBlock(nil, ThisLifetime)
	for _, inv := range d.Invariant {
		c.CheckCondition(inv, true, env, scope)
	}
	if c.StrictEO.IsVoid(d.Body, env) {
		c.Sink.Report(EmptyType, d.Span(), "type %v has an uninhabited body", d.Name)
	}
}

func (c *Checker) checkStaticVariableDecl(d *tree.StaticVariableDecl) {
	if d.Initialiser == nil {
		return
	}
	env := NewEnvironment()
	initType := c.CheckExpr(d.Initialiser, env, nil)
	if !c.RelaxedSO.IsSubtype(initType, d.DeclaredType, env) {
		c.Sink.Report(SubtypeError, d.Span(), "cannot initialise static %v of type %v with %v", d.Name, d.DeclaredType.CanonicalKey(), initType.CanonicalKey())
	}
}

func (c *Checker) checkPropertyDecl(d *tree.PropertyDecl) {
	env := NewEnvironment()
	for _, p := range d.Params {
		env = env.Extend(p, p.DeclaredType)
	}
	scope := PushFunction(nil, &tree.FunctionOrMethodDecl{
		Kind:    tree.CallableFunction,
		Name:    d.Name,
		Params:  d.Params,
		Returns: nil,
	})
	for _, inv := range d.Invariant {
		c.CheckCondition(inv, true, env, scope)
	}
}

func (c *Checker) checkFunctionOrMethodDecl(d *tree.FunctionOrMethodDecl) {
	CheckerPrintf("checking declaration %v\n", d.Name)

	scope := PushFunction(nil, d)
	env := NewEnvironment().WithLifetime(ThisLifetime)
	for _, l := range d.Lifetimes {
		env = env.WithLifetime(l, ThisLifetime)
	}
	for _, p := range d.Params {
		env = env.Extend(p, p.DeclaredType)
	}
	for _, r := range d.Returns {
		env = env.Extend(r, r.DeclaredType)
	}

	for _, req := range d.Requires {
		env = c.CheckCondition(req, true, env, scope)
	}

	if d.IsNative() {
		return
	}

	final := c.CheckStmts(d.Body, env, scope)

	for _, ens := range d.Ensures {
		c.CheckCondition(ens, true, final, scope)
	}

	if !final.IsBottom() && len(d.Returns) > 0 {
		c.Sink.Report(MissingReturnStatement, d.Span(), "missing return statement in %v", d.Name)
	}
}
