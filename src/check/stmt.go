package check

import (
	"github.com/VijayEluri/WhileyCompiler/tree"
)

// CheckStmts threads env through a statement block in order (spec §4.6).
// Once env becomes BOTTOM, later statements are still visited (so their
// expressions get concrete-type annotations and so unreachable code after
// a Return/Break/etc. is flagged, once per block, at the first such
// statement) but no further
// refinement escapes.
func (c *Checker) CheckStmts(stmts []tree.Stmt, env *Environment, scope *Scope) *Environment {
	cur := env
	reportedUnreachable := false
	for _, s := range stmts {
		if cur.IsBottom() && !reportedUnreachable {
			c.Sink.Report(UnreachableCode, s.Span(), "statement is unreachable")
			reportedUnreachable = true
		}
		cur = c.CheckStmt(s, cur, scope)
	}
	return cur
}

// CheckStmt dispatches on statement kind per spec §4.6's table.
func (c *Checker) CheckStmt(s tree.Stmt, env *Environment, scope *Scope) *Environment {
	switch s := s.(type) {
	case *tree.VariableDeclStmt:
		return c.checkVariableDeclStmt(s, env, scope)

	case *tree.AssignStmt:
		return c.checkAssignStmt(s, env, scope)

	case *tree.ReturnStmt:
		c.checkReturnStmt(s, env, scope)
		return Bottom()

	case *tree.FailStmt:
		return Bottom()

	case *tree.IfElseStmt:
		return c.checkIfElseStmt(s, env, scope)

	case *tree.NamedBlockStmt:
		return c.checkNamedBlockStmt(s, env, scope)

	case *tree.WhileStmt:
		return c.checkWhileStmt(s, env, scope)

	case *tree.DoWhileStmt:
		return c.checkDoWhileStmt(s, env, scope)

	case *tree.SwitchStmt:
		return c.checkSwitchStmt(s, env, scope)

	case *tree.BreakStmt:
		if c.loop != nil {
			c.loop.breakEnv = Union(c.loop.breakEnv, env)
		}
		return Bottom()

	case *tree.ContinueStmt:
		if c.loop != nil {
			c.loop.continueEnv = Union(c.loop.continueEnv, env)
		}
		return Bottom()

	case *tree.AssertStmt:
		return c.CheckCondition(s.Condition, true, env, scope)

	case *tree.AssumeStmt:
		return c.CheckCondition(s.Condition, true, env, scope)

	case *tree.DebugStmt:
		t := c.CheckExpr(s.Operand, env, scope)
		if c.RWE.Extract(t, ReadableArray) == nil || !c.RelaxedSO.IsSubtype(t, tree.NewArrayType(tree.Int), env) {
			c.Sink.Report(ExpectedArray, s.Span(), "debug requires array of int, found %v", t.CanonicalKey())
		}
		return env

	case *tree.SkipStmt:
		return env

	case *tree.ExprStmt:
		c.CheckExpr(s.Expr, env, scope)
		return env

	default:
		panic(spewUnreachable("statement", s))
	}
}

func (c *Checker) checkVariableDeclStmt(s *tree.VariableDeclStmt, env *Environment, scope *Scope) *Environment {
	if s.Init == nil {
		return env.Extend(s.Decl, s.Decl.DeclaredType)
	}
	initType := c.CheckExpr(s.Init, env, scope)
	if !c.RelaxedSO.IsSubtype(initType, s.Decl.DeclaredType, env) {
		c.Sink.Report(SubtypeError, s.Span(), "cannot initialise %v of type %v with %v", s.Decl.Name, s.Decl.DeclaredType.CanonicalKey(), initType.CanonicalKey())
	}
	return env.Extend(s.Decl, s.Decl.DeclaredType)
}

func (c *Checker) checkAssignStmt(s *tree.AssignStmt, env *Environment, scope *Scope) *Environment {
	rhsTypes := c.CheckExprs(s.RVals, env, scope)
	for i, lval := range s.LVals {
		declared := c.CheckLVal(lval, env, scope)
		if i >= len(rhsTypes) {
			continue
		}
		if !c.RelaxedSO.IsSubtype(rhsTypes[i], declared, env) {
			c.Sink.Report(SubtypeError, lval.Span(), "cannot assign %v to l-value of declared type %v", rhsTypes[i].CanonicalKey(), declared.CanonicalKey())
		}
	}
	next := env
	for i, lval := range s.LVals {
		if i >= len(rhsTypes) {
			break
		}
		if va, ok := lval.(*tree.VariableAccessExpr); ok {
			next = next.Refine(va.Decl, rhsTypes[i])
		}
	}
	return next
}

func (c *Checker) checkReturnStmt(s *tree.ReturnStmt, env *Environment, scope *Scope) {
	valueTypes := c.CheckExprs(s.Values, env, scope)
	fn := scope.EnclosingFunction()
	if fn == nil {
		return
	}
	if len(valueTypes) < len(fn.Returns) {
		c.Sink.Report(InsufficientReturns, s.Span(), "expected %d return value(s), found %d", len(fn.Returns), len(valueTypes))
		return
	}
	if len(valueTypes) > len(fn.Returns) {
		c.Sink.Report(TooManyReturns, s.Span(), "expected %d return value(s), found %d", len(fn.Returns), len(valueTypes))
		return
	}
	for i, rt := range fn.Returns {
		if !c.RelaxedSO.IsSubtype(valueTypes[i], rt.DeclaredType, env) {
			c.Sink.Report(SubtypeError, s.Span(), "return value %d: expected %v, found %v", i, rt.DeclaredType.CanonicalKey(), valueTypes[i].CanonicalKey())
		}
	}
}

func (c *Checker) checkIfElseStmt(s *tree.IfElseStmt, env *Environment, scope *Scope) *Environment {
	envTrue := c.CheckCondition(s.Condition, true, env, scope)
	envFalse := c.CheckCondition(s.Condition, false, env, scope)

	thenExit := c.CheckStmts(s.Then, envTrue, scope)
	var elseExit *Environment
	if s.Else != nil {
		elseExit = c.CheckStmts(s.Else, envFalse, scope)
	} else {
		elseExit = envFalse
	}
	return Union(thenExit, elseExit)
}

// checkNamedBlockStmt extends the within-relation by the block name
// covering all currently declared lifetimes (spec §4.6/§4.7).
func (c *Checker) checkNamedBlockStmt(s *tree.NamedBlockStmt, env *Environment, scope *Scope) *Environment {
	innerScope := PushNamedBlock(scope, s.Name)
	innerEnv := env.WithLifetime(s.Name, innerScope.DeclaredLifetimes()...)
	return c.CheckStmts(s.Body, innerEnv, innerScope)
}

// loopContext accumulates, across a single loop body check, the
// environments of every lexically-contained Break and Continue (spec §9's
// resolution for S4/the loop post-state): Break bypasses the condition
// entirely and joins the loop's post-state directly; Continue jumps back
// to the condition test, so it joins the re-entry point the condition is
// evaluated from. A Break or Continue lexically inside a Switch nested in
// the loop still joins the enclosing loop's context, since Switch pushes
// no loopContext of its own — a known conservative over-approximation
// (never unsound, only occasionally wider than strictly necessary).
type loopContext struct {
	breakEnv    *Environment
	continueEnv *Environment
}

func newLoopContext() *loopContext {
	return &loopContext{breakEnv: Bottom(), continueEnv: Bottom()}
}

// checkWhileStmt: check invariants in env, check the body in the
// true-branch env (spec §9's resolution: loop bodies are checked once for
// well-typedness, not fixpoint-iterated). Continue-exits join the env the
// condition's false branch is evaluated from, since continue re-enters at
// the condition test; Break-exits join the final post-state directly,
// bypassing the condition.
func (c *Checker) checkWhileStmt(s *tree.WhileStmt, env *Environment, scope *Scope) *Environment {
	for _, inv := range s.Invariant {
		c.CheckCondition(inv, true, env, scope)
	}
	envTrue := c.CheckCondition(s.Condition, true, env, scope)

	outer := c.loop
	c.loop = newLoopContext()
	c.CheckStmts(s.Body, envTrue, scope)
	loop := c.loop
	c.loop = outer

	reentry := Union(env, loop.continueEnv)
	exit := c.CheckCondition(s.Condition, false, reentry, scope)
	return Union(exit, loop.breakEnv)
}

func (c *Checker) checkDoWhileStmt(s *tree.DoWhileStmt, env *Environment, scope *Scope) *Environment {
	outer := c.loop
	c.loop = newLoopContext()
	bodyExit := c.CheckStmts(s.Body, env, scope)
	loop := c.loop
	c.loop = outer

	// a Continue in a do-while jumps straight to the condition test, same
	// destination normal fallthrough reaches.
	reentry := Union(bodyExit, loop.continueEnv)
	for _, inv := range s.Invariant {
		c.CheckCondition(inv, true, reentry, scope)
	}
	exit := c.CheckCondition(s.Condition, false, reentry, scope)
	return Union(exit, loop.breakEnv)
}

func (c *Checker) checkSwitchStmt(s *tree.SwitchStmt, env *Environment, scope *Scope) *Environment {
	c.CheckExpr(s.Value, env, scope)

	var result *Environment
	hasDefault := false
	for _, arm := range s.Cases {
		if arm.Default {
			hasDefault = true
		}
		for _, v := range arm.Values {
			c.CheckExpr(v, env, scope)
		}
		exit := c.CheckStmts(arm.Body, env, scope)
		if result == nil {
			result = exit
		} else {
			result = Union(result, exit)
		}
	}
	if !hasDefault {
		if result == nil {
			return env
		}
		result = Union(result, env)
	}
	if result == nil {
		return env
	}
	return result
}
