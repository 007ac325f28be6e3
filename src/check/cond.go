package check

import (
	"github.com/VijayEluri/WhileyCompiler/tree"
)

// CheckCondition implements FC's condition-checking algorithm (spec §4.6):
// given an expression, a sign, and an incoming ENV, it both type-checks the
// expression (requiring Bool where applicable) and returns the env refined
// under the assumption that the expression evaluates to sign (+ meaning
// true, − meaning false).
func (c *Checker) CheckCondition(e tree.Expr, sign bool, env *Environment, scope *Scope) *Environment {
	switch e := e.(type) {
	case *tree.LogicalNotExpr:
		return c.CheckCondition(e.Operand, !sign, env, scope)

	case *tree.LogicalAndExpr:
		if sign {
			return c.threadSimple(e.Operands, true, env, scope)
		}
		return c.threadDeMorgan(e.Operands, false, env, scope)

	case *tree.LogicalOrExpr:
		// Disjunction is the dual of conjunction (spec §4.6): sign + uses
		// the De Morgan thread (A∨B ≡ ¬(¬A∧¬B)), sign − threads simply.
		if sign {
			return c.threadDeMorgan(e.Operands, true, env, scope)
		}
		return c.threadSimple(e.Operands, false, env, scope)

	case *tree.LogicalImplicationExpr:
		if sign {
			notA := c.CheckCondition(e.First, false, env, scope)
			posA := c.CheckCondition(e.First, true, env, scope)
			bUnderA := c.CheckCondition(e.Second, true, posA, scope)
			return Union(notA, bUnderA)
		}
		posA := c.CheckCondition(e.First, true, env, scope)
		return c.CheckCondition(e.Second, false, posA, scope)

	case *tree.LogicalIffExpr:
		envA := c.CheckCondition(e.First, sign, env, scope)
		return c.CheckCondition(e.Second, sign, envA, scope)

	case *tree.IsExpr:
		return c.checkIsExpr(e, sign, env, scope)

	case *tree.QuantifierExpr:
		return c.checkQuantifier(e, env, scope)

	default:
		t := c.CheckExpr(e, env, scope)
		if !c.RelaxedSO.IsSubtype(t, tree.Bool, env) {
			c.Sink.Report(SubtypeError, e.Span(), "expected bool condition, found %v", t.CanonicalKey())
		}
		return env
	}
}

// threadSimple threads env left-to-right through every operand at the same
// sign (conjunction at sign +, or dually disjunction at sign −).
func (c *Checker) threadSimple(operands []tree.Expr, sign bool, env *Environment, scope *Scope) *Environment {
	cur := env
	for _, op := range operands {
		cur = c.CheckCondition(op, sign, cur, scope)
	}
	return cur
}

// threadDeMorgan implements spec §4.6's De Morgan rule (conjunction at
// sign −, or dually disjunction at sign +): for each operand i, compute its
// branchSign refinement using env threaded with every prior operand at the
// opposite sign, then union the per-operand branches.
func (c *Checker) threadDeMorgan(operands []tree.Expr, branchSign bool, env *Environment, scope *Scope) *Environment {
	var result *Environment
	prior := env
	for i, op := range operands {
		branch := c.CheckCondition(op, branchSign, prior, scope)
		if i == 0 {
			result = branch
		} else {
			result = Union(result, branch)
		}
		prior = c.CheckCondition(op, !branchSign, prior, scope)
	}
	if result == nil {
		return env
	}
	return result
}

// checkIsExpr implements the type-test rule (spec §4.6, "the most subtle
// operation"): refines the root variable when Operand is a simple
// variable access, and reports INCOMPARABLE_OPERANDS / BRANCH_ALWAYS_TAKEN
// when the test is statically decided.
func (c *Checker) checkIsExpr(e *tree.IsExpr, sign bool, env *Environment, scope *Scope) *Environment {
	operandType := c.CheckExpr(e.Operand, env, scope)

	intersect := tree.NewIntersection(operandType, e.TestType)
	difference := tree.NewIntersection(operandType, tree.NewNegation(e.TestType))

	if c.StrictEO.IsVoid(intersect, env) {
		c.Sink.Report(IncomparableOperands, e.Span(), "type test %v is %v can never succeed", operandType.CanonicalKey(), e.TestType.CanonicalKey())
	} else if c.StrictEO.IsVoid(difference, env) {
		c.Sink.Report(BranchAlwaysTaken, e.Span(), "type test %v is %v always succeeds", operandType.CanonicalKey(), e.TestType.CanonicalKey())
	}

	va, ok := e.Operand.(*tree.VariableAccessExpr)
	if !ok {
		return env
	}
	if sign {
		return env.Refine(va.Decl, intersect)
	}
	return env.Refine(va.Decl, difference)
}

// checkQuantifier checks each iteration variable's source and the body at
// sign +, discarding refinements — the quantifier's body env never escapes
// (spec §4.6).
func (c *Checker) checkQuantifier(e *tree.QuantifierExpr, env *Environment, scope *Scope) *Environment {
	bodyEnv := env
	for i, v := range e.Vars {
		srcType := c.CheckExpr(e.Sources[i], bodyEnv, scope)
		arr := c.expectReadableArray(srcType, e.Sources[i].Span())
		elem := tree.Type(tree.Any)
		if arr != nil {
			elem = arr.Elem
		}
		bodyEnv = bodyEnv.Extend(v, elem)
	}
	c.CheckCondition(e.Body, true, bodyEnv, scope)
	return env
}
