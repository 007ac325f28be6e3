package check

import (
	. "github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/source"
	"github.com/VijayEluri/WhileyCompiler/tree"
)

// CheckExprs checks each expression in order, threading no ENV changes
// between them (argument lists and the like are side-effect free at the
// type level — only statements thread refinement).
func (c *Checker) CheckExprs(es []tree.Expr, env *Environment, scope *Scope) []tree.Type {
	out := make([]tree.Type, len(es))
	for i, e := range es {
		out[i] = c.CheckExpr(e, env, scope)
	}
	return out
}

// CheckExpr infers e's semantic type and writes its concrete type
// annotation via CTE (spec §4.6).
func (c *Checker) CheckExpr(e tree.Expr, env *Environment, scope *Scope) tree.Type {
	t := c.inferExpr(e, env, scope)
	e.SetConcreteType(c.CTE.Extract(t, env))
	return t
}

func (c *Checker) inferExpr(e tree.Expr, env *Environment, scope *Scope) tree.Type {
	switch e := e.(type) {
	case *tree.ConstantExpr:
		return c.checkConstant(e)
	case *tree.VariableAccessExpr:
		return env.Lookup(e.Decl)
	case *tree.StaticVariableAccessExpr:
		return e.Decl.DeclaredType
	case *tree.CastExpr:
		c.CheckExpr(e.Operand, env, scope)
		return e.Target
	case *tree.InvokeExpr:
		return c.checkInvoke(e, env, scope)
	case *tree.IndirectInvokeExpr:
		return c.checkIndirectInvoke(e, env, scope)
	case *tree.LogicalNotExpr, *tree.LogicalAndExpr, *tree.LogicalOrExpr,
		*tree.LogicalIffExpr, *tree.LogicalImplicationExpr, *tree.IsExpr,
		*tree.QuantifierExpr:
		// Condition-shaped expressions are boolean-valued; their
		// refinement effect is only exploited by CheckCondition, but as a
		// plain expression their type is simply Bool (spec §4.6 "other:
		// check as an ordinary expression, require boolean" applies
		// symmetrically here).
		c.checkConditionShapedAsExpr(e, env, scope)
		return tree.Bool
	case *tree.BinaryExpr:
		return c.checkBinary(e, env, scope)
	case *tree.UnaryExpr:
		return c.checkUnary(e, env, scope)
	case *tree.RecordInitialiserExpr:
		return c.checkRecordInitialiser(e, env, scope)
	case *tree.RecordAccessExpr:
		return c.checkRecordAccess(e, env, scope)
	case *tree.RecordBorrowExpr:
		return c.checkRecordBorrow(e, env, scope)
	case *tree.RecordUpdateExpr:
		return c.checkRecordUpdate(e, env, scope)
	case *tree.ArrayInitialiserExpr:
		return c.checkArrayInitialiser(e, env, scope)
	case *tree.ArrayGeneratorExpr:
		c.CheckExpr(e.Length, env, scope)
		return tree.NewArrayType(c.CheckExpr(e.Value, env, scope))
	case *tree.ArrayAccessExpr:
		return c.checkArrayAccess(e, env, scope)
	case *tree.ArrayBorrowExpr:
		return c.checkArrayBorrow(e, env, scope)
	case *tree.ArrayRangeExpr:
		c.checkIntOperand(e.Start, env, scope)
		c.checkIntOperand(e.End, env, scope)
		return tree.NewArrayType(tree.Int)
	case *tree.ArrayUpdateExpr:
		return c.checkArrayUpdate(e, env, scope)
	case *tree.DereferenceExpr:
		return c.checkDereference(e, env, scope)
	case *tree.NewExpr:
		return tree.NewReferenceType(c.CheckExpr(e.Operand, env, scope), e.Lifetime)
	case *tree.LambdaAccessExpr:
		return c.checkLambdaAccess(e, env, scope)
	case *tree.LambdaDeclExpr:
		return c.checkLambdaDeclExprType(e, env, scope)
	default:
		panic(spewUnreachable("expression", e))
	}
}

func spewUnreachable(what string, v interface{}) string {
	return "internal: unreachable " + what + " kind: " + spewDump(v)
}

func (c *Checker) checkConstant(e *tree.ConstantExpr) tree.Type {
	switch e.Literal.(type) {
	case *tree.NullLiteral:
		return tree.Null
	case *tree.BoolLiteral:
		return tree.Bool
	case *tree.IntLiteral:
		return tree.Int
	case *tree.ByteLiteral:
		return tree.Byte
	case *tree.CharLiteral:
		return tree.Int
	case *tree.StringLiteral:
		return tree.NewArrayType(tree.Int)
	default:
		panic(spewUnreachable("literal", e.Literal))
	}
}

func (c *Checker) checkInvoke(e *tree.InvokeExpr, env *Environment, scope *Scope) tree.Type {
	argTypes := c.CheckExprs(e.Args, env, scope)
	sig := c.TIO.Resolve(e.Candidate, argTypes, env, e.Span(), c.Sink)
	if sig == nil {
		return tree.Void
	}
	return returnsToType(sig.Returns)
}

func (c *Checker) checkIndirectInvoke(e *tree.IndirectInvokeExpr, env *Environment, scope *Scope) tree.Type {
	sourceType := c.CheckExpr(e.Source, env, scope)
	argTypes := c.CheckExprs(e.Args, env, scope)
	callable := c.RWE.Extract(sourceType, ReadableCallable)
	ct, ok := callable.(*tree.CallableType)
	if !ok {
		c.Sink.Report(ExpectedLambda, e.Span(), "indirect invocation target %v is not callable", sourceType.CanonicalKey())
		return tree.Void
	}
	if len(argTypes) != len(ct.Params) {
		c.Sink.Report(InsufficientArguments, e.Span(), "expected %d argument(s), found %d", len(ct.Params), len(argTypes))
		return returnsToType(ct.Returns)
	}
	for i, param := range ct.Params {
		if !c.RelaxedSO.IsSubtype(argTypes[i], param, env) {
			c.Sink.Report(SubtypeError, e.Args[i].Span(), "argument %d: expected %v, found %v", i, param.CanonicalKey(), argTypes[i].CanonicalKey())
		}
	}
	return returnsToType(ct.Returns)
}

// returnsToType collapses a callable's return tuple to the single type an
// invocation expression carries at an expression position (0 returns →
// Void, 1 → that type, many → the first return's type; the remaining
// returns are not checked anywhere, including at an AssignStmt's RHS).
func returnsToType(returns []tree.Type) tree.Type {
	switch len(returns) {
	case 0:
		return tree.Void
	case 1:
		return returns[0]
	default:
		return returns[0]
	}
}

func (c *Checker) checkConditionShapedAsExpr(e tree.Expr, env *Environment, scope *Scope) {
	c.CheckCondition(e, true, env, scope)
}

func (c *Checker) checkBinary(e *tree.BinaryExpr, env *Environment, scope *Scope) tree.Type {
	first := c.CheckExpr(e.First, env, scope)
	second := c.CheckExpr(e.Second, env, scope)

	switch {
	case e.Op.IsEquality():
		if c.StrictEO.IsVoid(tree.NewIntersection(first, second), env) {
			c.Sink.Report(IncomparableOperands, e.Span(), "operands of %v cannot overlap: %v, %v", e.Op, first.CanonicalKey(), second.CanonicalKey())
		}
		return tree.Bool
	case e.Op.IsComparison():
		c.requireIntOrByte(e.First, first, env)
		c.requireIntOrByte(e.Second, second, env)
		return tree.Bool
	default:
		c.requireIntOrByte(e.First, first, env)
		c.requireIntOrByte(e.Second, second, env)
		if tree.IsVoidAtom(first) || !c.RelaxedSO.IsSubtype(first, tree.Byte, env) {
			return tree.Int
		}
		return tree.Byte
	}
}

func (c *Checker) requireIntOrByte(e tree.Expr, t tree.Type, lt LifetimeRelation) {
	if !c.RelaxedSO.IsSubtype(t, tree.NewUnion(tree.Int, tree.Byte), lt) {
		c.Sink.Report(SubtypeError, e.Span(), "expected int or byte, found %v", t.CanonicalKey())
	}
}

func (c *Checker) checkUnary(e *tree.UnaryExpr, env *Environment, scope *Scope) tree.Type {
	operand := c.CheckExpr(e.Operand, env, scope)
	switch e.Op {
	case tree.UnaryOpIntegerNeg:
		c.requireIntOrByte(e.Operand, operand, env)
		return tree.Int
	case tree.UnaryOpBitwiseNot:
		c.requireIntOrByte(e.Operand, operand, env)
		return tree.Byte
	case tree.UnaryOpArrayLength:
		if c.RWE.Extract(operand, ReadableArray) == nil {
			c.Sink.Report(ExpectedArray, e.Span(), "expected array, found %v", operand.CanonicalKey())
		}
		return tree.Int
	case tree.UnaryOpDereference:
		return c.derefType(operand, e, env)
	default:
		panic(spewUnreachable("unary op", e.Op))
	}
}

func (c *Checker) checkIntOperand(e tree.Expr, env *Environment, scope *Scope) {
	t := c.CheckExpr(e, env, scope)
	c.requireIntOrByte(e, t, env)
}

func (c *Checker) checkRecordInitialiser(e *tree.RecordInitialiserExpr, env *Environment, scope *Scope) tree.Type {
	fields := NewMap[Identifier, tree.Type]()
	for _, name := range e.Order {
		fields[name] = c.CheckExpr(e.Fields[name], env, scope)
	}
	return tree.NewRecordType(false, e.Order, fields)
}

func (c *Checker) checkRecordAccess(e *tree.RecordAccessExpr, env *Environment, scope *Scope) tree.Type {
	sourceType := c.CheckExpr(e.Source, env, scope)
	rec := c.expectReadableRecord(sourceType, e.Span())
	if rec == nil {
		return tree.Void
	}
	ft, ok := rec.Fields.Get(e.Field)
	if !ok {
		c.Sink.Report(InvalidField, e.Span(), "no field %v in %v", e.Field, rec.CanonicalKey())
		return tree.Void
	}
	return ft
}

func (c *Checker) checkRecordBorrow(e *tree.RecordBorrowExpr, env *Environment, scope *Scope) tree.Type {
	sourceType := c.CheckExpr(e.Source, env, scope)
	rec := c.expectReadableRecord(sourceType, e.Span())
	if rec == nil {
		return tree.Void
	}
	ft, ok := rec.Fields.Get(e.Field)
	if !ok {
		c.Sink.Report(InvalidField, e.Span(), "no field %v in %v", e.Field, rec.CanonicalKey())
		return tree.Void
	}
	return tree.NewReferenceType(ft, e.Lifetime)
}

func (c *Checker) checkRecordUpdate(e *tree.RecordUpdateExpr, env *Environment, scope *Scope) tree.Type {
	sourceType := c.CheckExpr(e.Source, env, scope)
	valueType := c.CheckExpr(e.Value, env, scope)
	rec := c.expectWriteableRecord(sourceType, e.Span())
	if rec == nil {
		return tree.Void
	}
	ft, ok := rec.Fields.Get(e.Field)
	if !ok {
		c.Sink.Report(InvalidField, e.Span(), "no field %v in %v", e.Field, rec.CanonicalKey())
		return sourceType
	}
	if !c.RelaxedSO.IsSubtype(valueType, ft, env) {
		c.Sink.Report(SubtypeError, e.Span(), "cannot update field %v with %v, expected %v", e.Field, valueType.CanonicalKey(), ft.CanonicalKey())
	}
	return sourceType
}

func (c *Checker) expectReadableRecord(t tree.Type, span source.Span) *tree.RecordType {
	rec, ok := c.RWE.Extract(t, ReadableRecord).(*tree.RecordType)
	if !ok {
		c.Sink.Report(ExpectedRecord, span, "expected record, found %v", t.CanonicalKey())
		return nil
	}
	return rec
}

func (c *Checker) expectWriteableRecord(t tree.Type, span source.Span) *tree.RecordType {
	rec, ok := c.RWE.Extract(t, WriteableRecord).(*tree.RecordType)
	if !ok {
		c.Sink.Report(ExpectedRecord, span, "expected record, found %v", t.CanonicalKey())
		return nil
	}
	return rec
}

func (c *Checker) checkArrayInitialiser(e *tree.ArrayInitialiserExpr, env *Environment, scope *Scope) tree.Type {
	if len(e.Elements) == 0 {
		return tree.NewArrayType(tree.Void)
	}
	elemTypes := c.CheckExprs(e.Elements, env, scope)
	return tree.NewArrayType(tree.NewUnion(elemTypes...))
}

func (c *Checker) checkArrayAccess(e *tree.ArrayAccessExpr, env *Environment, scope *Scope) tree.Type {
	sourceType := c.CheckExpr(e.Source, env, scope)
	c.checkIntOperand(e.Index, env, scope)
	arr := c.expectReadableArray(sourceType, e.Span())
	if arr == nil {
		return tree.Void
	}
	return arr.Elem
}

func (c *Checker) checkArrayBorrow(e *tree.ArrayBorrowExpr, env *Environment, scope *Scope) tree.Type {
	sourceType := c.CheckExpr(e.Source, env, scope)
	c.checkIntOperand(e.Index, env, scope)
	arr := c.expectReadableArray(sourceType, e.Span())
	if arr == nil {
		return tree.Void
	}
	return tree.NewReferenceType(arr.Elem, e.Lifetime)
}

func (c *Checker) checkArrayUpdate(e *tree.ArrayUpdateExpr, env *Environment, scope *Scope) tree.Type {
	sourceType := c.CheckExpr(e.Source, env, scope)
	c.checkIntOperand(e.Index, env, scope)
	valueType := c.CheckExpr(e.Value, env, scope)
	arr, ok := c.RWE.Extract(sourceType, WriteableArray).(*tree.ArrayType)
	if !ok {
		c.Sink.Report(ExpectedArray, e.Span(), "expected array, found %v", sourceType.CanonicalKey())
		return sourceType
	}
	if !c.RelaxedSO.IsSubtype(valueType, arr.Elem, env) {
		c.Sink.Report(SubtypeError, e.Span(), "cannot store %v into array of %v", valueType.CanonicalKey(), arr.Elem.CanonicalKey())
	}
	return sourceType
}

func (c *Checker) expectReadableArray(t tree.Type, span source.Span) *tree.ArrayType {
	arr, ok := c.RWE.Extract(t, ReadableArray).(*tree.ArrayType)
	if !ok {
		c.Sink.Report(ExpectedArray, span, "expected array, found %v", t.CanonicalKey())
		return nil
	}
	return arr
}

func (c *Checker) checkDereference(e *tree.DereferenceExpr, env *Environment, scope *Scope) tree.Type {
	operand := c.CheckExpr(e.Operand, env, scope)
	return c.derefType(operand, e, env)
}

func (c *Checker) derefType(t tree.Type, e tree.Expr, env *Environment) tree.Type {
	ref, ok := c.RWE.Extract(t, ReadableReference).(*tree.ReferenceType)
	if !ok {
		c.Sink.Report(ExpectedReference, e.Span(), "expected reference, found %v", t.CanonicalKey())
		return tree.Void
	}
	return ref.Elem
}

func (c *Checker) checkLambdaAccess(e *tree.LambdaAccessExpr, env *Environment, scope *Scope) tree.Type {
	if len(e.Candidate.Candidates) == 1 {
		cand := e.Candidate.Candidates[0]
		e.Candidate.Resolve(cand)
		return cand.Signature()
	}
	c.Sink.Report(AmbiguousCallable, e.Span(), "ambiguous lambda reference %v among %d candidates", e.Name, len(e.Candidate.Candidates))
	return tree.Void
}

func (c *Checker) checkLambdaDeclExprType(e *tree.LambdaDeclExpr, env *Environment, scope *Scope) tree.Type {
	return c.checkLambdaDeclNode(e.Decl, env, scope)
}

// checkLambdaDeclNode checks a lambda's body against its own synthetic
// FunctionOrMethodDecl (mirroring checkPropertyDecl's synthetic-decl
// pattern), so Return statements inside the lambda resolve against the
// lambda's own declared returns rather than whatever function lexically
// encloses it, and a missing return is caught the same way it is for a
// top-level function (P6).
func (c *Checker) checkLambdaDeclNode(d *tree.LambdaDeclNode, env *Environment, scope *Scope) tree.Type {
	innerScope := PushFunction(scope, &tree.FunctionOrMethodDecl{
		Kind:      d.Kind,
		Lifetimes: d.Lifetimes,
		Params:    d.Params,
		Returns:   d.Returns,
		Body:      d.Body,
	})

	lambdaEnv := env.WithLifetime(ThisLifetime)
	for _, l := range d.Lifetimes {
		lambdaEnv = lambdaEnv.WithLifetime(l, ThisLifetime)
	}
	for _, p := range d.Params {
		lambdaEnv = lambdaEnv.Extend(p, p.DeclaredType)
	}
	for _, r := range d.Returns {
		lambdaEnv = lambdaEnv.Extend(r, r.DeclaredType)
	}

	final := c.CheckStmts(d.Body, lambdaEnv, innerScope)
	if !final.IsBottom() && len(d.Returns) > 0 {
		c.Sink.Report(MissingReturnStatement, d.Span(), "missing return statement in lambda")
	}
	return d.Signature()
}
