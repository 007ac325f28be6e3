package check

import "github.com/VijayEluri/WhileyCompiler/tree"

// CheckLVal returns the declared (never flow-refined) type of e's root
// variable, so that assignments are constrained only by the declaration —
// this preserves the ability to widen on write (spec §4.6).
func (c *Checker) CheckLVal(e tree.Expr, env *Environment, scope *Scope) tree.Type {
	switch e := e.(type) {
	case *tree.VariableAccessExpr:
		return e.Decl.DeclaredType

	case *tree.RecordAccessExpr:
		sourceDeclared := c.CheckLVal(e.Source, env, scope)
		rec := c.expectWriteableRecord(sourceDeclared, e.Span())
		if rec == nil {
			return tree.Void
		}
		ft, ok := rec.Fields.Get(e.Field)
		if !ok {
			c.Sink.Report(InvalidField, e.Span(), "no field %v in %v", e.Field, rec.CanonicalKey())
			return tree.Void
		}
		return ft

	case *tree.ArrayAccessExpr:
		sourceDeclared := c.CheckLVal(e.Source, env, scope)
		c.checkIntOperand(e.Index, env, scope)
		arr, ok := c.RWE.Extract(sourceDeclared, WriteableArray).(*tree.ArrayType)
		if !ok {
			c.Sink.Report(ExpectedArray, e.Span(), "expected array, found %v", sourceDeclared.CanonicalKey())
			return tree.Void
		}
		return arr.Elem

	case *tree.DereferenceExpr:
		sourceType := c.CheckExpr(e.Operand, env, scope)
		ref, ok := c.RWE.Extract(sourceType, WriteableReference).(*tree.ReferenceType)
		if !ok {
			c.Sink.Report(ExpectedReference, e.Span(), "expected reference, found %v", sourceType.CanonicalKey())
			return tree.Void
		}
		return ref.Elem

	default:
		// Non-lval-shaped expression reached as an assignment target: an
		// internal failure, since only the four shapes above are ever
		// produced in l-value position by a well-formed front end.
		panic(spewUnreachable("l-value", e))
	}
}
