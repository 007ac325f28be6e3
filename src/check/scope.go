package check

import (
	. "github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/tree"
)

// Scope is one frame of the Enclosing Scope Stack (spec §4.7): a
// FunctionOrMethodScope holding the declaration under check, or a
// NamedBlockScope adding one lifetime name. Lookup walks outward by kind.
type Scope struct {
	parent *Scope

	// set on a FunctionOrMethodScope
	decl *tree.FunctionOrMethodDecl

	// set on a NamedBlockScope
	lifetimeName Identifier
	isBlock      bool
}

// PushFunction opens a new FunctionOrMethodScope, which implicitly
// declares the lifetime `this` (spec §4.7).
func PushFunction(parent *Scope, decl *tree.FunctionOrMethodDecl) *Scope {
	return &Scope{parent: parent, decl: decl}
}

// PushNamedBlock opens a new NamedBlockScope adding name to the
// within-relation.
func PushNamedBlock(parent *Scope, name Identifier) *Scope {
	return &Scope{parent: parent, lifetimeName: name, isBlock: true}
}

// EnclosingFunction walks outward to the nearest FunctionOrMethodScope,
// used when checking Return statements to know the expected return types.
func (s *Scope) EnclosingFunction() *tree.FunctionOrMethodDecl {
	for cur := s; cur != nil; cur = cur.parent {
		if !cur.isBlock {
			return cur.decl
		}
	}
	return nil
}

// DeclaredLifetimes collects every lifetime name declared by enclosing
// scopes, innermost first: every NamedBlockScope's name plus, for every
// enclosing FunctionOrMethodScope, `this` and that function's own declared
// lifetime parameters. Consulted when a NamedBlockStmt extends the
// within-relation to cover "all currently declared lifetimes" (spec §4.6).
func (s *Scope) DeclaredLifetimes() []Identifier {
	var out []Identifier
	for cur := s; cur != nil; cur = cur.parent {
		if cur.isBlock {
			out = append(out, cur.lifetimeName)
			continue
		}
		out = append(out, ThisLifetime)
		out = append(out, cur.decl.Lifetimes...)
	}
	return out
}
