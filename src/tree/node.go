package tree

import (
	"github.com/VijayEluri/WhileyCompiler/source"
)

// Node is the common interface of every AST node the checker consumes.
// Position tracking is a pass-through: the checker never computes a Span,
// it only reads the one the (out-of-scope) front end attached.
type Node interface {
	Span() source.Span
}

// NodeBase is embedded by every concrete node and carries its Span plus the
// slots the checker writes back into the AST (spec §6 "Output").
type NodeBase struct {
	span source.Span
}

func (n *NodeBase) Span() source.Span {
	return n.span
}

func (n *NodeBase) SetSpan(s source.Span) {
	n.span = s
}

// Link is a mutable cell bridging name resolution's candidate set to this
// checker's resolved binding (SPEC_FULL §6). It starts holding a non-empty
// candidate set and, once TIO or nominal lookup succeeds, is overwritten
// with a unique resolved value.
type Link[T any] struct {
	Candidates []T
	Resolved   *T
}

func NewLink[T any](candidates ...T) *Link[T] {
	return &Link[T]{Candidates: candidates}
}

func (l *Link[T]) Resolve(v T) {
	l.Resolved = &v
}

func (l *Link[T]) IsResolved() bool {
	return l.Resolved != nil
}

func (l *Link[T]) MustResolved() T {
	if l.Resolved == nil {
		panic("internal: link accessed before resolution")
	}
	return *l.Resolved
}
