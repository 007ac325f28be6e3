// Package source defines the fixed contract between this checker and the
// syntactic substrate that owns lexing, parsing and source position
// tracking (deliberately out of scope per spec §1/§6). The checker never
// computes a Span; it only stores whatever the front end attached to a node
// and rethrows it inside diagnostics.
package source

import "strconv"

// File identifies the origin of a Span without the checker needing to read
// or even open it.
type File struct {
	Path string
}

// Span is a half-open byte interval [Start, End) within a File, adapted
// from the pack's daios-ai-msg span-index design (spans.go) into a value
// embedded directly on AST nodes rather than kept in a side table, since
// this checker mutates nodes in place.
type Span struct {
	File  *File
	Start int
	End   int
}

// NoSpan is returned by synthetic nodes that have no corresponding source
// text (e.g. built-in declarations).
var NoSpan = Span{}

func (s Span) String() string {
	if s.File == nil {
		return "<no-span>"
	}
	return s.File.Path + "@" + strconv.Itoa(s.Start) + ":" + strconv.Itoa(s.End)
}
