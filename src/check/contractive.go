package check

import (
	"fmt"

	"github.com/VijayEluri/WhileyCompiler/algos"
	"github.com/VijayEluri/WhileyCompiler/tree"
)

// CheckContractive verifies that no TypeDecl in decls sits on a cycle of
// "bare nominal references" (spec §4.2): an edge exists from D to E only
// when E's name occurs in D's body without the occurrence crossing an
// Array, Record, Reference, Callable or Atom constructor. Union,
// Intersection and Negation do not block an edge, per the wording of the
// contractiveness rule — only those five constructors make a recursive
// occurrence productive.
func CheckContractive(decls []*tree.TypeDecl, sink *Sink) {
	nodes := make(map[string]*tree.TypeDecl, len(decls))
	for _, d := range decls {
		nodes[d.Name.Value] = d
	}

	edges := func(d *tree.TypeDecl) map[string]struct{} {
		out := map[string]struct{}{}
		collectBareNominals(d.Body, nodes, out)
		return out
	}

	cycle := algos.FindCycle(nodes, edges)
	if len(cycle) == 0 {
		return
	}

	names := make([]string, len(cycle))
	for i, d := range cycle {
		names[i] = d.Name.Value
	}
	first := cycle[0]
	sink.Report(EmptyType, first.Span(), "non-contractive cycle among types: %v", names)
}

func collectBareNominals(t tree.Type, universe map[string]*tree.TypeDecl, out map[string]struct{}) {
	switch t := t.(type) {
	case *tree.NominalType:
		if _, ok := universe[t.Name.Value]; ok {
			out[t.Name.Value] = struct{}{}
		}
	case *tree.UnionType:
		for _, c := range t.Children {
			collectBareNominals(c, universe, out)
		}
	case *tree.IntersectionType:
		for _, c := range t.Children {
			collectBareNominals(c, universe, out)
		}
	case *tree.NegationType:
		collectBareNominals(t.Child, universe, out)
	case *tree.ArrayType, *tree.RecordType, *tree.ReferenceType, *tree.CallableType, *tree.AtomType:
		// Productive constructors: any nominal beneath them is reached
		// through at least one layer of storage, so it cannot contribute
		// to a non-contractive cycle.
		return
	default:
		panic(fmt.Sprintf("internal: unreachable type kind in contractiveness walk: %T; dump: %v", t, spewDump(t)))
	}
}
