package check

import (
	. "github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/tree"
)

// ProjectionKind is one of RWE's seven shapes (spec §4.3).
type ProjectionKind int

const (
	ReadableArray ProjectionKind = iota
	WriteableArray
	ReadableRecord
	WriteableRecord
	ReadableReference
	WriteableReference
	ReadableCallable
)

func (k ProjectionKind) readable() bool {
	switch k {
	case ReadableArray, ReadableRecord, ReadableReference, ReadableCallable:
		return true
	default:
		return false
	}
}

// ReadWriteExtractor projects a semantic type onto the requested shape,
// combining across Union/Intersection per spec §4.3's asymmetric rule:
// reads combine via union (any branch's value must be acceptable), writes
// combine via intersection (a written value must fit every branch).
type ReadWriteExtractor struct{}

func NewReadWriteExtractor() *ReadWriteExtractor { return &ReadWriteExtractor{} }

// Extract returns the projected shape, or nil if t carries no shape of
// kind k.
func (rw *ReadWriteExtractor) Extract(t tree.Type, k ProjectionKind) tree.Type {
	switch t := t.(type) {
	case *tree.UnionType:
		return rw.combine(t.Children, k, k.readable())
	case *tree.IntersectionType:
		return rw.combine(t.Children, k, !k.readable())
	default:
		return rw.extractDirect(t, k)
	}
}

// combine extracts from every child and folds the results with union
// (useUnion=true) or intersection; any nil child extraction makes an
// intersection-fold fail (nil propagates), while a union-fold simply
// fails outright too — spec §4.3: "If any child yields null, the union
// yields null" applies to the readable case, and by the Union/Intersection
// duality the same holds for writeable combination over an Intersection.
func (rw *ReadWriteExtractor) combine(children []tree.Type, k ProjectionKind, useUnion bool) tree.Type {
	var acc tree.Type
	for i, c := range children {
		extracted := rw.Extract(c, k)
		if extracted == nil {
			return nil
		}
		if i == 0 {
			acc = extracted
			continue
		}
		acc = rw.fold(acc, extracted, k, useUnion)
		if acc == nil {
			return nil
		}
	}
	return acc
}

// fold combines two same-kind projected shapes field-wise (records),
// element-wise (arrays/references) or structurally (callables).
func (rw *ReadWriteExtractor) fold(a, b tree.Type, k ProjectionKind, useUnion bool) tree.Type {
	combineT := func(x, y tree.Type) tree.Type {
		if useUnion {
			return tree.NewUnion(x, y)
		}
		return tree.NewIntersection(x, y)
	}

	switch k {
	case ReadableArray, WriteableArray:
		aa, ok1 := a.(*tree.ArrayType)
		ab, ok2 := b.(*tree.ArrayType)
		if !ok1 || !ok2 {
			return nil
		}
		return tree.NewArrayType(combineT(aa.Elem, ab.Elem))
	case ReadableReference, WriteableReference:
		ra, ok1 := a.(*tree.ReferenceType)
		rb, ok2 := b.(*tree.ReferenceType)
		if !ok1 || !ok2 {
			return nil
		}
		return tree.NewReferenceType(combineT(ra.Elem, rb.Elem), ra.Lifetime)
	case ReadableRecord, WriteableRecord:
		recA, ok1 := a.(*tree.RecordType)
		recB, ok2 := b.(*tree.RecordType)
		if !ok1 || !ok2 {
			return nil
		}
		fields := make(map[string]tree.Type)
		order := []Identifier{}
		seen := map[string]bool{}
		addOrder := func(id Identifier) {
			if !seen[id.Value] {
				seen[id.Value] = true
				order = append(order, id)
			}
		}
		for name, ty := range recA.Fields {
			if other, ok := recB.Fields.Get(name); ok {
				fields[name.Value] = combineT(ty, other)
				addOrder(name)
			} else if useUnion && recB.Open {
				fields[name.Value] = ty
				addOrder(name)
			} else if !useUnion {
				return nil
			}
		}
		for name, ty := range recB.Fields {
			if _, ok := fields[name.Value]; !ok {
				if useUnion && recA.Open {
					fields[name.Value] = ty
					addOrder(name)
				} else if !useUnion {
					return nil
				}
			}
		}
		fieldMap := NewMap[Identifier, tree.Type]()
		for _, id := range order {
			fieldMap[id] = fields[id.Value]
		}
		return tree.NewRecordType(recA.Open && recB.Open, order, fieldMap)
	case ReadableCallable:
		ca, ok1 := a.(*tree.CallableType)
		cb, ok2 := b.(*tree.CallableType)
		if !ok1 || !ok2 || len(ca.Params) != len(cb.Params) || len(ca.Returns) != len(cb.Returns) {
			return nil
		}
		params := make([]tree.Type, len(ca.Params))
		for i := range ca.Params {
			// parameters are contravariant in a callable; they always
			// combine by intersection, whichever way the returns combine,
			// so the combined shape accepts only arguments that both
			// branches accept.
			params[i] = tree.NewIntersection(ca.Params[i], cb.Params[i])
		}
		returns := make([]tree.Type, len(ca.Returns))
		for i := range ca.Returns {
			returns[i] = combineT(ca.Returns[i], cb.Returns[i])
		}
		return tree.NewCallableType(ca.Kind.Meet(cb.Kind), params, returns, nil)
	default:
		return nil
	}
}

func (rw *ReadWriteExtractor) extractDirect(t tree.Type, k ProjectionKind) tree.Type {
	switch k {
	case ReadableArray, WriteableArray:
		if a, ok := t.(*tree.ArrayType); ok {
			return a
		}
	case ReadableRecord, WriteableRecord:
		if r, ok := t.(*tree.RecordType); ok {
			return r
		}
	case ReadableReference, WriteableReference:
		if r, ok := t.(*tree.ReferenceType); ok {
			return r
		}
	case ReadableCallable:
		if c, ok := t.(*tree.CallableType); ok {
			return c
		}
	}
	if tree.IsAnyAtom(t) {
		return nil
	}
	return nil
}
