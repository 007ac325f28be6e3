package compile

import (
	"sync"

	. "github.com/VijayEluri/WhileyCompiler/check"
	"github.com/VijayEluri/WhileyCompiler/common"
	"github.com/VijayEluri/WhileyCompiler/tree"
)

// Unit is the top-level entry point (spec §4.8), grounded on the
// reference's CompilationUnit stripped down to what remains once file and
// package loading are out of scope: it owns a flat slice of top-level
// declarations handed to it by whatever external front end produced them
// (spec §6) and exposes Check/CheckParallel.
type Unit struct {
	Decls []tree.Decl
}

func NewUnit(decls []tree.Decl) *Unit {
	return &Unit{Decls: decls}
}

// Check runs a single-threaded, synchronous pass over every declaration
// (spec §5's default mode), wrapped in common.Try so an internal-failure
// panic is converted into a returned error instead of crashing the host
// process (spec §7).
func (u *Unit) Check() (ok bool, diagnostics []Diagnostic, err error) {
	_, tryErr, _ := common.Try(func() struct{} {
		checker := NewChecker()
		checker.CheckUnit(u.unitDecl())
		ok = checker.Sink.OK()
		diagnostics = checker.Sink.Diagnostics()
		return struct{}{}
	})
	return ok, diagnostics, tryErr
}

// CheckParallel fans checking of top-level declarations out across a
// worker pool (spec §4.9), since each declaration's check is a pure
// function of (decl, module-level resolved links). Each worker checks its
// chunk with its own Checker and its own Sink; the workers share one set
// of oracles, so the EO memo tables (each guarded by a sync.Mutex) are
// shared. Per-worker diagnostics are appended after the contractiveness
// diagnostics in chunk order.
func (u *Unit) CheckParallel(workers int) (ok bool, diagnostics []Diagnostic, err error) {
	if workers < 1 {
		workers = 1
	}

	_, tryErr, _ := common.Try(func() struct{} {
		checker := NewChecker()

		var typeDecls []*tree.TypeDecl
		for _, d := range u.Decls {
			if td, isType := d.(*tree.TypeDecl); isType {
				typeDecls = append(typeDecls, td)
			}
		}
		CheckContractive(typeDecls, checker.Sink)

		// Partition into contiguous chunks rather than a shared work
		// queue: each worker's slice is already in declaration order, so
		// concatenating chunk 0..workers-1 at the end reproduces
		// declaration order regardless of how goroutines are scheduled
		// (spec §4.9: "diagnostic order remains deterministic").
		perWorker := make([][]Diagnostic, workers)
		chunkSize := (len(u.Decls) + workers - 1) / workers
		if chunkSize == 0 {
			chunkSize = 1
		}

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			start := w * chunkSize
			end := start + chunkSize
			if start >= len(u.Decls) {
				continue
			}
			if end > len(u.Decls) {
				end = len(u.Decls)
			}

			wg.Add(1)
			workerID := w
			go func(lo, hi int) {
				defer wg.Done()
				localSink := NewSink()
				localChecker := &Checker{
					StrictEO:  checker.StrictEO,
					RelaxedEO: checker.RelaxedEO,
					StrictSO:  checker.StrictSO,
					RelaxedSO: checker.RelaxedSO,
					RWE:       checker.RWE,
					CTE:       checker.CTE,
					TIO:       checker.TIO,
					Sink:      localSink,
				}
				for idx := lo; idx < hi; idx++ {
					localChecker.CheckDecl(u.Decls[idx], nil)
				}
				perWorker[workerID] = localSink.Diagnostics()
			}(start, end)
		}
		wg.Wait()

		allOK := checker.Sink.OK()
		var all []Diagnostic
		all = append(all, checker.Sink.Diagnostics()...)
		for _, ds := range perWorker {
			if len(ds) > 0 {
				allOK = false
			}
			all = append(all, ds...)
		}

		ok = allOK
		diagnostics = all
		return struct{}{}
	})
	return ok, diagnostics, tryErr
}

func (u *Unit) unitDecl() *tree.UnitDecl {
	return &tree.UnitDecl{Decls: u.Decls}
}
