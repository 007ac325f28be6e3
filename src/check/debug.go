package check

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
)

// Debug toggles, ported from the reference's check/debug.go: a handful of
// independently switchable trace channels rather than a structured logging
// library, because a type checker's trace is a development aid read by its
// own author, not an operational log stream consumed downstream.
var (
	DebugAll     = flag.Bool("debug", false, "debug all")
	DebugEnv     = flag.Bool("debug-env", false, "debug environment refinement/join")
	DebugSubtype = flag.Bool("debug-subtype", false, "debug emptiness/subtype queries")
	DebugInfer   = flag.Bool("debug-infer", false, "debug type-inference oracle candidate elimination")
	DebugChecker = flag.Bool("debug-checker", false, "debug flow checker declaration/statement walk")

	DebugWriter io.Writer = os.Stdout
)

func EnvPrintf(format string, args ...interface{}) {
	if *DebugAll || *DebugEnv {
		mustFprintf(format, args...)
	}
}

func SubtypePrintf(format string, args ...interface{}) {
	if *DebugAll || *DebugSubtype {
		mustFprintf(format, args...)
	}
}

func InferPrintf(format string, args ...interface{}) {
	if *DebugAll || *DebugInfer {
		mustFprintf(format, args...)
	}
}

func CheckerPrintf(format string, args ...interface{}) {
	if *DebugAll || *DebugChecker {
		mustFprintf(format, args...)
	}
}

func mustFprintf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(DebugWriter, format, args...); err != nil {
		panic(err)
	}
}

// spewDump renders an operand for inclusion in an internal-failure panic
// message reached from an unreachable switch branch (a malformed or
// out-of-algebra node shape slipped past construction).
func spewDump(v interface{}) string {
	return spew.Sdump(v)
}
