package check

import (
	"fmt"

	"github.com/VijayEluri/WhileyCompiler/source"
)

// Code is one of the error codes emitted verbatim for round-trip
// compatibility with upstream error-message catalogues (spec §6).
type Code string

const (
	SubtypeError           Code = "SUBTYPE_ERROR"
	EmptyType              Code = "EMPTY_TYPE"
	ExpectedArray          Code = "EXPECTED_ARRAY"
	ExpectedRecord         Code = "EXPECTED_RECORD"
	ExpectedReference      Code = "EXPECTED_REFERENCE"
	ExpectedLambda         Code = "EXPECTED_LAMBDA"
	InvalidField           Code = "INVALID_FIELD"
	IncomparableOperands   Code = "INCOMPARABLE_OPERANDS"
	BranchAlwaysTaken      Code = "BRANCH_ALWAYS_TAKEN"
	AmbiguousCallable      Code = "AMBIGUOUS_CALLABLE"
	InsufficientReturns    Code = "INSUFFICIENT_RETURNS"
	TooManyReturns         Code = "TOO_MANY_RETURNS"
	InsufficientArguments  Code = "INSUFFICIENT_ARGUMENTS"
	MissingReturnStatement Code = "MISSING_RETURN_STATEMENT"
	UnreachableCode        Code = "UNREACHABLE_CODE"
)

// Diagnostic is one user-error report (spec §7 tier 1: "source program is
// ill-typed"). Every emission sets the owning Sink's status flag false but
// never aborts checking.
type Diagnostic struct {
	Code    Code
	Span    source.Span
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Code, d.Message)
}

// Sink accumulates diagnostics across an entire Check pass and tracks the
// "no errors seen" status flag (spec §6/§7). It is set, never cleared.
type Sink struct {
	diagnostics []Diagnostic
	ok          bool
}

func NewSink() *Sink {
	return &Sink{ok: true}
}

func (s *Sink) Report(code Code, span source.Span, format string, args ...interface{}) {
	s.ok = false
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Code:    code,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	})
}

func (s *Sink) OK() bool {
	return s.ok
}

func (s *Sink) Diagnostics() []Diagnostic {
	return s.diagnostics
}
