package check

// Checker owns the shared instances every Flow Checker operation routes
// through: two Emptiness Oracle flavours, their Subtype Operators, the
// Read/Write and Concrete Type Extractors, the Type-Inference Oracle, and
// the diagnostic Sink accumulating across an entire Check pass (spec §2).
type Checker struct {
	StrictEO  *EmptinessOracle
	RelaxedEO *EmptinessOracle

	StrictSO  *SubtypeOperator
	RelaxedSO *SubtypeOperator

	RWE *ReadWriteExtractor
	CTE *ConcreteTypeExtractor
	TIO *TypeInferenceOracle

	Sink *Sink

	// loop is the innermost loopContext currently being checked, consulted
	// by Break/Continue and populated by checkWhileStmt/checkDoWhileStmt
	// (spec §9). nil outside any loop.
	loop *loopContext
}

// NewChecker wires the component graph once per Check pass (spec §2's
// "all subtyping queries route through SO→EO").
func NewChecker() *Checker {
	strictEO := NewEmptinessOracle(true)
	relaxedEO := NewEmptinessOracle(false)
	relaxedSO := NewSubtypeOperator(relaxedEO)

	return &Checker{
		StrictEO:  strictEO,
		RelaxedEO: relaxedEO,
		StrictSO:  NewSubtypeOperator(strictEO),
		RelaxedSO: relaxedSO,
		RWE:       NewReadWriteExtractor(),
		CTE:       NewConcreteTypeExtractor(strictEO),
		TIO:       NewTypeInferenceOracle(relaxedSO),
		Sink:      NewSink(),
	}
}
