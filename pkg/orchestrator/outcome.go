package orchestrator

// RowOutcome records the terminal state of one substitution row.
type RowOutcome struct {
	// Row is the 1-based position of the row in the input.
	Row int

	// OutputPath is the resolved artifact path. Populated on success, and on
	// compile failures where naming already succeeded.
	OutputPath string

	// Err is nil for successful rows. For failed rows it is the render,
	// naming, or compile error that stopped the row.
	Err error

	// Diagnostics carries the compiler's captured output for failed
	// compiles. Empty for render and naming failures.
	Diagnostics []byte
}

// OK reports whether the row produced its artifact.
func (o RowOutcome) OK() bool {
	return o.Err == nil
}

// Report is the ordered batch result: one outcome per input row, in input
// order, regardless of per-row success or failure.
type Report struct {
	Outcomes []RowOutcome
}

// Succeeded counts rows that produced artifacts.
func (r Report) Succeeded() int {
	n := 0
	for _, outcome := range r.Outcomes {
		if outcome.OK() {
			n++
		}
	}
	return n
}

// Failed counts rows that did not produce artifacts.
func (r Report) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// OK reports whether every row succeeded.
func (r Report) OK() bool {
	return r.Failed() == 0
}
