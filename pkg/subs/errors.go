package subs

import "fmt"

// InputFormatError reports malformed substitution input. It is fatal: the
// orchestrator aborts before processing any row because the row boundaries
// themselves are unreliable.
type InputFormatError struct {
	// Source is the location string of the offending input.
	Source string

	// Row is the 1-based data row (or line) where parsing failed, 0 when the
	// failure is not attributable to a single row.
	Row int

	// Err is the underlying parser error.
	Err error
}

func (e *InputFormatError) Error() string {
	switch {
	case e.Source != "" && e.Row > 0:
		return fmt.Sprintf("subs: %s: row %d: %v", e.Source, e.Row, e.Err)
	case e.Source != "":
		return fmt.Sprintf("subs: %s: %v", e.Source, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("subs: row %d: %v", e.Row, e.Err)
	default:
		return fmt.Sprintf("subs: %v", e.Err)
	}
}

func (e *InputFormatError) Unwrap() error { return e.Err }

// ConfigurationError reports an invalid combination of inputs, detected
// before any row is processed.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "subs: invalid configuration: " + e.Reason
}
