package render

import "fmt"

// UndefinedVariableError reports a template variable with no value in the
// row's mapping. It is recoverable at the batch level: the orchestrator
// records the row as failed and moves on.
type UndefinedVariableError struct {
	// Variable is the name the template references.
	Variable string

	// Template is the spec name, when known.
	Template string
}

func (e *UndefinedVariableError) Error() string {
	if e.Template != "" {
		return fmt.Sprintf("render: %s: undefined variable %q", e.Template, e.Variable)
	}
	return fmt.Sprintf("render: undefined variable %q", e.Variable)
}

// SyntaxError reports a malformed template, such as an unterminated variable
// marker. Template syntax problems surface before any row is processed.
type SyntaxError struct {
	// Template is the spec name, when known.
	Template string

	// Offset is the byte offset of the offending marker.
	Offset int

	// Err is the underlying cause.
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Template != "" {
		return fmt.Sprintf("render: %s: offset %d: %v", e.Template, e.Offset, e.Err)
	}
	return fmt.Sprintf("render: offset %d: %v", e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
