package compiler

import "fmt"

// ToolUnavailableError reports that an engine binary could not be resolved.
// It aborts a whole batch: without the tool no row can succeed.
type ToolUnavailableError struct {
	Tool string
	Err  error
}

func (e *ToolUnavailableError) Error() string {
	return fmt.Sprintf("compiler: %s not available: %v", e.Tool, e.Err)
}

func (e *ToolUnavailableError) Unwrap() error { return e.Err }

// CompileError reports a failed compile for one document: a non-zero engine
// exit, or an engine that exited cleanly without producing its artifact. It
// is recoverable at the batch level.
type CompileError struct {
	Tool     string
	ExitCode int
	Reason   string
}

func (e *CompileError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("compiler: %s: %s", e.Tool, e.Reason)
	}
	return fmt.Sprintf("compiler: %s exited with code %d", e.Tool, e.ExitCode)
}
