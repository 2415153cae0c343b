package compiler

import "context"

// Result captures one compile attempt. ExitCode and Output are populated
// whenever the engine actually ran, including failed runs.
type Result struct {
	// ExitCode is the engine process exit status.
	ExitCode int

	// Output is the engine's combined stdout and stderr.
	Output []byte

	// Log holds the engine's log file contents when the run failed and a log
	// was produced. Empty on success.
	Log []byte

	// ArtifactPath is the produced document inside the working directory,
	// empty when no artifact was produced.
	ArtifactPath string
}

// Compiler turns rendered document text into a binary artifact by invoking
// an external engine bounded to workDir. Intermediate files are scoped to
// jobName and removed regardless of outcome; only the artifact survives.
//
// A failed compile returns a *CompileError alongside a populated Result so
// callers keep the diagnostics. A missing engine binary returns a
// *ToolUnavailableError, which is fatal to a batch: no row can succeed
// without the tool.
type Compiler interface {
	Name() string

	// Extension is the artifact extension including the dot, e.g. ".pdf".
	Extension() string

	// Available reports whether the engine binary can be resolved. Batch
	// runners call this once up front so a missing tool aborts before any
	// row is attempted.
	Available() error

	Compile(ctx context.Context, document []byte, workDir, jobName string) (Result, error)
}
