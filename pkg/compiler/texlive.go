package compiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// engineArgs is the invocation shared by the TeX Live engines: fail fast on
// the first error and never drop into interactive mode.
var engineArgs = []string{"-interaction=nonstopmode", "-halt-on-error"}

// intermediateExts are the byproducts removed after every run, together with
// the source .tex itself.
var intermediateExts = []string{".aux", ".log", ".out", ".tex"}

// Engine compiles LaTeX source with a TeX Live command-line engine.
type Engine struct {
	binary string
}

// Ensure Engine implements the Compiler contract.
var _ Compiler = (*Engine)(nil)

// PDFLaTeX returns the default engine.
func PDFLaTeX() *Engine { return &Engine{binary: "pdflatex"} }

// XeLaTeX returns the xelatex engine, useful for templates relying on system
// fonts.
func XeLaTeX() *Engine { return &Engine{binary: "xelatex"} }

// LuaLaTeX returns the lualatex engine.
func LuaLaTeX() *Engine { return &Engine{binary: "lualatex"} }

// NewEngine wraps an arbitrary binary that follows the pdflatex invocation
// contract, for wrappers such as latexmk shims in constrained environments.
func NewEngine(binary string) *Engine { return &Engine{binary: binary} }

// Name identifies the engine; it doubles as the registry key.
func (e *Engine) Name() string { return e.binary }

// Extension returns the artifact extension produced by the engine.
func (e *Engine) Extension() string { return ".pdf" }

// Available resolves the engine binary on PATH.
func (e *Engine) Available() error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return &ToolUnavailableError{Tool: e.binary, Err: err}
	}
	return nil
}

// Compile writes the document as <jobName>.tex inside workDir, runs the
// engine with workDir as its working directory, and reports the produced
// <jobName>.pdf. Intermediate files are removed on every exit path; on
// failure the engine log is captured into the Result before removal.
func (e *Engine) Compile(ctx context.Context, document []byte, workDir, jobName string) (Result, error) {
	if jobName == "" {
		return Result{}, errors.New("compiler: job name is required")
	}
	if workDir == "" {
		return Result{}, errors.New("compiler: working directory is required")
	}

	texPath := filepath.Join(workDir, jobName+".tex")
	if err := os.WriteFile(texPath, document, 0o644); err != nil {
		return Result{}, fmt.Errorf("compiler: write %s: %w", texPath, err)
	}
	defer e.cleanup(workDir, jobName)

	cmd := exec.CommandContext(ctx, e.binary, append(append([]string(nil), engineArgs...), jobName+".tex")...)
	cmd.Dir = workDir

	output, runErr := cmd.CombinedOutput()
	result := Result{Output: output}

	if runErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(runErr, &exitErr):
			result.ExitCode = exitErr.ExitCode()
			result.Log = readLog(workDir, jobName)
			return result, &CompileError{Tool: e.binary, ExitCode: result.ExitCode}
		case errors.Is(runErr, exec.ErrNotFound):
			return result, &ToolUnavailableError{Tool: e.binary, Err: runErr}
		default:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			return result, fmt.Errorf("compiler: run %s: %w", e.binary, runErr)
		}
	}

	artifact := filepath.Join(workDir, jobName+e.Extension())
	if _, err := os.Stat(artifact); err != nil {
		result.Log = readLog(workDir, jobName)
		return result, &CompileError{
			Tool:   e.binary,
			Reason: fmt.Sprintf("exited cleanly but %s was not produced", jobName+e.Extension()),
		}
	}

	result.ArtifactPath = artifact
	return result, nil
}

// cleanup removes the job's intermediate files. The artifact is left alone.
func (e *Engine) cleanup(workDir, jobName string) {
	for _, ext := range intermediateExts {
		_ = os.Remove(filepath.Join(workDir, jobName+ext))
	}
}

func readLog(workDir, jobName string) []byte {
	data, err := os.ReadFile(filepath.Join(workDir, jobName+".log"))
	if err != nil {
		return nil
	}
	return data
}
