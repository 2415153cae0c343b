// Package testsupport provides fixtures shared by tests across the module:
// an in-memory compiler that follows the real invocation contract without
// requiring a TeX installation, and small filesystem helpers.
package testsupport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-texgen/pkg/compiler"
)

// FakeCompiler implements compiler.Compiler for tests. A successful compile
// writes the document bytes as <jobName>.pdf inside the working directory so
// artifact placement can be asserted end to end.
type FakeCompiler struct {
	// FailSubstring makes any document containing it fail with a
	// CompileError, standing in for broken LaTeX source.
	FailSubstring string

	// Unavailable makes Available (and Compile) report a missing binary.
	Unavailable bool

	// Compiled records every document handed to Compile, in order.
	Compiled [][]byte
}

var _ compiler.Compiler = (*FakeCompiler)(nil)

func (f *FakeCompiler) Name() string      { return "fake" }
func (f *FakeCompiler) Extension() string { return ".pdf" }

func (f *FakeCompiler) Available() error {
	if f.Unavailable {
		return &compiler.ToolUnavailableError{Tool: f.Name(), Err: errors.New("not installed")}
	}
	return nil
}

func (f *FakeCompiler) Compile(ctx context.Context, document []byte, workDir, jobName string) (compiler.Result, error) {
	if err := f.Available(); err != nil {
		return compiler.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return compiler.Result{}, err
	}

	f.Compiled = append(f.Compiled, append([]byte(nil), document...))

	if f.FailSubstring != "" && bytes.Contains(document, []byte(f.FailSubstring)) {
		output := []byte(fmt.Sprintf("! Emergency stop: document contains %q", f.FailSubstring))
		return compiler.Result{ExitCode: 1, Output: output, Log: output},
			&compiler.CompileError{Tool: f.Name(), ExitCode: 1}
	}

	artifact := filepath.Join(workDir, jobName+f.Extension())
	if err := os.WriteFile(artifact, document, 0o644); err != nil {
		return compiler.Result{}, err
	}
	return compiler.Result{Output: []byte("ok"), ArtifactPath: artifact}, nil
}

// WriteFile creates a file with contents under dir, failing the test on
// error, and returns its path.
func WriteFile(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
