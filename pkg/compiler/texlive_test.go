package compiler_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/goliatone/go-texgen/pkg/compiler"
)

// fakeEngine writes a shell script that mimics a TeX engine's command-line
// contract: last argument is <job>.tex, artifacts appear in the working
// directory.
func fakeEngine(t *testing.T, script string) *compiler.Engine {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake engine scripts require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fakelatex")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake engine: %v", err)
	}
	return compiler.NewEngine(path)
}

const successScript = `#!/bin/sh
job="${3%.tex}"
echo "This is fakeTeX, Version 1"
cp "$3" "$job.pdf"
echo "log body" > "$job.log"
echo "aux body" > "$job.aux"
exit 0
`

const failureScript = `#!/bin/sh
job="${3%.tex}"
echo "! Undefined control sequence."
printf '%s\n' 'l.7 \badmacro' > "$job.log"
exit 1
`

const noArtifactScript = `#!/bin/sh
exit 0
`

func TestEngineCompileSuccess(t *testing.T) {
	engine := fakeEngine(t, successScript)
	workDir := t.TempDir()

	result, err := engine.Compile(context.Background(), []byte("\\documentclass{article}"), workDir, "job_1")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if result.ArtifactPath != filepath.Join(workDir, "job_1.pdf") {
		t.Fatalf("artifact path = %q", result.ArtifactPath)
	}
	if _, err := os.Stat(result.ArtifactPath); err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if !strings.Contains(string(result.Output), "fakeTeX") {
		t.Fatalf("captured output = %q", result.Output)
	}

	for _, ext := range []string{".tex", ".log", ".aux"} {
		if _, err := os.Stat(filepath.Join(workDir, "job_1"+ext)); !os.IsNotExist(err) {
			t.Fatalf("intermediate %s survived cleanup", ext)
		}
	}
}

func TestEngineCompileFailure(t *testing.T) {
	engine := fakeEngine(t, failureScript)
	workDir := t.TempDir()

	result, err := engine.Compile(context.Background(), []byte("broken"), workDir, "job_1")

	var compileErr *compiler.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected CompileError, got %v", err)
	}
	if result.ExitCode != 1 {
		t.Fatalf("exit code = %d, want 1", result.ExitCode)
	}
	if !strings.Contains(string(result.Output), "Undefined control sequence") {
		t.Fatalf("captured output = %q", result.Output)
	}
	if !strings.Contains(string(result.Log), "badmacro") {
		t.Fatalf("captured log = %q", result.Log)
	}

	// Failure still cleans the scratch files.
	if _, err := os.Stat(filepath.Join(workDir, "job_1.tex")); !os.IsNotExist(err) {
		t.Fatal("tex source survived cleanup")
	}
	if _, err := os.Stat(filepath.Join(workDir, "job_1.log")); !os.IsNotExist(err) {
		t.Fatal("log survived cleanup")
	}
}

func TestEngineCompileMissingArtifact(t *testing.T) {
	engine := fakeEngine(t, noArtifactScript)

	_, err := engine.Compile(context.Background(), []byte("x"), t.TempDir(), "job_1")

	var compileErr *compiler.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected CompileError, got %v", err)
	}
	if !strings.Contains(compileErr.Error(), "not produced") {
		t.Fatalf("error = %v", compileErr)
	}
}

func TestEngineUnavailable(t *testing.T) {
	engine := compiler.NewEngine("texgen-no-such-engine")

	var unavailable *compiler.ToolUnavailableError
	if err := engine.Available(); !errors.As(err, &unavailable) {
		t.Fatalf("expected ToolUnavailableError, got %v", err)
	}

	_, err := engine.Compile(context.Background(), []byte("x"), t.TempDir(), "job_1")
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ToolUnavailableError from compile, got %v", err)
	}
}
