package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-texgen/pkg/compiler"
	"github.com/goliatone/go-texgen/pkg/orchestrator"
	"github.com/goliatone/go-texgen/pkg/render"
	"github.com/goliatone/go-texgen/pkg/subs"
	"github.com/goliatone/go-texgen/pkg/testsupport"
)

func mustMapping(t *testing.T, pairs ...subs.Pair) subs.Mapping {
	t.Helper()
	m, err := subs.NewMapping(pairs...)
	if err != nil {
		t.Fatalf("new mapping: %v", err)
	}
	return m
}

func TestRunGeneratesOneArtifactPerCSVRow(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	csvPath := testsupport.WriteFile(t, inputDir, "people.csv",
		"Name,output_file\nAlice,a\nBob,b\n")

	fake := &testsupport.FakeCompiler{}
	o := orchestrator.New(orchestrator.WithCompiler(fake))

	report, err := o.Run(context.Background(), orchestrator.Request{
		Template:      render.SpecFromString("letter", `Hello \VAR{Name}`),
		Substitutions: subs.SourceFromFile(csvPath),
		OutputDir:     outputDir,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(report.Outcomes) != 2 || !report.OK() {
		t.Fatalf("report = %+v", report)
	}
	if !strings.HasSuffix(report.Outcomes[0].OutputPath, "a.pdf") {
		t.Fatalf("row 1 path = %q", report.Outcomes[0].OutputPath)
	}
	if !strings.HasSuffix(report.Outcomes[1].OutputPath, "b.pdf") {
		t.Fatalf("row 2 path = %q", report.Outcomes[1].OutputPath)
	}

	for i, want := range []string{"Hello Alice", "Hello Bob"} {
		data, err := os.ReadFile(report.Outcomes[i].OutputPath)
		if err != nil {
			t.Fatalf("artifact %d: %v", i+1, err)
		}
		if string(data) != want {
			t.Fatalf("artifact %d = %q, want %q", i+1, data, want)
		}
	}
}

func TestRunRenderFailureDoesNotStopBatch(t *testing.T) {
	fake := &testsupport.FakeCompiler{}
	o := orchestrator.New(orchestrator.WithCompiler(fake))

	report, err := o.Run(context.Background(), orchestrator.Request{
		Template: render.SpecFromString("letter", `Hello \VAR{Name}`),
		Mappings: []subs.Mapping{
			mustMapping(t, subs.Pair{Name: "Name", Value: "Alice"}),
			mustMapping(t, subs.Pair{Name: "Other", Value: "x"}),
			mustMapping(t, subs.Pair{Name: "Name", Value: "Carol"}),
		},
		OutputDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(report.Outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(report.Outcomes))
	}
	if !report.Outcomes[0].OK() || !report.Outcomes[2].OK() {
		t.Fatalf("sibling rows affected: %+v", report.Outcomes)
	}

	var undefErr *render.UndefinedVariableError
	if !errors.As(report.Outcomes[1].Err, &undefErr) {
		t.Fatalf("row 2 error = %v", report.Outcomes[1].Err)
	}
	if undefErr.Variable != "Name" {
		t.Fatalf("variable = %q", undefErr.Variable)
	}

	// The failed row never reached the compiler.
	if len(fake.Compiled) != 2 {
		t.Fatalf("compiler invoked %d times, want 2", len(fake.Compiled))
	}
}

func TestRunCompileFailureIsIsolatedAndDiagnosed(t *testing.T) {
	outputDir := t.TempDir()
	fake := &testsupport.FakeCompiler{FailSubstring: "BOOM"}
	o := orchestrator.New(orchestrator.WithCompiler(fake))

	report, err := o.Run(context.Background(), orchestrator.Request{
		Template: render.SpecFromString("letter", `Value: \VAR{V}`),
		Mappings: []subs.Mapping{
			mustMapping(t, subs.Pair{Name: "V", Value: "ok"}),
			mustMapping(t, subs.Pair{Name: "V", Value: "BOOM"}),
			mustMapping(t, subs.Pair{Name: "V", Value: "fine"}),
		},
		OutputDir: outputDir,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.Succeeded() != 2 || report.Failed() != 1 {
		t.Fatalf("report = %+v", report)
	}

	failed := report.Outcomes[1]
	var compileErr *compiler.CompileError
	if !errors.As(failed.Err, &compileErr) {
		t.Fatalf("row 2 error = %v", failed.Err)
	}
	if !strings.Contains(string(failed.Diagnostics), "Emergency stop") {
		t.Fatalf("diagnostics = %q", failed.Diagnostics)
	}

	// The engine log is preserved next to the intended artifact.
	logPath := strings.TrimSuffix(failed.OutputPath, ".pdf") + ".error_log"
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("error log not preserved: %v", err)
	}
}

func TestRunSynthesizedNamesAreCollisionFree(t *testing.T) {
	outputDir := t.TempDir()
	fake := &testsupport.FakeCompiler{}
	o := orchestrator.New(orchestrator.WithCompiler(fake))

	report, err := o.Run(context.Background(), orchestrator.Request{
		Template: render.SpecFromString("invoice", `\VAR{N}`),
		Mappings: []subs.Mapping{
			mustMapping(t, subs.Pair{Name: "N", Value: "1"}),
			mustMapping(t, subs.Pair{Name: "N", Value: "2"}),
		},
		OutputDir: outputDir,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	first := report.Outcomes[0].OutputPath
	second := report.Outcomes[1].OutputPath
	if first == second {
		t.Fatalf("synthesized names collide: %q", first)
	}
	if filepath.Base(first) != "invoice_1.pdf" || filepath.Base(second) != "invoice_2.pdf" {
		t.Fatalf("paths = %q, %q", first, second)
	}
}

func TestRunEnforcesArtifactExtension(t *testing.T) {
	outputDir := t.TempDir()
	fake := &testsupport.FakeCompiler{}
	o := orchestrator.New(orchestrator.WithCompiler(fake))

	report, err := o.Run(context.Background(), orchestrator.Request{
		Template: render.SpecFromString("letter", `\VAR{N}`),
		Mappings: []subs.Mapping{
			mustMapping(t,
				subs.Pair{Name: "N", Value: "1"},
				subs.Pair{Name: subs.OutputNameKey, Value: "alice"}),
			mustMapping(t,
				subs.Pair{Name: "N", Value: "2"},
				subs.Pair{Name: subs.OutputNameKey, Value: "bob.pdf"}),
		},
		OutputDir: outputDir,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if filepath.Base(report.Outcomes[0].OutputPath) != "alice.pdf" {
		t.Fatalf("row 1 path = %q", report.Outcomes[0].OutputPath)
	}
	if filepath.Base(report.Outcomes[1].OutputPath) != "bob.pdf" {
		t.Fatalf("row 2 path = %q", report.Outcomes[1].OutputPath)
	}
}

func TestRunConfinesOutputNamesToOutputDir(t *testing.T) {
	outputDir := t.TempDir()
	fake := &testsupport.FakeCompiler{}
	o := orchestrator.New(orchestrator.WithCompiler(fake))

	report, err := o.Run(context.Background(), orchestrator.Request{
		Template: render.SpecFromString("letter", `\VAR{N}`),
		Mappings: []subs.Mapping{
			mustMapping(t,
				subs.Pair{Name: "N", Value: "1"},
				subs.Pair{Name: subs.OutputNameKey, Value: "../escape"}),
			mustMapping(t,
				subs.Pair{Name: "N", Value: "2"},
				subs.Pair{Name: subs.OutputNameKey, Value: "/tmp/abs"}),
			mustMapping(t,
				subs.Pair{Name: "N", Value: "3"},
				subs.Pair{Name: subs.OutputNameKey, Value: "nested/ok"}),
		},
		OutputDir: outputDir,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.Outcomes[0].OK() || report.Outcomes[1].OK() {
		t.Fatalf("escaping names must fail the row: %+v", report.Outcomes[:2])
	}
	if report.Outcomes[2].OK() {
		// Nested relative names are allowed only when the directory exists;
		// missing parents surface as a row failure, not a crash.
		if _, err := os.Stat(report.Outcomes[2].OutputPath); err != nil {
			t.Fatalf("nested artifact: %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(outputDir), "escape.pdf")); !os.IsNotExist(err) {
		t.Fatal("artifact escaped the output directory")
	}
}

func TestRunToolUnavailableIsFatal(t *testing.T) {
	fake := &testsupport.FakeCompiler{Unavailable: true}
	o := orchestrator.New(orchestrator.WithCompiler(fake))

	report, err := o.Run(context.Background(), orchestrator.Request{
		Template: render.SpecFromString("letter", `\VAR{N}`),
		Mappings: []subs.Mapping{
			mustMapping(t, subs.Pair{Name: "N", Value: "1"}),
		},
		OutputDir: t.TempDir(),
	})

	var unavailable *compiler.ToolUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ToolUnavailableError, got %v", err)
	}
	if len(report.Outcomes) != 0 {
		t.Fatalf("no row should have been attempted, got %+v", report.Outcomes)
	}
}

func TestRunWithoutSubstitutionsIsConfigurationError(t *testing.T) {
	o := orchestrator.New(orchestrator.WithCompiler(&testsupport.FakeCompiler{}))

	_, err := o.Run(context.Background(), orchestrator.Request{
		Template:  render.SpecFromString("letter", `\VAR{N}`),
		OutputDir: t.TempDir(),
	})

	var cfgErr *subs.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestRunRequiresTemplateText(t *testing.T) {
	o := orchestrator.New(orchestrator.WithCompiler(&testsupport.FakeCompiler{}))

	_, err := o.Run(context.Background(), orchestrator.Request{
		Mappings: []subs.Mapping{mustMapping(t, subs.Pair{Name: "N", Value: "1"})},
	})
	if err == nil {
		t.Fatal("expected error for empty template")
	}
}

func TestRunMalformedCSVIsFatal(t *testing.T) {
	inputDir := t.TempDir()
	csvPath := testsupport.WriteFile(t, inputDir, "people.csv", "Name,City\nAlice\n")

	o := orchestrator.New(orchestrator.WithCompiler(&testsupport.FakeCompiler{}))

	_, err := o.Run(context.Background(), orchestrator.Request{
		Template:      render.SpecFromString("letter", `\VAR{Name}`),
		Substitutions: subs.SourceFromFile(csvPath),
		OutputDir:     t.TempDir(),
	})

	var formatErr *subs.InputFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected InputFormatError, got %v", err)
	}
}
