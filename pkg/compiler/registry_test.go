package compiler_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-texgen/pkg/compiler"
)

func TestDefaultRegistryEngines(t *testing.T) {
	r := compiler.DefaultRegistry()

	want := []string{"lualatex", "pdflatex", "xelatex"}
	if diff := cmp.Diff(want, r.List()); diff != "" {
		t.Fatalf("engines mismatch (-want +got):\n%s", diff)
	}

	c, err := r.Get("pdflatex")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.Extension() != ".pdf" {
		t.Fatalf("extension = %q, want .pdf", c.Extension())
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := compiler.NewRegistry()

	if err := r.Register(compiler.PDFLaTeX()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register(compiler.PDFLaTeX()); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := compiler.NewRegistry()
	if _, err := r.Get("tectonic"); err == nil {
		t.Fatal("expected error for unknown compiler")
	}
	if r.Has("tectonic") {
		t.Fatal("Has reported an unknown compiler")
	}
}
