package orchestrator

import (
	"path/filepath"
	"testing"
)

func TestResolveOutputPath(t *testing.T) {
	cases := []struct {
		name      string
		requested string
		stem      string
		row       int
		want      string
		wantErr   bool
	}{
		{name: "explicit with extension", requested: "alice.pdf", stem: "letter", row: 1, want: "alice.pdf"},
		{name: "explicit without extension", requested: "alice", stem: "letter", row: 1, want: "alice.pdf"},
		{name: "explicit wrong extension", requested: "alice.tex", stem: "letter", row: 1, want: "alice.pdf"},
		{name: "fallback from stem and row", requested: "", stem: "letter", row: 3, want: "letter_3.pdf"},
		{name: "fallback without stem", requested: "", stem: "", row: 2, want: "output_2.pdf"},
		{name: "nested relative", requested: "batch/alice", stem: "letter", row: 1, want: filepath.Join("batch", "alice.pdf")},
		{name: "absolute rejected", requested: "/etc/passwd", stem: "letter", row: 1, wantErr: true},
		{name: "escape rejected", requested: "../alice", stem: "letter", row: 1, wantErr: true},
		{name: "deep escape rejected", requested: "a/../../alice", stem: "letter", row: 1, wantErr: true},
	}

	outputDir := filepath.Join("out", "dir")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveOutputPath(outputDir, tc.requested, tc.stem, tc.row, ".pdf")
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if want := filepath.Join(outputDir, tc.want); got != want {
				t.Fatalf("path = %q, want %q", got, want)
			}
		})
	}
}

func TestEnforceExtIsCaseInsensitive(t *testing.T) {
	if got := enforceExt("alice.PDF", ".pdf"); got != "alice.PDF" {
		t.Fatalf("enforceExt = %q", got)
	}
}

func TestSanitizeJobName(t *testing.T) {
	cases := map[string]string{
		"letter":          "letter",
		"my letter (v2)":  "my_letter_v2",
		"../sneaky":       "sneaky",
		"":                "output",
		"---":             "output",
		"invoice_2024-01": "invoice_2024-01",
	}
	for in, want := range cases {
		if got := sanitizeJobName(in); got != want {
			t.Fatalf("sanitizeJobName(%q) = %q, want %q", in, got, want)
		}
	}
}
