package orchestrator

import (
	"fmt"
	"path/filepath"
	"strings"
)

// resolveOutputPath derives the artifact destination for one row. An explicit
// requested name wins; otherwise the name is synthesized from the template
// stem and the row index, which keeps synthesized names collision-free within
// a run. The result always lives under outputDir: requested names that are
// absolute or escape the directory are rejected since they come from
// untrusted row data.
func resolveOutputPath(outputDir, requested, stem string, row int, ext string) (string, error) {
	if stem == "" {
		stem = "output"
	}

	name := requested
	if name == "" {
		name = fmt.Sprintf("%s_%d", stem, row)
	}
	name = enforceExt(name, ext)

	if filepath.IsAbs(name) {
		return "", fmt.Errorf("orchestrator: output name %q must be relative to the output directory", requested)
	}

	resolved := filepath.Join(outputDir, name)
	if !confined(outputDir, resolved) {
		return "", fmt.Errorf("orchestrator: output name %q escapes the output directory", requested)
	}
	return resolved, nil
}

// enforceExt replaces the name's final extension with ext, appending when no
// extension is present. "alice.pdf" survives unchanged; "alice" and
// "alice.tex" both become "alice.pdf".
func enforceExt(name, ext string) string {
	if ext == "" {
		return name
	}
	existing := filepath.Ext(name)
	if strings.EqualFold(existing, ext) {
		return name
	}
	return strings.TrimSuffix(name, existing) + ext
}

// confined reports whether path stays inside dir after lexical resolution.
func confined(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
