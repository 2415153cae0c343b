package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Delimiters holds the marker tokens a template uses for variable
// interpolation, block statements, and comments. All tokens are fixed per
// TemplateSpec; adapters rewrite them into their engine's native syntax.
type Delimiters struct {
	VarOpen      string
	VarClose     string
	BlockOpen    string
	BlockClose   string
	CommentOpen  string
	CommentClose string

	// LineStatement introduces a whole-line block statement when it is the
	// first non-blank token on a line.
	LineStatement string

	// LineComment drops the whole line when it is the first non-blank token.
	LineComment string
}

// LaTeXDelimiters returns the marker set chosen to coexist with LaTeX
// source: every token is a sequence TeX itself treats as an undefined control
// sequence or comment, so templates remain editable in LaTeX tooling.
//
//	\VAR{name}     variable interpolation
//	\BLOCK{stmt}   block statement (for, if, ...)
//	\#{text}       inline comment, dropped from output
//	%- stmt        whole-line block statement
//	%# text        whole-line comment, dropped from output
func LaTeXDelimiters() Delimiters {
	return Delimiters{
		VarOpen:       `\VAR{`,
		VarClose:      `}`,
		BlockOpen:     `\BLOCK{`,
		BlockClose:    `}`,
		CommentOpen:   `\#{`,
		CommentClose:  `}`,
		LineStatement: `%-`,
		LineComment:   `%#`,
	}
}

// TemplateSpec is the raw template text plus its delimiter configuration.
// It is loaded once and shared read-only across every row of a batch.
type TemplateSpec struct {
	// Name identifies the template in diagnostics and fallback output
	// naming. For file-backed specs this is the base name without extension.
	Name string

	// Text is the raw template source.
	Text string

	// Delims is the marker configuration. Zero value means LaTeXDelimiters.
	Delims Delimiters
}

// SpecFromString builds a TemplateSpec from in-memory template text using the
// LaTeX delimiter set.
func SpecFromString(name, text string) TemplateSpec {
	return TemplateSpec{Name: name, Text: text, Delims: LaTeXDelimiters()}
}

// SpecFromFile loads a template file into a TemplateSpec. The spec name is
// the file's base name without its extension, which also seeds fallback
// output naming.
func SpecFromFile(path string) (TemplateSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TemplateSpec{}, fmt.Errorf("render: read template %s: %w", path, err)
	}

	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return TemplateSpec{Name: name, Text: string(data), Delims: LaTeXDelimiters()}, nil
}

// delimsOrDefault resolves the zero value to the LaTeX marker set.
func (s TemplateSpec) delimsOrDefault() Delimiters {
	if s.Delims == (Delimiters{}) {
		return LaTeXDelimiters()
	}
	return s.Delims
}

// EffectiveDelims returns the delimiter set in force for this spec.
func (s TemplateSpec) EffectiveDelims() Delimiters {
	return s.delimsOrDefault()
}
