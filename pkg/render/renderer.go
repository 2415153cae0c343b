package render

import "github.com/goliatone/go-texgen/pkg/subs"

// Renderer turns a TemplateSpec plus one row's Mapping into rendered document
// text. Render performs no I/O and is a pure function of its inputs: the same
// spec and mapping always produce the same text.
type Renderer interface {
	Name() string

	// Variables reports the variable names the spec references through its
	// interpolation markers, in first-use order.
	Variables(spec TemplateSpec) ([]string, error)

	// Render produces the document text for one mapping. A variable
	// referenced by the spec but absent from the mapping fails with
	// UndefinedVariableError before any engine work happens.
	Render(spec TemplateSpec, mapping subs.Mapping) (string, error)
}
