// Package render defines the template rendering contracts for go-texgen: the
// TemplateSpec value describing a template and its delimiter configuration,
// the Renderer interface implemented by engine adapters, and the typed errors
// the orchestrator inspects when a row fails to render.
//
// The pongo2-backed LaTeX adapter lives in the latex subpackage.
package render
