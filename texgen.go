// Package texgen generates one compiled document per row of tabular
// substitution input by rendering a shared template and driving an external
// TeX engine. The root package re-exports the pipeline types and offers
// one-call helpers; the pieces live in pkg/subs (row data), pkg/render and
// pkg/render/latex (templating), pkg/compiler (engine invocation), and
// pkg/orchestrator (batch coordination).
package texgen

import (
	"context"

	"github.com/goliatone/go-texgen/pkg/orchestrator"
	"github.com/goliatone/go-texgen/pkg/render"
	"github.com/goliatone/go-texgen/pkg/subs"
)

// Request describes one batch run; alias exported via the root package for
// convenience.
type Request = orchestrator.Request

// Report is the ordered batch result, one outcome per input row.
type Report = orchestrator.Report

// RowOutcome records the terminal state of one row.
type RowOutcome = orchestrator.RowOutcome

// TemplateSpec is the template text plus delimiter configuration shared
// across a batch.
type TemplateSpec = render.TemplateSpec

// Mapping is one row's named substitution values.
type Mapping = subs.Mapping

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module so callers can start with a single import.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate runs a batch with default wiring plus any supplied options. It is
// the simplest entry point for callers that already hold a Request.
func Generate(ctx context.Context, req Request, options ...orchestrator.Option) (Report, error) {
	return orchestrator.New(options...).Run(ctx, req)
}

// GenerateFromFiles loads the template from templatePath, reads row data
// from subsPath (CSV, YAML, or key=value lines by extension), and writes
// artifacts under outputDir.
func GenerateFromFiles(ctx context.Context, templatePath, subsPath, outputDir string, options ...orchestrator.Option) (Report, error) {
	spec, err := render.SpecFromFile(templatePath)
	if err != nil {
		return Report{}, err
	}

	return Generate(ctx, Request{
		Template:      spec,
		Substitutions: subs.SourceFromFile(subsPath),
		OutputDir:     outputDir,
	}, options...)
}
