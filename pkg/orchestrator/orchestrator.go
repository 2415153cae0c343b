package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	internalReader "github.com/goliatone/go-texgen/internal/subs/reader"
	"github.com/goliatone/go-texgen/pkg/compiler"
	"github.com/goliatone/go-texgen/pkg/render"
	"github.com/goliatone/go-texgen/pkg/render/latex"
	"github.com/goliatone/go-texgen/pkg/subs"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithReader injects a custom substitutions reader.
func WithReader(reader subs.Reader) Option {
	return func(o *Orchestrator) {
		o.reader = reader
	}
}

// WithRenderer injects a custom template renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(o *Orchestrator) {
		o.renderer = renderer
	}
}

// WithCompiler injects the compiler used for every row.
func WithCompiler(c compiler.Compiler) Option {
	return func(o *Orchestrator) {
		o.compiler = c
	}
}

// WithLogger injects a zap logger. The default is a no-op logger so library
// callers stay silent unless they opt in.
func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// WithWorkDir pins the scratch directory used for intermediate compile
// files. When unset, each run creates and removes its own temp directory.
func WithWorkDir(dir string) Option {
	return func(o *Orchestrator) {
		o.workDir = dir
	}
}

// Orchestrator coordinates the full pipeline from substitution source to
// compiled artifacts. It applies sensible defaults (format-detecting reader,
// LaTeX renderer, pdflatex) while remaining open to dependency injection.
type Orchestrator struct {
	reader   subs.Reader
	renderer render.Renderer
	compiler compiler.Compiler
	log      *zap.Logger
	workDir  string
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.reader == nil {
		o.reader = internalReader.New(subs.NewReaderOptions())
	}
	if o.renderer == nil {
		o.renderer = latex.New()
	}
	if o.compiler == nil {
		o.compiler = compiler.PDFLaTeX()
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
}

// Request describes one batch run.
type Request struct {
	// Template is the shared template spec rendered once per row.
	Template render.TemplateSpec

	// Substitutions identifies where the row data lives. Optional when
	// Mappings is supplied.
	Substitutions subs.Source

	// Mappings allows callers to bypass the reader when they already hold
	// the row sequence.
	Mappings []subs.Mapping

	// OutputDir receives the artifacts. Defaults to the current directory
	// and is created, with parents, when missing.
	OutputDir string
}

// Run processes every row in input order: render, name, compile, collect.
// Per-row failures are recorded in the Report and never stop the batch.
// The returned error is reserved for fatal conditions that precede or
// invalidate all rows: unreadable input, a missing compiler binary, or
// context cancellation. On a fatal mid-batch error the partial Report
// carries the outcomes recorded so far.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Report, error) {
	if ctx == nil {
		return Report{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	if strings.TrimSpace(req.Template.Text) == "" {
		return Report{}, errors.New("orchestrator: template text is required")
	}

	mappings, err := o.resolveMappings(ctx, req)
	if err != nil {
		return Report{}, err
	}

	if err := o.compiler.Available(); err != nil {
		return Report{}, err
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("orchestrator: create output directory: %w", err)
	}

	workDir, cleanup, err := o.resolveWorkDir()
	if err != nil {
		return Report{}, err
	}
	defer cleanup()

	stem := sanitizeJobName(req.Template.Name)
	var report Report

	for i, mapping := range mappings {
		row := i + 1
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome, fatal := o.processRow(ctx, req.Template, mapping, row, outputDir, workDir, stem)
		report.Outcomes = append(report.Outcomes, outcome)
		if fatal != nil {
			return report, fatal
		}

		if outcome.OK() {
			o.log.Info("generated", zap.Int("row", row), zap.String("path", outcome.OutputPath))
		} else {
			o.log.Warn("row failed", zap.Int("row", row), zap.Error(outcome.Err))
		}
	}

	o.log.Debug("batch finished",
		zap.Int("rows", len(report.Outcomes)),
		zap.Int("succeeded", report.Succeeded()),
		zap.Int("failed", report.Failed()),
	)
	return report, nil
}

// processRow drives one row through its states: render, name, compile, then
// artifact placement. A non-nil fatal return aborts the batch; everything
// else lands in the outcome.
func (o *Orchestrator) processRow(ctx context.Context, spec render.TemplateSpec, mapping subs.Mapping, row int, outputDir, workDir, stem string) (RowOutcome, error) {
	outcome := RowOutcome{Row: row}

	requested, _ := mapping.OutputName()
	variables := mapping.Without(subs.OutputNameKey)

	text, err := o.renderer.Render(spec, variables)
	if err != nil {
		outcome.Err = err
		return outcome, nil
	}
	o.log.Debug("rendered", zap.Int("row", row), zap.Int("bytes", len(text)))

	outputPath, err := resolveOutputPath(outputDir, requested, stem, row, o.compiler.Extension())
	if err != nil {
		outcome.Err = err
		return outcome, nil
	}
	outcome.OutputPath = outputPath

	jobName := fmt.Sprintf("%s_%d", stem, row)
	result, err := o.compiler.Compile(ctx, []byte(text), workDir, jobName)
	if err != nil {
		var unavailable *compiler.ToolUnavailableError
		if errors.As(err, &unavailable) {
			outcome.Err = err
			return outcome, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			outcome.Err = ctxErr
			return outcome, ctxErr
		}

		outcome.Err = err
		outcome.Diagnostics = result.Output
		o.preserveErrorLog(outputPath, result.Log)
		return outcome, nil
	}

	if err := moveFile(result.ArtifactPath, outputPath); err != nil {
		outcome.Err = fmt.Errorf("orchestrator: place artifact: %w", err)
		return outcome, nil
	}

	return outcome, nil
}

func (o *Orchestrator) resolveMappings(ctx context.Context, req Request) ([]subs.Mapping, error) {
	if req.Mappings != nil {
		return req.Mappings, nil
	}
	if req.Substitutions == nil {
		return nil, &subs.ConfigurationError{Reason: "no substitutions supplied"}
	}
	return o.reader.Read(ctx, req.Substitutions)
}

func (o *Orchestrator) resolveWorkDir() (string, func(), error) {
	if o.workDir != "" {
		if err := os.MkdirAll(o.workDir, 0o755); err != nil {
			return "", nil, fmt.Errorf("orchestrator: create work directory: %w", err)
		}
		return o.workDir, func() {}, nil
	}

	dir, err := os.MkdirTemp("", "texgen-*")
	if err != nil {
		return "", nil, fmt.Errorf("orchestrator: create work directory: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

// preserveErrorLog keeps the engine log next to the intended artifact as
// <name>.error_log so failed rows stay debuggable after the scratch
// directory is gone.
func (o *Orchestrator) preserveErrorLog(outputPath string, log []byte) {
	if len(log) == 0 {
		return
	}
	logPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".error_log"
	if err := os.WriteFile(logPath, log, 0o644); err != nil {
		o.log.Warn("could not preserve error log", zap.String("path", logPath), zap.Error(err))
		return
	}
	o.log.Debug("preserved error log", zap.String("path", logPath))
}

var jobNamePattern = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// sanitizeJobName keeps intermediate file names safe for TeX command lines.
// Leading dashes are stripped so a job name can never read as an engine flag.
func sanitizeJobName(name string) string {
	cleaned := jobNamePattern.ReplaceAllString(name, "_")
	cleaned = strings.Trim(cleaned, "_-")
	if cleaned == "" {
		return "output"
	}
	return cleaned
}

// moveFile renames src to dst, falling back to copy+remove when the rename
// crosses filesystems, which is the common case for temp scratch
// directories.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
