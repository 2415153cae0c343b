// Package latex renders TemplateSpecs whose markers use the LaTeX-safe
// delimiter set. Marker syntax is rewritten into pongo2's native delimiters
// and executed by a pongo2 template set, so the full pongo2 expression and
// filter surface is available inside \VAR{…} and \BLOCK{…} bodies.
package latex

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-texgen/pkg/render"
	"github.com/goliatone/go-texgen/pkg/subs"
)

const rendererName = "latex"

// Option configures the renderer before construction.
type Option func(*Renderer)

// WithValueEscaping toggles LaTeX special-character escaping of substitution
// values. Enabled by default; disable it when values are trusted LaTeX
// fragments.
func WithValueEscaping(enabled bool) Option {
	return func(r *Renderer) {
		r.escapeValues = enabled
	}
}

// Renderer satisfies render.Renderer using pongo2. Compiled templates are
// cached per spec text, so sharing one TemplateSpec across a batch parses the
// template exactly once.
type Renderer struct {
	set          *pongo2.TemplateSet
	escapeValues bool

	mu    sync.RWMutex
	cache map[string]*compiled
}

type compiled struct {
	tpl  *pongo2.Template
	vars []string
}

// Ensure Renderer implements the render contract.
var _ render.Renderer = (*Renderer)(nil)

// New constructs a LaTeX renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{
		// Templates only ever arrive through FromString, but pongo2 insists
		// on at least one loader per set.
		set:          pongo2.NewSet("texgen", pongo2.MustNewLocalFileSystemLoader("")),
		escapeValues: true,
		cache:        make(map[string]*compiled),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name identifies the renderer.
func (r *Renderer) Name() string {
	return rendererName
}

// Variables reports the variable names the spec declares through \VAR{…}
// markers, in first-use order. Variables referenced only inside block
// statements are not tracked; they render through pongo2's own resolution.
func (r *Renderer) Variables(spec render.TemplateSpec) ([]string, error) {
	entry, err := r.compiledFor(spec)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), entry.vars...), nil
}

// Render produces the document text for one mapping. The mapping is checked
// against the spec's declared variables first; a gap fails with
// UndefinedVariableError before the engine runs.
func (r *Renderer) Render(spec render.TemplateSpec, mapping subs.Mapping) (string, error) {
	entry, err := r.compiledFor(spec)
	if err != nil {
		return "", err
	}

	for _, name := range entry.vars {
		if !mapping.Has(name) {
			return "", &render.UndefinedVariableError{Variable: name, Template: spec.Name}
		}
	}

	ctx := make(pongo2.Context, mapping.Len())
	for name, value := range mapping.Values() {
		if r.escapeValues {
			value = Escape(value)
		}
		// Safe values bypass pongo2's HTML autoescaping, which would
		// otherwise mangle LaTeX output (& to &amp; and so on).
		ctx[name] = pongo2.AsSafeValue(value)
	}

	var buf bytes.Buffer
	if err := entry.tpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("latex: execute template %s: %w", specLabel(spec), err)
	}
	return buf.String(), nil
}

// RegisterFilter exposes pongo2 filter registration so callers can extend the
// expression surface available inside markers.
func (r *Renderer) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("latex: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "custom_filter", OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("latex: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

func (r *Renderer) compiledFor(spec render.TemplateSpec) (*compiled, error) {
	key := spec.Text

	r.mu.RLock()
	if entry, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return entry, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.cache[key]; ok {
		return entry, nil
	}

	translated, err := translate(spec)
	if err != nil {
		return nil, err
	}

	tpl, err := r.set.FromString(translated.text)
	if err != nil {
		return nil, fmt.Errorf("latex: parse template %s: %w", specLabel(spec), err)
	}

	entry := &compiled{tpl: tpl, vars: translated.vars}
	r.cache[key] = entry
	return entry, nil
}

func specLabel(spec render.TemplateSpec) string {
	if spec.Name != "" {
		return fmt.Sprintf("%q", spec.Name)
	}
	return "(inline)"
}
