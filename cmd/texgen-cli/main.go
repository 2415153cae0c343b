package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	texgen "github.com/goliatone/go-texgen"
	"github.com/goliatone/go-texgen/pkg/compiler"
	"github.com/goliatone/go-texgen/pkg/orchestrator"
	"github.com/goliatone/go-texgen/pkg/render"
	"github.com/goliatone/go-texgen/pkg/render/latex"
	"github.com/goliatone/go-texgen/pkg/subs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, terminal.InterruptErr) || errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled by user")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin *os.File, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("texgen-cli", flag.ContinueOnError)
	flags.SetOutput(stderr)
	output := flags.String("o", "", "directory to write documents into (default: current directory)")
	verbose := flags.Bool("v", false, "show detailed processing information")
	engine := flags.String("engine", "pdflatex", "TeX engine to compile with")
	format := flags.String("format", "auto", "substitutions format: auto, csv, keyvalue, yaml")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: texgen-cli [flags] <template> [substitutions-file | key=value ...]\n\n")
		fmt.Fprintf(stderr, "Renders the template once per substitution row and compiles each result.\n")
		fmt.Fprintf(stderr, "Row data comes from a CSV/YAML/key=value file, inline key=value tokens,\n")
		fmt.Fprintf(stderr, "or stdin. Use the %q column or key to name a row's output file.\n\n", subs.OutputNameKey)
		fmt.Fprintf(stderr, "Flags:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	rest := flags.Args()
	if len(rest) < 1 {
		flags.Usage()
		return errors.New("template file is required")
	}

	spec, err := render.SpecFromFile(rest[0])
	if err != nil {
		return err
	}

	comp, err := compiler.DefaultRegistry().Get(*engine)
	if err != nil {
		return err
	}

	log := buildLogger(*verbose)
	defer func() { _ = log.Sync() }()

	renderer := latex.New()
	req := texgen.Request{Template: spec, OutputDir: *output}
	if err := resolveSubstitutions(&req, rest[1:], stdin, stderr, renderer, spec); err != nil {
		return err
	}

	var readerOptions []subs.ReaderOption
	if *format != "" && *format != string(subs.FormatAuto) {
		readerOptions = append(readerOptions, subs.WithFormat(subs.Format(*format)))
	}

	report, err := texgen.Generate(ctx, req,
		orchestrator.WithReader(texgen.NewReader(readerOptions...)),
		orchestrator.WithRenderer(renderer),
		orchestrator.WithCompiler(comp),
		orchestrator.WithLogger(log),
	)
	if err != nil {
		return err
	}

	for _, outcome := range report.Outcomes {
		if outcome.OK() {
			if *verbose {
				fmt.Fprintf(stdout, "Generated: %s\n", outcome.OutputPath)
			}
			continue
		}
		fmt.Fprintf(stderr, "Error: row %d: %v\n", outcome.Row, outcome.Err)
	}

	if *verbose {
		fmt.Fprintf(stdout, "\nSuccessfully generated %d of %d document(s)\n",
			report.Succeeded(), len(report.Outcomes))
	}
	if !report.OK() {
		return fmt.Errorf("%d of %d row(s) failed", report.Failed(), len(report.Outcomes))
	}
	return nil
}

// resolveSubstitutions fills the request's row data from the positional
// arguments: a single file path, inline key=value tokens, or stdin when no
// argument is given. A terminal stdin switches to interactive prompting.
func resolveSubstitutions(req *texgen.Request, args []string, stdin *os.File, stderr io.Writer, renderer render.Renderer, spec render.TemplateSpec) error {
	switch {
	case len(args) == 0:
		if isTerminal(stdin) {
			mapping, err := promptForMapping(renderer, spec)
			if err != nil {
				return err
			}
			req.Mappings = []subs.Mapping{mapping}
			return nil
		}
		fmt.Fprintln(stderr, "Reading substitutions from stdin (key=value pairs, one set per line)...")
		req.Substitutions = subs.SourceFromStream("stdin", stdin)
		return nil

	case allTokens(args):
		req.Substitutions = subs.SourceFromTokens(args...)
		return nil

	case len(args) == 1:
		req.Substitutions = subs.SourceFromFile(args[0])
		return nil

	default:
		return errors.New("substitutions must be a single file or key=value tokens")
	}
}

// promptForMapping asks for a value for every variable the template
// declares, plus an optional output name, producing the single mapping of an
// interactive run.
func promptForMapping(renderer render.Renderer, spec render.TemplateSpec) (subs.Mapping, error) {
	names, err := renderer.Variables(spec)
	if err != nil {
		return subs.Mapping{}, err
	}
	if len(names) == 0 {
		return subs.NewMapping()
	}

	pairs := make([]subs.Pair, 0, len(names)+1)
	for _, name := range names {
		var value string
		prompt := &survey.Input{Message: fmt.Sprintf("Value for %s:", name)}
		if err := survey.AskOne(prompt, &value); err != nil {
			return subs.Mapping{}, err
		}
		pairs = append(pairs, subs.Pair{Name: name, Value: value})
	}

	var outputName string
	prompt := &survey.Input{
		Message: "Output file name (optional):",
		Help:    "Leave empty to derive the name from the template",
	}
	if err := survey.AskOne(prompt, &outputName); err != nil {
		return subs.Mapping{}, err
	}
	if strings.TrimSpace(outputName) != "" {
		pairs = append(pairs, subs.Pair{Name: subs.OutputNameKey, Value: outputName})
	}

	return subs.NewMapping(pairs...)
}

func allTokens(args []string) bool {
	for _, arg := range args {
		if !strings.Contains(arg, "=") {
			return false
		}
	}
	return len(args) > 0
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// buildLogger returns a console logger that stays quiet unless rows fail;
// verbose mode lowers the level to Debug so per-row progress shows up.
func buildLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
