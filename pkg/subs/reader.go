package subs

import (
	"context"
	"io/fs"
)

// Reader turns a substitution Source into the ordered sequence of Mappings
// the orchestrator will process, one per row. Implementations live under
// internal/subs but satisfy this contract.
type Reader interface {
	Read(ctx context.Context, src Source) ([]Mapping, error)
}

// Format selects how a source's bytes are interpreted.
type Format string

const (
	// FormatAuto picks a format from the source: .csv files parse as CSV,
	// .yml/.yaml as YAML documents, inline tokens as a single key=value
	// mapping, and everything else as key=value lines.
	FormatAuto     Format = "auto"
	FormatCSV      Format = "csv"
	FormatKeyValue Format = "keyvalue"
	FormatYAML     Format = "yaml"
)

// ReaderOptions configures how a Reader resolves and parses sources.
type ReaderOptions struct {
	// FileSystem enables loading from an abstract filesystem; defaults to
	// the operating system if nil.
	FileSystem fs.FS

	// Format overrides auto-detection. Leave as FormatAuto to dispatch on
	// the source itself.
	Format Format
}

// ReaderOption mutates ReaderOptions prior to construction.
type ReaderOption func(*ReaderOptions)

// WithFileSystem injects an fs.FS implementation for fs-backed sources.
func WithFileSystem(files fs.FS) ReaderOption {
	return func(opts *ReaderOptions) {
		opts.FileSystem = files
	}
}

// WithFormat forces a specific input format regardless of file extension.
func WithFormat(format Format) ReaderOption {
	return func(opts *ReaderOptions) {
		opts.Format = format
	}
}

// NewReaderOptions applies a set of ReaderOption values and returns the
// resulting configuration.
func NewReaderOptions(options ...ReaderOption) ReaderOptions {
	cfg := ReaderOptions{Format: FormatAuto}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}
