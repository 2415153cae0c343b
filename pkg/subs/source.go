package subs

import (
	"io"
	"path/filepath"
	"strings"
)

// Source identifies where substitution data originates. Readers operate on
// files, fs.FS entries, inline key=value tokens, or already-open streams
// without leaking implementation details into the orchestration layer.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the reader modalities.
type SourceKind string

const (
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindInline SourceKind = "inline"
	SourceKindStream SourceKind = "stream"
)

// TokenCarrier is implemented by inline sources and exposes the raw
// key=value tokens supplied on the command line.
type TokenCarrier interface {
	Tokens() []string
}

// StreamCarrier is implemented by stream sources and exposes the underlying
// reader, typically stdin.
type StreamCarrier interface {
	Stream() io.Reader
}

// fileSource identifies an on-disk substitutions file.
type fileSource struct {
	path string
}

func (s fileSource) Kind() SourceKind { return SourceKindFile }
func (s fileSource) Location() string { return s.path }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// fsSource references a path within an fs.FS.
type fsSource struct {
	name string
}

func (s fsSource) Kind() SourceKind { return SourceKindFS }
func (s fsSource) Location() string { return s.name }

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// tokenSource carries inline key=value tokens.
type tokenSource struct {
	tokens []string
}

func (s tokenSource) Kind() SourceKind { return SourceKindInline }
func (s tokenSource) Location() string { return strings.Join(s.tokens, " ") }
func (s tokenSource) Tokens() []string { return append([]string(nil), s.tokens...) }

// SourceFromTokens returns a Source built from inline key=value tokens.
// Inline sources always yield exactly one mapping.
func SourceFromTokens(tokens ...string) Source {
	return tokenSource{tokens: append([]string(nil), tokens...)}
}

// streamSource wraps an already-open reader such as stdin.
type streamSource struct {
	r    io.Reader
	name string
}

func (s streamSource) Kind() SourceKind  { return SourceKindStream }
func (s streamSource) Location() string  { return s.name }
func (s streamSource) Stream() io.Reader { return s.r }

// SourceFromStream returns a Source reading key=value lines from r. The name
// is used in diagnostics only.
func SourceFromStream(name string, r io.Reader) Source {
	if name == "" {
		name = "stream"
	}
	return streamSource{r: r, name: name}
}
