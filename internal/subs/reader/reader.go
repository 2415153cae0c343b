package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-texgen/pkg/subs"
)

// Reader implements subs.Reader by delegating to the CSV, key=value, or YAML
// parsing strategies. Construction helpers live in the top-level texgen
// package.
type Reader struct {
	fs     fs.FS
	format subs.Format
}

// Ensure the implementation satisfies the public interface.
var _ subs.Reader = (*Reader)(nil)

// New constructs a Reader from pre-resolved options.
func New(options subs.ReaderOptions) subs.Reader {
	format := options.Format
	if format == "" {
		format = subs.FormatAuto
	}
	return &Reader{
		fs:     options.FileSystem,
		format: format,
	}
}

// Read resolves the source bytes and parses them into one Mapping per row.
// Inline token sources bypass byte resolution and always produce a single
// mapping.
func (r *Reader) Read(ctx context.Context, src subs.Source) ([]subs.Mapping, error) {
	if src == nil {
		return nil, errors.New("subs reader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if carrier, ok := src.(subs.TokenCarrier); ok {
		mapping, err := parseTokens(carrier.Tokens())
		if err != nil {
			return nil, err
		}
		return []subs.Mapping{mapping}, nil
	}

	data, err := r.resolve(src)
	if err != nil {
		return nil, err
	}

	switch r.formatFor(src) {
	case subs.FormatCSV:
		return parseCSV(src.Location(), data)
	case subs.FormatYAML:
		return parseYAML(src.Location(), data)
	case subs.FormatKeyValue:
		return parseKeyValueLines(src.Location(), data)
	default:
		return nil, fmt.Errorf("subs reader: unsupported format %q", r.format)
	}
}

func (r *Reader) resolve(src subs.Source) ([]byte, error) {
	switch src.Kind() {
	case subs.SourceKindFile:
		data, err := os.ReadFile(src.Location())
		if err != nil {
			return nil, fmt.Errorf("subs reader: read %s: %w", src.Location(), err)
		}
		return data, nil
	case subs.SourceKindFS:
		if r.fs == nil {
			return nil, errors.New("subs reader: fs source requires a filesystem")
		}
		data, err := fs.ReadFile(r.fs, src.Location())
		if err != nil {
			return nil, fmt.Errorf("subs reader: read %s: %w", src.Location(), err)
		}
		return data, nil
	case subs.SourceKindStream:
		carrier, ok := src.(subs.StreamCarrier)
		if !ok {
			return nil, errors.New("subs reader: stream source missing reader")
		}
		data, err := io.ReadAll(carrier.Stream())
		if err != nil {
			return nil, fmt.Errorf("subs reader: read %s: %w", src.Location(), err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("subs reader: unsupported source kind %q", src.Kind())
	}
}

// formatFor applies the configured override, falling back to extension-based
// detection. Streams without an override parse as key=value lines, matching
// the stdin contract.
func (r *Reader) formatFor(src subs.Source) subs.Format {
	if r.format != subs.FormatAuto {
		return r.format
	}

	switch strings.ToLower(filepath.Ext(src.Location())) {
	case ".csv":
		return subs.FormatCSV
	case ".yml", ".yaml":
		return subs.FormatYAML
	default:
		return subs.FormatKeyValue
	}
}
