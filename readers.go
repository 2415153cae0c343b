package texgen

import (
	internalReader "github.com/goliatone/go-texgen/internal/subs/reader"
	"github.com/goliatone/go-texgen/pkg/subs"
)

// NewReader constructs a substitutions reader using the internal
// implementation while keeping the concrete type hidden from consumers.
func NewReader(options ...subs.ReaderOption) subs.Reader {
	cfg := subs.NewReaderOptions(options...)
	return internalReader.New(cfg)
}
