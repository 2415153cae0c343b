package latex

import (
	"errors"
	"regexp"
	"strings"

	"github.com/goliatone/go-texgen/pkg/render"
)

// translation is the engine-ready form of a TemplateSpec: the text rewritten
// into pongo2's native delimiters plus the variable names declared through
// interpolation markers, in first-use order.
type translation struct {
	text string
	vars []string
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)

// translate rewrites the LaTeX-safe marker syntax into pongo2 syntax.
// Variable markers become {{ … }}, block markers {% … %}, inline comments
// are dropped, line statements become a block tag consuming the whole line,
// and line comments vanish together with their newline.
func translate(spec render.TemplateSpec) (translation, error) {
	delims := spec.EffectiveDelims()

	var (
		out    strings.Builder
		vars   []string
		seen   = make(map[string]struct{})
		offset int
	)

	declare := func(expr string) {
		ident := identPattern.FindString(strings.TrimSpace(expr))
		if ident == "" {
			return
		}
		if _, ok := seen[ident]; ok {
			return
		}
		seen[ident] = struct{}{}
		vars = append(vars, ident)
	}

	for _, line := range splitLines(spec.Text) {
		trimmed := strings.TrimLeft(line.text, " \t")

		if delims.LineComment != "" && strings.HasPrefix(trimmed, delims.LineComment) {
			offset += len(line.text) + len(line.eol)
			continue
		}
		if delims.LineStatement != "" && strings.HasPrefix(trimmed, delims.LineStatement) {
			stmt := strings.TrimSpace(trimmed[len(delims.LineStatement):])
			out.WriteString("{% ")
			out.WriteString(stmt)
			out.WriteString(" %}")
			// The line statement consumes its own newline.
			offset += len(line.text) + len(line.eol)
			continue
		}

		rest := line.text
		for rest != "" {
			kind, idx := nextMarker(rest, delims)
			if idx < 0 {
				out.WriteString(rest)
				offset += len(rest)
				break
			}

			out.WriteString(rest[:idx])
			open := markerOpen(kind, delims)
			body, consumed, err := scanBody(rest[idx+len(open):], markerClose(kind, delims))
			if err != nil {
				return translation{}, &render.SyntaxError{
					Template: spec.Name,
					Offset:   offset + idx,
					Err:      err,
				}
			}

			switch kind {
			case markerVar:
				declare(body)
				out.WriteString("{{ ")
				out.WriteString(strings.TrimSpace(body))
				out.WriteString(" }}")
			case markerBlock:
				out.WriteString("{% ")
				out.WriteString(strings.TrimSpace(body))
				out.WriteString(" %}")
			case markerComment:
				// Comments produce no output at all.
			}

			advance := idx + len(open) + consumed
			offset += advance
			rest = rest[advance:]
		}

		out.WriteString(line.eol)
		offset += len(line.eol)
	}

	return translation{text: out.String(), vars: vars}, nil
}

type markerKind int

const (
	markerVar markerKind = iota
	markerBlock
	markerComment
)

func markerOpen(kind markerKind, d render.Delimiters) string {
	switch kind {
	case markerVar:
		return d.VarOpen
	case markerBlock:
		return d.BlockOpen
	default:
		return d.CommentOpen
	}
}

func markerClose(kind markerKind, d render.Delimiters) string {
	switch kind {
	case markerVar:
		return d.VarClose
	case markerBlock:
		return d.BlockClose
	default:
		return d.CommentClose
	}
}

// nextMarker locates the earliest opener in text. Longer openers win ties so
// a comment opener sharing a prefix with a variable opener is not shadowed.
func nextMarker(text string, d render.Delimiters) (markerKind, int) {
	best := -1
	kind := markerVar
	consider := func(k markerKind, open string) {
		if open == "" {
			return
		}
		idx := strings.Index(text, open)
		if idx < 0 {
			return
		}
		if best < 0 || idx < best || (idx == best && len(open) > len(markerOpen(kind, d))) {
			best = idx
			kind = k
		}
	}

	consider(markerVar, d.VarOpen)
	consider(markerBlock, d.BlockOpen)
	consider(markerComment, d.CommentOpen)
	return kind, best
}

// scanBody finds the marker body up to its closing token and returns the
// number of bytes consumed including the closer. A single-brace closer is
// matched with brace balancing so bodies may contain nested {…} groups.
func scanBody(text, closer string) (string, int, error) {
	if closer == "}" {
		depth := 1
		for i := 0; i < len(text); i++ {
			switch text[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return text[:i], i + 1, nil
				}
			}
		}
		return "", 0, errors.New("unterminated marker")
	}

	idx := strings.Index(text, closer)
	if idx < 0 {
		return "", 0, errors.New("unterminated marker")
	}
	return text[:idx], idx + len(closer), nil
}

type rawLine struct {
	text string
	eol  string
}

// splitLines separates text into lines while preserving each line's original
// terminator so translation can reproduce the document byte-for-byte outside
// the markers.
func splitLines(text string) []rawLine {
	var lines []rawLine
	for len(text) > 0 {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			lines = append(lines, rawLine{text: text})
			break
		}

		body := text[:idx]
		eol := "\n"
		if strings.HasSuffix(body, "\r") {
			body = body[:len(body)-1]
			eol = "\r\n"
		}
		lines = append(lines, rawLine{text: body, eol: eol})
		text = text[idx+1:]
	}
	return lines
}
