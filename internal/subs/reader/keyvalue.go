package reader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-texgen/pkg/subs"
)

// pairPattern matches a single key=value token, allowing either side to be
// double-quoted so values may contain spaces.
var pairPattern = regexp.MustCompile(`("[^"]+"|[^ =]+)\s*=\s*("[^"]*"|[^ ]*)`)

// parseKeyValueLines reads one mapping per non-empty, non-comment line. Each
// line holds whitespace-separated key=value tokens.
func parseKeyValueLines(location string, data []byte) ([]subs.Mapping, error) {
	var mappings []subs.Mapping

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		mapping, err := parseKeyValueLine(text)
		if err != nil {
			return nil, &subs.InputFormatError{Source: location, Row: line, Err: err}
		}
		mappings = append(mappings, mapping)
	}
	if err := scanner.Err(); err != nil {
		return nil, &subs.InputFormatError{Source: location, Err: err}
	}

	return mappings, nil
}

func parseKeyValueLine(text string) (subs.Mapping, error) {
	matches := pairPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return subs.Mapping{}, errors.New("no valid key=value pairs found")
	}

	pairs := make([]subs.Pair, 0, len(matches))
	for _, match := range matches {
		name := unquote(match[1])
		if strings.TrimSpace(name) == "" {
			continue
		}
		pairs = append(pairs, subs.Pair{Name: name, Value: unquote(match[2])})
	}

	return subs.NewMapping(pairs...)
}

// parseTokens builds the single mapping produced by inline key=value command
// line tokens. A repeated key is the only way inline tokens could imply more
// than one output, so it is rejected as a configuration mistake rather than
// guessed at.
func parseTokens(tokens []string) (subs.Mapping, error) {
	if len(tokens) == 0 {
		return subs.Mapping{}, &subs.ConfigurationError{Reason: "no key=value tokens supplied"}
	}

	pairs := make([]subs.Pair, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		name, value, ok := strings.Cut(token, "=")
		if !ok {
			return subs.Mapping{}, &subs.ConfigurationError{
				Reason: fmt.Sprintf("token %q is not of the form key=value", token),
			}
		}
		name = unquote(strings.TrimSpace(name))
		if name == "" {
			return subs.Mapping{}, &subs.ConfigurationError{
				Reason: fmt.Sprintf("token %q has an empty key", token),
			}
		}
		if _, dup := seen[name]; dup {
			return subs.Mapping{}, &subs.ConfigurationError{
				Reason: fmt.Sprintf("key %q supplied more than once; inline mode produces a single output", name),
			}
		}
		seen[name] = struct{}{}
		pairs = append(pairs, subs.Pair{Name: name, Value: unquote(value)})
	}

	return subs.NewMapping(pairs...)
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
