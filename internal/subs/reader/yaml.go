package reader

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-texgen/pkg/subs"
)

// parseYAML expects a top-level sequence of mappings, one document entry per
// row. Decoding goes through yaml.Node rather than map[string]string so the
// author's key order survives into the Mapping.
func parseYAML(location string, data []byte) ([]subs.Mapping, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &subs.InputFormatError{Source: location, Err: err}
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, &subs.InputFormatError{Source: location, Err: errors.New("empty document")}
	}

	doc := root.Content[0]
	if doc.Kind != yaml.SequenceNode {
		return nil, &subs.InputFormatError{
			Source: location,
			Row:    doc.Line,
			Err:    errors.New("expected a sequence of mappings"),
		}
	}

	mappings := make([]subs.Mapping, 0, len(doc.Content))
	for i, entry := range doc.Content {
		if entry.Kind != yaml.MappingNode {
			return nil, &subs.InputFormatError{
				Source: location,
				Row:    i + 1,
				Err:    fmt.Errorf("entry at line %d is not a mapping", entry.Line),
			}
		}

		pairs := make([]subs.Pair, 0, len(entry.Content)/2)
		for j := 0; j+1 < len(entry.Content); j += 2 {
			key := entry.Content[j]
			value := entry.Content[j+1]
			if value.Kind != yaml.ScalarNode {
				return nil, &subs.InputFormatError{
					Source: location,
					Row:    i + 1,
					Err:    fmt.Errorf("value for %q at line %d is not a scalar", key.Value, value.Line),
				}
			}
			pairs = append(pairs, subs.Pair{Name: key.Value, Value: value.Value})
		}

		mapping, err := subs.NewMapping(pairs...)
		if err != nil {
			return nil, &subs.InputFormatError{Source: location, Row: i + 1, Err: err}
		}
		mappings = append(mappings, mapping)
	}

	return mappings, nil
}
