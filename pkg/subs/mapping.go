package subs

import (
	"fmt"
	"strings"
)

// OutputNameKey is the reserved mapping key whose value, when present, names
// the output artifact for that row instead of feeding the template.
const OutputNameKey = "output_file"

// Pair is a single named substitution value.
type Pair struct {
	Name  string
	Value string
}

// Mapping is an ordered collection of uniquely named substitution values for
// one row. It is immutable once constructed; accessors return copies so a
// Mapping can be shared without defensive cloning by callers.
type Mapping struct {
	names  []string
	values map[string]string
}

// NewMapping builds a Mapping from pairs, preserving order. Empty names are
// rejected, as are duplicate names within the same row.
func NewMapping(pairs ...Pair) (Mapping, error) {
	names := make([]string, 0, len(pairs))
	values := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		name := strings.TrimSpace(pair.Name)
		if name == "" {
			return Mapping{}, fmt.Errorf("subs: empty variable name")
		}
		if _, exists := values[name]; exists {
			return Mapping{}, fmt.Errorf("subs: duplicate variable %q", name)
		}
		names = append(names, name)
		values[name] = pair.Value
	}

	return Mapping{names: names, values: values}, nil
}

// MustNewMapping panics when construction fails. Useful for tests.
func MustNewMapping(pairs ...Pair) Mapping {
	m, err := NewMapping(pairs...)
	if err != nil {
		panic(err)
	}
	return m
}

// Len returns the number of variables in the mapping.
func (m Mapping) Len() int {
	return len(m.names)
}

// Get returns the value for a variable name and whether it is present.
func (m Mapping) Get(name string) (string, bool) {
	value, ok := m.values[name]
	return value, ok
}

// Has reports whether the mapping carries the named variable.
func (m Mapping) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Names returns the variable names in insertion order.
func (m Mapping) Names() []string {
	return append([]string(nil), m.names...)
}

// Values returns a copy of the underlying name/value map.
func (m Mapping) Values() map[string]string {
	out := make(map[string]string, len(m.values))
	for name, value := range m.values {
		out[name] = value
	}
	return out
}

// OutputName returns the reserved output-name value and whether the row
// supplied one.
func (m Mapping) OutputName() (string, bool) {
	value, ok := m.values[OutputNameKey]
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// Without returns a Mapping with the named variable removed. The receiver is
// left untouched.
func (m Mapping) Without(name string) Mapping {
	if !m.Has(name) {
		return m
	}

	names := make([]string, 0, len(m.names)-1)
	values := make(map[string]string, len(m.values)-1)
	for _, existing := range m.names {
		if existing == name {
			continue
		}
		names = append(names, existing)
		values[existing] = m.values[existing]
	}
	return Mapping{names: names, values: values}
}
