package reader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-texgen/pkg/subs"
)

// parseCSV reads a header row naming variables followed by one record per
// row. Every record must carry the same column count as the header; a short
// or long record fails the whole input with the offending row identified.
func parseCSV(location string, data []byte) ([]subs.Mapping, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, &subs.InputFormatError{Source: location, Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, &subs.InputFormatError{Source: location, Err: err}
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	var mappings []subs.Mapping
	row := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, &subs.InputFormatError{Source: location, Row: row, Err: csvCause(err)}
		}

		pairs := make([]subs.Pair, 0, len(record))
		for i, value := range record {
			// Unnamed columns carry no variable and are dropped.
			if columns[i] == "" {
				continue
			}
			pairs = append(pairs, subs.Pair{Name: columns[i], Value: value})
		}

		mapping, err := subs.NewMapping(pairs...)
		if err != nil {
			return nil, &subs.InputFormatError{Source: location, Row: row, Err: err}
		}
		mappings = append(mappings, mapping)
	}

	return mappings, nil
}

// csvCause strips the position prefix encoding/csv adds so InputFormatError
// does not report the location twice.
func csvCause(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		if errors.Is(parseErr.Err, csv.ErrFieldCount) {
			return fmt.Errorf("wrong number of fields: %w", csv.ErrFieldCount)
		}
		return parseErr.Err
	}
	return err
}
