package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// StructuralError is a malformed-file problem (ragged columns, broken
// quoting, missing header). It aborts the whole upload; no session is
// created for a file that cannot even be read.
type StructuralError struct {
	Line int
	Err  error
}

func (e *StructuralError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed file at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed file: %v", e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// ParseCSV reads a delimited file into its header list and raw records
// (header -> cell, one map per data row). Column counts are enforced
// against the header; fully empty rows are skipped.
func ParseCSV(r io.Reader) ([]string, []map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, &StructuralError{Err: errors.New("empty file, no header row")}
		}
		return nil, nil, structural(err)
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var records []map[string]string
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, structural(err)
		}
		record := make(map[string]string, len(headers))
		empty := true
		for i, cell := range cells {
			record[headers[i]] = cell
			if strings.TrimSpace(cell) != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		records = append(records, record)
	}

	return headers, records, nil
}

func structural(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &StructuralError{Line: parseErr.Line, Err: err}
	}
	return &StructuralError{Err: err}
}
