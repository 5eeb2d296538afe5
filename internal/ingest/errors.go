package ingest

import (
	"fmt"
	"strings"
)

// FormatError indicates an unrecognized file type or that every parse
// strategy failed. Non-fatal, the caller may retry with different input.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// MissingColumnsError lists the required columns that could not be resolved
// after header alias matching.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}
