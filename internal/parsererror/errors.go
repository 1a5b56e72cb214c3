// Package parsererror defines the typed errors produced while validating and
// normalizing source rows.
package parsererror

import (
	"fmt"
	"strings"
)

// ParseError represents a malformed row: a required field was absent or
// unparseable during normalization.
type ParseError struct {
	Source string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Source, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a file whose header is missing required columns
// for its source kind. The whole file is skipped, no rows are processed.
type ValidationError struct {
	FilePath       string
	MissingColumns []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: missing required columns: %s",
		e.FilePath, strings.Join(e.MissingColumns, ", "))
}
