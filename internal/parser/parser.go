// Package parser defines the common interface implemented by the source
// adapters. The three adapters (Primary, Partner, Card) form a closed set
// dispatched through this interface rather than a string-keyed conditional.
package parser

import (
	"finledger/ingest/internal/models"
)

// Parser converts one raw export format into canonical transaction records.
type Parser interface {
	// Kind identifies which source this adapter handles. The value is
	// persisted as the account owner of every record it produces.
	Kind() models.SourceKind

	// ValidateColumns checks the file header against the source-specific
	// required column set and returns the columns that are missing. A
	// non-empty result means the whole file must be skipped.
	ValidateColumns(filePath string) ([]string, error)

	// ParseFile loads the file and normalizes its rows. Malformed rows are
	// logged with row context and skipped; only file-level failures return
	// an error.
	ParseFile(filePath string) ([]models.Transaction, error)
}

// Classifier is the slice of the category rule engine the adapters depend on.
type Classifier interface {
	Classify(description string) (string, bool)
}
