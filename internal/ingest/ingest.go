// Package ingest orchestrates an ingestion run: per source folder it selects
// the adapter, validates each file's columns, normalizes rows, applies the
// duplicate-check-then-insert discipline and keeps per-file counters.
package ingest

import (
	"errors"
	"fmt"

	"finledger/ingest/internal/fileutils"
	"finledger/ingest/internal/logging"
	"finledger/ingest/internal/parser"
	"finledger/ingest/internal/parsererror"
	"finledger/ingest/internal/store"
)

// Source pairs a folder with the adapter that understands its export format.
type Source struct {
	Dir    string
	Parser parser.Parser
}

// Result holds the per-file counters reported at the end of each file.
type Result struct {
	File       string
	NewRecords int
	Duplicates int
	Failed     int
}

// Ingester drives one ingestion run over a shared store handle. Re-running
// against the same folders is a no-op for already-ingested rows: the
// duplicate check stands in for any "already processed" file tracking.
type Ingester struct {
	store  *store.TransactionStore
	logger logging.Logger
}

// New creates an Ingester writing to the given store.
func New(st *store.TransactionStore, logger logging.Logger) *Ingester {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Ingester{store: st, logger: logger}
}

// Run ingests every configured source in order, then logs per-owner totals
// read back from the store as a post-run verification step.
func (ing *Ingester) Run(sources []Source) ([]Result, error) {
	var results []Result
	for _, src := range sources {
		res, err := ing.IngestFolder(src.Dir, src.Parser)
		if err != nil {
			return results, err
		}
		results = append(results, res...)
	}

	counts, err := ing.store.CountByOwner()
	if err != nil {
		return results, fmt.Errorf("error verifying stored totals: %w", err)
	}
	for _, c := range counts {
		ing.logger.WithFields(
			logging.Field{Key: "owner", Value: c.AccountOwner},
			logging.Field{Key: "total", Value: c.Count},
		).Info("Total transactions in database")
	}

	return results, nil
}

// IngestFolder processes every CSV file in dir (non-recursive) with the
// given adapter. A missing folder is a configuration error and aborts the
// run; anything below that is isolated per file or per row.
func (ing *Ingester) IngestFolder(dir string, p parser.Parser) ([]Result, error) {
	log := ing.logger.WithField("source", string(p.Kind()))

	if !fileutils.DirectoryExists(dir) {
		return nil, fmt.Errorf("source folder not found: %s", dir)
	}

	files, err := fileutils.ListFiles(dir, ".csv")
	if err != nil {
		return nil, fmt.Errorf("error listing source folder %s: %w", dir, err)
	}
	log.WithFields(
		logging.Field{Key: "dir", Value: dir},
		logging.Field{Key: "files", Value: len(files)},
	).Info("Found source files")

	results := make([]Result, 0, len(files))
	for _, file := range files {
		results = append(results, ing.ingestFile(file, p))
	}
	return results, nil
}

// ingestFile validates, parses and inserts one file. A failed column check
// or unreadable file skips the whole file; row failures skip only the row.
// Failures never propagate past the file.
func (ing *Ingester) ingestFile(filePath string, p parser.Parser) Result {
	log := ing.logger.WithFields(
		logging.Field{Key: "file", Value: filePath},
		logging.Field{Key: "source", Value: string(p.Kind())},
	)
	log.Info("Processing file")

	result := Result{File: filePath}

	missing, err := p.ValidateColumns(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to read file, skipping")
		return result
	}
	if len(missing) > 0 {
		vErr := &parsererror.ValidationError{FilePath: filePath, MissingColumns: missing}
		log.WithError(vErr).Error("Missing required columns, skipping file")
		return result
	}

	transactions, err := p.ParseFile(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to parse file, skipping")
		return result
	}

	for _, tx := range transactions {
		exists, err := ing.store.Exists(tx.TransactionID, tx.ReferenceNumber)
		if err != nil {
			log.WithError(err).WithField("transaction_id", tx.TransactionID).
				Error("Duplicate check failed, skipping record")
			result.Failed++
			continue
		}
		if exists {
			result.Duplicates++
			continue
		}

		if err := ing.store.Insert(tx); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				// The pre-check missed it but the constraint held.
				log.WithField("transaction_id", tx.TransactionID).
					Warn("Record already exists, skipping")
				result.Duplicates++
				continue
			}
			log.WithError(err).WithField("transaction_id", tx.TransactionID).
				Error("Insert failed, skipping record")
			result.Failed++
			continue
		}
		result.NewRecords++
	}

	log.WithFields(
		logging.Field{Key: "new", Value: result.NewRecords},
		logging.Field{Key: "duplicates", Value: result.Duplicates},
		logging.Field{Key: "failed", Value: result.Failed},
	).Info("Completed processing file")

	return result
}
