// Package common provides shared CSV functionality across the source adapters.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"finledger/ingest/internal/logging"

	"github.com/gocarina/gocsv"
)

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string, logger logging.Logger) ([]TCSVRow, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	logger.WithField("file", filePath).Debug("Reading CSV file")

	file, err := os.Open(filePath) // #nosec G304 -- ingestion reads user-configured folders
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []TCSVRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.WithField("count", len(rows)).Debug("Successfully read CSV data")
	return rows, nil
}

// MissingColumns reads the header row of a CSV file and returns the required
// columns that are absent. An empty result means the file passes the
// source-specific column check.
func MissingColumns(filePath string, required []string, logger logging.Logger) ([]string, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	file, err := os.Open(filePath) // #nosec G304 -- ingestion reads user-configured folders
	if err != nil {
		return nil, fmt.Errorf("error opening file for validation: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return required, nil
		}
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}

	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing, nil
}
