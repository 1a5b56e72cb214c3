// Package primaryparser normalizes exports from the primary checking account.
// This source carries a natural transaction ID and maps near 1:1 onto the
// canonical record shape.
package primaryparser

import (
	"fmt"

	"finledger/ingest/internal/common"
	"finledger/ingest/internal/logging"
	"finledger/ingest/internal/models"
	"finledger/ingest/internal/parser"
	"finledger/ingest/internal/parsererror"
)

// Row represents a single row in a primary account CSV export.
type Row struct {
	TransactionID       string `csv:"Transaction ID"`
	PostingDate         string `csv:"Posting Date"`
	EffectiveDate       string `csv:"Effective Date"`
	TransactionType     string `csv:"Transaction Type"`
	Amount              string `csv:"Amount"`
	CheckNumber         string `csv:"Check Number"`
	ReferenceNumber     string `csv:"Reference Number"`
	Description         string `csv:"Description"`
	TransactionCategory string `csv:"Transaction Category"`
	Type                string `csv:"Type"`
	Balance             string `csv:"Balance"`
	Memo                string `csv:"Memo"`
	ExtendedDescription string `csv:"Extended Description"`
}

var requiredColumns = []string{
	"Transaction ID", "Posting Date", "Effective Date", "Transaction Type",
	"Amount", "Description",
}

// Adapter implements parser.Parser for primary account exports.
type Adapter struct {
	classifier parser.Classifier
	logger     logging.Logger
}

// NewAdapter creates a primary account adapter using the given classifier.
func NewAdapter(classifier parser.Classifier, logger logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Adapter{classifier: classifier, logger: logger}
}

// Kind implements parser.Parser.
func (a *Adapter) Kind() models.SourceKind {
	return models.SourcePrimary
}

// ValidateColumns implements parser.Parser.
func (a *Adapter) ValidateColumns(filePath string) ([]string, error) {
	return common.MissingColumns(filePath, requiredColumns, a.logger)
}

// ParseFile implements parser.Parser. Malformed rows are logged and skipped.
func (a *Adapter) ParseFile(filePath string) ([]models.Transaction, error) {
	log := a.logger.WithField("file", filePath)
	log.Info("Parsing primary account CSV file")

	rows, err := common.ReadCSVFile[Row](filePath, a.logger)
	if err != nil {
		return nil, fmt.Errorf("error reading primary account CSV: %w", err)
	}
	log.WithField("rows", len(rows)).Info("Loaded rows from CSV file")

	var transactions []models.Transaction
	for i, row := range rows {
		tx, err := a.convertRow(row)
		if err != nil {
			log.WithError(err).WithField("row", i+2).Warn("Skipping malformed row")
			continue
		}
		transactions = append(transactions, tx)
	}

	return transactions, nil
}

func (a *Adapter) convertRow(row Row) (models.Transaction, error) {
	if row.TransactionID == "" {
		return models.Transaction{}, &parsererror.ParseError{
			Source: "primary",
			Field:  "Transaction ID",
			Value:  row.TransactionID,
			Err:    fmt.Errorf("transaction ID is empty"),
		}
	}

	amount, err := models.ParseAmount(row.Amount)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Source: "primary",
			Field:  "Amount",
			Value:  row.Amount,
			Err:    err,
		}
	}

	balance, err := models.ParseOptionalAmount(row.Balance)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Source: "primary",
			Field:  "Balance",
			Value:  row.Balance,
			Err:    err,
		}
	}

	// Rule engine first, the export's own category as fallback.
	category, ok := a.classifier.Classify(row.Description)
	if !ok {
		category = row.TransactionCategory
	}

	return models.Transaction{
		TransactionID:       row.TransactionID,
		PostingDate:         row.PostingDate,
		EffectiveDate:       row.EffectiveDate,
		TransactionType:     row.TransactionType,
		Amount:              amount,
		CheckNumber:         row.CheckNumber,
		ReferenceNumber:     row.ReferenceNumber,
		Description:         row.Description,
		TransactionCategory: category,
		Type:                row.Type,
		Balance:             balance,
		Memo:                row.Memo,
		ExtendedDescription: row.ExtendedDescription,
		AccountOwner:        models.SourcePrimary,
	}, nil
}
