// Package partnerparser normalizes exports from the partner's account. This
// source has no natural primary key, so identity is synthesized from the
// transaction date and a fingerprint of the description.
package partnerparser

import (
	"fmt"
	"strings"
	"time"

	"finledger/ingest/internal/common"
	"finledger/ingest/internal/dateutils"
	"finledger/ingest/internal/logging"
	"finledger/ingest/internal/models"
	"finledger/ingest/internal/parser"
	"finledger/ingest/internal/parsererror"
)

// Row represents a single row in a partner account CSV export.
type Row struct {
	AccountNumber          string `csv:"Account Number"`
	TransactionDescription string `csv:"Transaction Description"`
	TransactionDate        string `csv:"Transaction Date"`
	TransactionType        string `csv:"Transaction Type"`
	TransactionAmount      string `csv:"Transaction Amount"`
	Balance                string `csv:"Balance"`
}

var requiredColumns = []string{
	"Account Number", "Transaction Description", "Transaction Date",
	"Transaction Type", "Transaction Amount", "Balance",
}

// Adapter implements parser.Parser for partner account exports.
type Adapter struct {
	classifier parser.Classifier
	logger     logging.Logger
}

// NewAdapter creates a partner account adapter using the given classifier.
func NewAdapter(classifier parser.Classifier, logger logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Adapter{classifier: classifier, logger: logger}
}

// Kind implements parser.Parser.
func (a *Adapter) Kind() models.SourceKind {
	return models.SourcePartner
}

// ValidateColumns implements parser.Parser.
func (a *Adapter) ValidateColumns(filePath string) ([]string, error) {
	return common.MissingColumns(filePath, requiredColumns, a.logger)
}

// ParseFile implements parser.Parser. Malformed rows are logged and skipped.
func (a *Adapter) ParseFile(filePath string) ([]models.Transaction, error) {
	log := a.logger.WithField("file", filePath)
	log.Info("Parsing partner account CSV file")

	rows, err := common.ReadCSVFile[Row](filePath, a.logger)
	if err != nil {
		return nil, fmt.Errorf("error reading partner account CSV: %w", err)
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
	// Partner dates arrive as MM/DD/YY.
	date, err := time.Parse(dateutils.LayoutShortUS, strings.TrimSpace(row.TransactionDate))
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Source: "partner",
			Field:  "Transaction Date",
			Value:  row.TransactionDate,
			Err:    err,
		}
	}
	formattedDate := dateutils.FormatUS(date)

	// Identity is synthesized; transaction ID and reference number are the
	// same derived value for this source.
	uniqueID := models.SyntheticID("P", date, row.TransactionDescription)

	amount, err := models.ParseAmount(row.TransactionAmount)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Source: "partner",
			Field:  "Transaction Amount",
			Value:  row.TransactionAmount,
			Err:    err,
		}
	}

	// The raw amount's own sign is not trusted: the transaction-type column
	// decides the direction.
	switch strings.ToLower(row.TransactionType) {
	case "debit":
		amount = amount.Abs().Neg()
	case "credit":
		amount = amount.Abs()
	}

	balance, err := models.ParseOptionalAmount(row.Balance)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Source: "partner",
			Field:  "Balance",
			Value:  row.Balance,
			Err:    err,
		}
	}

	category, ok := a.classifier.Classify(row.TransactionDescription)
	if !ok {
		category = models.CategoryUncategorized
	}

	return models.Transaction{
		TransactionID:       uniqueID,
		PostingDate:         formattedDate,
		EffectiveDate:       formattedDate,
		TransactionType:     row.TransactionType,
		Amount:              amount,
		ReferenceNumber:     uniqueID,
		Description:         row.TransactionDescription,
		TransactionCategory: category,
		Type:                row.TransactionType,
		Balance:             balance,
		AccountOwner:        models.SourcePartner,
	}, nil
}
