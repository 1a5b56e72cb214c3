// Package cardparser normalizes credit card CSV exports. Card sources split
// the amount across separate Debit and Credit columns, carry no
// transaction-type column and no running balance.
package cardparser

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

	"github.com/shopspring/decimal"
)

// Row represents a single row in a credit card CSV export.
type Row struct {
	TransactionDate string `csv:"Transaction Date"`
	PostedDate      string `csv:"Posted Date"`
	CardNo          string `csv:"Card No."`
	Description     string `csv:"Description"`
	Category        string `csv:"Category"`
	Debit           string `csv:"Debit"`
	Credit          string `csv:"Credit"`
}

var requiredColumns = []string{
	"Transaction Date", "Posted Date", "Card No.", "Description",
	"Category", "Debit", "Credit",
}

// Adapter implements parser.Parser for credit card exports.
type Adapter struct {
	classifier parser.Classifier
	logger     logging.Logger
}

// NewAdapter creates a credit card adapter using the given classifier.
func NewAdapter(classifier parser.Classifier, logger logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Adapter{classifier: classifier, logger: logger}
}

// Kind implements parser.Parser.
func (a *Adapter) Kind() models.SourceKind {
	return models.SourceCard
}

// ValidateColumns implements parser.Parser.
func (a *Adapter) ValidateColumns(filePath string) ([]string, error) {
	return common.MissingColumns(filePath, requiredColumns, a.logger)
}

// ParseFile implements parser.Parser. Malformed rows are logged and skipped.
func (a *Adapter) ParseFile(filePath string) ([]models.Transaction, error) {
	log := a.logger.WithField("file", filePath)
	log.Info("Parsing credit card CSV file")

	rows, err := common.ReadCSVFile[Row](filePath, a.logger)
	if err != nil {
		return nil, fmt.Errorf("error reading credit card CSV: %w", err)
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
	// Card dates arrive in ISO format; transaction and posted dates are
	// distinct fields and both parsed.
	transactionDate, err := time.Parse(dateutils.LayoutISO, strings.TrimSpace(row.TransactionDate))
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Source: "card",
			Field:  "Transaction Date",
			Value:  row.TransactionDate,
			Err:    err,
		}
	}
	postedDate, err := time.Parse(dateutils.LayoutISO, strings.TrimSpace(row.PostedDate))
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Source: "card",
			Field:  "Posted Date",
			Value:  row.PostedDate,
			Err:    err,
		}
	}

	uniqueID := models.SyntheticID("C", transactionDate, row.Description)

	amount, err := deriveAmount(row)
	if err != nil {
		return models.Transaction{}, err
	}

	// No transaction-type column on card exports: the type follows the sign.
	transactionType := "Credit"
	if amount.IsNegative() {
		transactionType = "Debit"
	}

	category, ok := a.classifier.Classify(row.Description)
	if !ok {
		category = models.CategoryUncategorized
	}

	return models.Transaction{
		TransactionID:       uniqueID,
		PostingDate:         dateutils.ToISODate(postedDate),
		EffectiveDate:       dateutils.ToISODate(transactionDate),
		TransactionType:     transactionType,
		Amount:              amount,
		ReferenceNumber:     fmt.Sprintf("CARD_%s_%s", row.CardNo, uniqueID),
		Description:         row.Description,
		TransactionCategory: category,
		Type:                transactionType,
		AccountOwner:        models.SourceCard,
	}, nil
}

// deriveAmount maps the Debit/Credit column pair onto a signed amount: a
// debit value yields its negated absolute value, a credit value its absolute
// value, and neither yields zero.
func deriveAmount(row Row) (decimal.Decimal, error) {
	if strings.TrimSpace(row.Debit) != "" {
		debit, err := models.ParseAmount(row.Debit)
		if err != nil {
			return decimal.Zero, &parsererror.ParseError{
				Source: "card",
				Field:  "Debit",
				Value:  row.Debit,
				Err:    err,
			}
		}
		return debit.Abs().Neg(), nil
	}
	if strings.TrimSpace(row.Credit) != "" {
		credit, err := models.ParseAmount(row.Credit)
		if err != nil {
			return decimal.Zero, &parsererror.ParseError{
				Source: "card",
				Field:  "Credit",
				Value:  row.Credit,
				Err:    err,
			}
		}
		return credit.Abs(), nil
	}
	return decimal.Zero, nil
}
