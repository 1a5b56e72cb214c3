package store

import (
	"github.com/shopspring/decimal"

	"finledger/ingest/internal/models"
)

// TransactionEntity is the persisted shape of a canonical transaction. The
// composite unique index on (transaction_id, reference_number) is the sole
// duplicate-detection key. Amounts are stored as REAL to match the schema the
// dashboard already reads.
type TransactionEntity struct {
	ID                  int64    `gorm:"primaryKey;autoIncrement;column:id"`
	TransactionID       string   `gorm:"column:transaction_id;uniqueIndex:idx_transactions_identity"`
	PostingDate         string   `gorm:"column:posting_date"`
	EffectiveDate       string   `gorm:"column:effective_date"`
	TransactionType     string   `gorm:"column:transaction_type"`
	Amount              float64  `gorm:"column:amount"`
	CheckNumber         *string  `gorm:"column:check_number"`
	ReferenceNumber     string   `gorm:"column:reference_number;uniqueIndex:idx_transactions_identity"`
	Description         string   `gorm:"column:description"`
	TransactionCategory string   `gorm:"column:transaction_category"`
	Type                string   `gorm:"column:type"`
	Balance             *float64 `gorm:"column:balance"`
	Memo                *string  `gorm:"column:memo"`
	ExtendedDescription *string  `gorm:"column:extended_description"`
	AccountOwner        string   `gorm:"column:account_owner;not null;default:'Primary'"`
}

// TableName implements the gorm table naming convention.
func (TransactionEntity) TableName() string {
	return "transactions"
}

func toEntity(t models.Transaction) *TransactionEntity {
	amount, _ := t.Amount.Float64()

	entity := &TransactionEntity{
		TransactionID:       t.TransactionID,
		PostingDate:         t.PostingDate,
		EffectiveDate:       t.EffectiveDate,
		TransactionType:     t.TransactionType,
		Amount:              amount,
		CheckNumber:         optionalString(t.CheckNumber),
		ReferenceNumber:     t.ReferenceNumber,
		Description:         t.Description,
		TransactionCategory: t.TransactionCategory,
		Type:                t.Type,
		Memo:                optionalString(t.Memo),
		ExtendedDescription: optionalString(t.ExtendedDescription),
		AccountOwner:        string(t.AccountOwner),
	}
	if t.Balance != nil {
		balance, _ := t.Balance.Float64()
		entity.Balance = &balance
	}
	return entity
}

func toModel(e *TransactionEntity) models.Transaction {
	t := models.Transaction{
		TransactionID:       e.TransactionID,
		PostingDate:         e.PostingDate,
		EffectiveDate:       e.EffectiveDate,
		TransactionType:     e.TransactionType,
		Amount:              decimal.NewFromFloat(e.Amount),
		CheckNumber:         stringValue(e.CheckNumber),
		ReferenceNumber:     e.ReferenceNumber,
		Description:         e.Description,
		TransactionCategory: e.TransactionCategory,
		Type:                e.Type,
		Memo:                stringValue(e.Memo),
		ExtendedDescription: stringValue(e.ExtendedDescription),
		AccountOwner:        models.SourceKind(e.AccountOwner),
	}
	if e.Balance != nil {
		balance := decimal.NewFromFloat(*e.Balance)
		t.Balance = &balance
	}
	return t
}

// optionalString maps the model's empty-string "absent" convention onto a
// NULL column value.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
