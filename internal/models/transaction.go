// Package models provides the data structures used throughout the application.
package models

import (
	"github.com/shopspring/decimal"
)

// SourceKind identifies which account export a transaction came from. It
// determines the adapter and required-column set that apply, and is persisted
// as the record's account owner.
type SourceKind string

const (
	SourcePrimary SourceKind = "Primary"
	SourcePartner SourceKind = "Partner"
	SourceCard    SourceKind = "Card"
)

// CategoryUncategorized is the sentinel label used when neither the rule
// engine nor the source row provides a category.
const CategoryUncategorized = "Uncategorized"

// Transaction is the canonical, source-agnostic record persisted to the
// store. Dates are kept as source-variable strings: the Primary export passes
// its own formats through, the Partner adapter reformats to M/D/YYYY and the
// Card adapter to ISO. The pair (TransactionID, ReferenceNumber) is the sole
// duplicate-detection key.
type Transaction struct {
	TransactionID       string
	PostingDate         string
	EffectiveDate       string
	TransactionType     string
	Amount              decimal.Decimal // negative = outflow, positive = inflow
	CheckNumber         string
	ReferenceNumber     string
	Description         string
	TransactionCategory string
	Type                string
	Balance             *decimal.Decimal // nil when the source provides no running balance
	Memo                string
	ExtendedDescription string
	AccountOwner        SourceKind
}

// IsDebit returns true if the transaction is an outflow.
func (t *Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// IsCredit returns true if the transaction is an inflow.
func (t *Transaction) IsCredit() bool {
	return !t.Amount.IsNegative()
}
