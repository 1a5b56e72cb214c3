package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a raw amount string into a decimal.Decimal. The bank
// exports use US formatting, so thousands-separator commas and currency
// symbols are stripped before parsing.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	amount := strings.TrimSpace(amountStr)
	if amount == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	amount = strings.ReplaceAll(amount, ",", "")
	amount = strings.ReplaceAll(amount, "$", "")
	amount = strings.ReplaceAll(amount, " ", "")

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}
	return dec, nil
}

// ParseOptionalAmount parses an amount string that may be absent. It returns
// nil when the string is empty and an error only for non-empty unparseable
// values.
func ParseOptionalAmount(amountStr string) (*decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return nil, nil
	}
	dec, err := ParseAmount(amountStr)
	if err != nil {
		return nil, err
	}
	return &dec, nil
}
