package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "100.00", want: "100"},
		{name: "negative", input: "-42.50", want: "-42.5"},
		{name: "thousands separators", input: "1,234.56", want: "1234.56"},
		{name: "currency symbol", input: "$25.00", want: "25"},
		{name: "whitespace", input: " 50 ", want: "50"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseOptionalAmount(t *testing.T) {
	got, err := ParseOptionalAmount("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalAmount("8,198.00")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.RequireFromString("8198")))

	_, err = ParseOptionalAmount("not-a-number")
	assert.Error(t, err)
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("ACH DEPOSIT PAYROLL")
	b := Fingerprint("ACH DEPOSIT PAYROLL")
	assert.Equal(t, a, b)

	c := Fingerprint("ACH DEPOSIT PAYROLL.")
	assert.NotEqual(t, a, c)
}

func TestSyntheticID(t *testing.T) {
	date := time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC)
	id := SyntheticID("P", date, "GROCERY STORE")

	assert.Contains(t, id, "P_20240307_")
	assert.Equal(t, id, SyntheticID("P", date, "GROCERY STORE"))
}

func TestTransactionDirection(t *testing.T) {
	outflow := Transaction{Amount: decimal.RequireFromString("-12.00")}
	assert.True(t, outflow.IsDebit())
	assert.False(t, outflow.IsCredit())

	inflow := Transaction{Amount: decimal.RequireFromString("12.00")}
	assert.False(t, inflow.IsDebit())
	assert.True(t, inflow.IsCredit())
}
