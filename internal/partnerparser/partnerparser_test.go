package partnerparser

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"finledger/ingest/internal/categorizer"
	"finledger/ingest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Account Number,Transaction Description,Transaction Date,Transaction Type,Transaction Amount,Balance\n"

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	engine, err := categorizer.NewRuleEngine([]categorizer.Rule{
		{Pattern: "GROCERY", Category: "Groceries"},
	}, nil)
	require.NoError(t, err)
	return NewAdapter(engine, nil)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "partner.csv")
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
	return path
}

func TestParseFileDebitSignNormalization(t *testing.T) {
	path := writeCSV(t, header+"12345,GROCERY MART,01/15/24,Debit,100.00,\"2,500.00\"\n")

	txs, err := newTestAdapter(t).ParseFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, "-100", tx.Amount.String(), "debit rows must be forced negative")
	assert.Equal(t, "1/15/2024", tx.PostingDate)
	assert.Equal(t, "1/15/2024", tx.EffectiveDate)
	assert.Equal(t, models.SourcePartner, tx.AccountOwner)
	assert.Equal(t, "Groceries", tx.TransactionCategory)
	require.NotNil(t, tx.Balance)
	assert.Equal(t, "2500", tx.Balance.String())
}

func TestParseFileCreditSignNormalization(t *testing.T) {
	path := writeCSV(t, header+"12345,PAYROLL DEPOSIT,02/01/24,Credit,50,\"3,000.00\"\n")

	txs, err := newTestAdapter(t).ParseFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "50", txs[0].Amount.String(), "credit rows must be forced positive")
	assert.Equal(t, models.CategoryUncategorized, txs[0].TransactionCategory)
}

func TestParseFileCreditIgnoresRawSign(t *testing.T) {
	path := writeCSV(t, header+"12345,REFUND,02/02/24,Credit,-75.00,100.00\n")

	txs, err := newTestAdapter(t).ParseFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "75", txs[0].Amount.String(), "raw sign must not override the type column")
}

func TestParseFileSynthesizedIdentity(t *testing.T) {
	path := writeCSV(t, header+"12345,GROCERY MART,01/15/24,Debit,100.00,500.00\n")

	txs, err := newTestAdapter(t).ParseFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	tx := txs[0]
	expected := fmt.Sprintf("P_20240115_%d", models.Fingerprint("GROCERY MART"))
	assert.Equal(t, expected, tx.TransactionID)
	assert.Equal(t, tx.TransactionID, tx.ReferenceNumber,
		"transaction ID and reference number are the same derived value")
}

func TestParseFileRowIsolation(t *testing.T) {
	content := header +
		"12345,ROW ONE,01/01/24,Debit,10.00,100.00\n" +
		"12345,ROW TWO,01/02/24,Debit,20.00,80.00\n" +
		"12345,ROW THREE,not-a-date,Debit,30.00,50.00\n" +
		"12345,ROW FOUR,01/04/24,Debit,40.00,10.00\n"
	path := writeCSV(t, content)

	txs, err := newTestAdapter(t).ParseFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 3, "only the row with the unparseable date is skipped")
	assert.Equal(t, "ROW ONE", txs[0].Description)
	assert.Equal(t, "ROW FOUR", txs[2].Description)
}

func TestParseFileBadAmountSkipsRow(t *testing.T) {
	content := header +
		"12345,GOOD,01/01/24,Debit,10.00,100.00\n" +
		"12345,BAD,01/02/24,Debit,ten dollars,90.00\n"
	path := writeCSV(t, content)

	txs, err := newTestAdapter(t).ParseFile(path)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "GOOD", txs[0].Description)
}

func TestValidateColumns(t *testing.T) {
	adapter := newTestAdapter(t)

	path := writeCSV(t, header+"12345,X,01/01/24,Debit,1.00,1.00\n")
	missing, err := adapter.ValidateColumns(path)
	require.NoError(t, err)
	assert.Empty(t, missing)

	path = writeCSV(t, "Account Number,Transaction Description,Transaction Date\n12345,X,01/01/24\n")
	missing, err = adapter.ValidateColumns(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Transaction Type", "Transaction Amount", "Balance"}, missing)
}

func TestKind(t *testing.T) {
	assert.Equal(t, models.SourcePartner, newTestAdapter(t).Kind())
}
