package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"finledger/ingest/internal/categorizer"
	"finledger/ingest/internal/partnerparser"
	"finledger/ingest/internal/primaryparser"
	"finledger/ingest/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const primaryHeader = "Transaction ID,Posting Date,Effective Date,Transaction Type,Amount,Check Number,Reference Number,Description,Transaction Category,Type,Balance,Memo,Extended Description\n"

const partnerHeader = "Account Number,Transaction Description,Transaction Date,Transaction Type,Transaction Amount,Balance\n"

func setupTestStore(t *testing.T) *store.TransactionStore {
	t.Helper()
	st, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, st.EnsureSchema())
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Logf("Failed to close store: %v", err)
		}
	})
	return st
}

func newClassifier(t *testing.T) *categorizer.RuleEngine {
	t.Helper()
	engine, err := categorizer.NewRuleEngine([]categorizer.Rule{
		{Pattern: "GROCERY", Category: "Groceries"},
	}, nil)
	require.NoError(t, err)
	return engine
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
	return path
}

func TestIngestFolderIdempotent(t *testing.T) {
	st := setupTestStore(t)
	dir := t.TempDir()
	writeFile(t, dir, "export.csv", primaryHeader+
		"T1,1/1/2024,1/1/2024,Debit,-10.00,,R1,GROCERY RUN,Misc,Debit,,,\n"+
		"T2,1/2/2024,1/2/2024,Debit,-20.00,,R2,RENT,Housing,Debit,,,\n")

	p := primaryparser.NewAdapter(newClassifier(t), nil)
	driver := New(st, nil)

	first, err := driver.IngestFolder(dir, p)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 2, first[0].NewRecords)
	assert.Equal(t, 0, first[0].Duplicates)

	second, err := driver.IngestFolder(dir, p)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 0, second[0].NewRecords, "re-running over the same folder must be a no-op")
	assert.Equal(t, 2, second[0].Duplicates)

	total, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestIngestFolderFileIsolation(t *testing.T) {
	st := setupTestStore(t)
	dir := t.TempDir()
	writeFile(t, dir, "a_good.csv", primaryHeader+
		"T1,1/1/2024,1/1/2024,Debit,-10.00,,R1,ROW ONE,Misc,Debit,,,\n")
	// Missing most required columns; the whole file is skipped.
	writeFile(t, dir, "b_bad.csv", "Transaction ID,Amount\nT2,-5.00\n")

	p := primaryparser.NewAdapter(newClassifier(t), nil)
	results, err := New(st, nil).IngestFolder(dir, p)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 1, results[0].NewRecords)
	assert.Equal(t, 0, results[1].NewRecords, "the malformed file contributes no rows")

	total, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestIngestFolderRowIsolation(t *testing.T) {
	st := setupTestStore(t)
	dir := t.TempDir()
	writeFile(t, dir, "partner.csv", partnerHeader+
		"1,ROW ONE,01/01/24,Debit,1.00,10.00\n"+
		"1,ROW TWO,01/02/24,Debit,2.00,8.00\n"+
		"1,ROW THREE,bogus,Debit,3.00,5.00\n"+
		"1,ROW FOUR,01/04/24,Debit,4.00,1.00\n")

	p := partnerparser.NewAdapter(newClassifier(t), nil)
	results, err := New(st, nil).IngestFolder(dir, p)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].NewRecords, "only the row with the bad date is lost")

	total, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestIngestFolderMissingDir(t *testing.T) {
	st := setupTestStore(t)
	p := primaryparser.NewAdapter(newClassifier(t), nil)

	_, err := New(st, nil).IngestFolder(filepath.Join(t.TempDir(), "missing"), p)
	assert.Error(t, err, "a missing source folder is a configuration error")
}

func TestRunReportsTotals(t *testing.T) {
	st := setupTestStore(t)

	primaryDir := t.TempDir()
	writeFile(t, primaryDir, "export.csv", primaryHeader+
		"T1,1/1/2024,1/1/2024,Debit,-10.00,,R1,ROW ONE,Misc,Debit,,,\n")

	partnerDir := t.TempDir()
	writeFile(t, partnerDir, "export.csv", partnerHeader+
		"1,GROCERY RUN,01/01/24,Debit,5.00,10.00\n")

	classifier := newClassifier(t)
	sources := []Source{
		{Dir: primaryDir, Parser: primaryparser.NewAdapter(classifier, nil)},
		{Dir: partnerDir, Parser: partnerparser.NewAdapter(classifier, nil)},
	}

	results, err := New(st, nil).Run(sources)
	require.NoError(t, err)
	require.Len(t, results, 2)

	counts, err := st.CountByOwner()
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, int64(1), counts[0].Count)
	assert.Equal(t, int64(1), counts[1].Count)
}

func TestIngestFolderCrossSourceUniqueness(t *testing.T) {
	st := setupTestStore(t)
	dir := t.TempDir()
	// Two files carrying the same rows: the second file's rows are all duplicates.
	content := partnerHeader + "1,GROCERY RUN,01/01/24,Debit,5.00,10.00\n"
	writeFile(t, dir, "jan_a.csv", content)
	writeFile(t, dir, "jan_b.csv", content)

	p := partnerparser.NewAdapter(newClassifier(t), nil)
	results, err := New(st, nil).IngestFolder(dir, p)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 1, results[0].NewRecords)
	assert.Equal(t, 0, results[0].Duplicates)
	assert.Equal(t, 0, results[1].NewRecords)
	assert.Equal(t, 1, results[1].Duplicates)

	pairs, err := st.DuplicatePairs()
	require.NoError(t, err)
	assert.Empty(t, pairs)
}
