// Package report implements the post-run verification queries.
package report

import (
	"finledger/ingest/cmd/root"
	"finledger/ingest/internal/logging"
	"finledger/ingest/internal/store"

	"github.com/spf13/cobra"
)

var auditDuplicates bool

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Report stored transaction totals",
	Long: `Report the total transaction count and per-owner counts read back from the
store. With --duplicates it also audits the uniqueness invariant, listing any
(transaction_id, reference_number) pair stored more than once.`,
	Run: reportFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&auditDuplicates, "duplicates", "d", false,
		"Audit the table for duplicate identity pairs")
}

func reportFunc(cmd *cobra.Command, args []string) {
	log := root.Log

	st, err := store.Open(root.DatabasePath(cmd), log)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.WithError(err).Warn("Error closing database connection")
		}
	}()

	if err := st.EnsureSchema(); err != nil {
		log.Fatalf("Failed to create or verify transactions table: %v", err)
	}

	total, err := st.Count()
	if err != nil {
		log.Fatalf("Error counting transactions: %v", err)
	}
	log.WithField("total", total).Info("Total transactions in database")

	counts, err := st.CountByOwner()
	if err != nil {
		log.Fatalf("Error counting transactions by owner: %v", err)
	}
	for _, c := range counts {
		log.WithFields(
			logging.Field{Key: "owner", Value: c.AccountOwner},
			logging.Field{Key: "total", Value: c.Count},
		).Info("Transactions by owner")
	}

	if auditDuplicates {
		pairs, err := st.DuplicatePairs()
		if err != nil {
			log.Fatalf("Error auditing duplicate pairs: %v", err)
		}
		if len(pairs) == 0 {
			log.Info("No duplicate identity pairs found")
			return
		}
		for _, pair := range pairs {
			log.WithFields(
				logging.Field{Key: "transaction_id", Value: pair.TransactionID},
				logging.Field{Key: "reference_number", Value: pair.ReferenceNumber},
				logging.Field{Key: "count", Value: pair.Count},
			).Warn("Duplicate identity pair")
		}
	}
}
