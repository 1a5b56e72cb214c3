// Package ingest implements the ingestion run command.
package ingest

import (
	"strings"

	"finledger/ingest/cmd/root"
	"finledger/ingest/internal/cardparser"
	"finledger/ingest/internal/categorizer"
	"finledger/ingest/internal/fileutils"
	"finledger/ingest/internal/ingest"
	"finledger/ingest/internal/logging"
	"finledger/ingest/internal/models"
	"finledger/ingest/internal/parser"
	"finledger/ingest/internal/partnerparser"
	"finledger/ingest/internal/primaryparser"
	"finledger/ingest/internal/store"

	"github.com/spf13/cobra"
)

var sourceFilter string

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion pass over the configured source folders",
	Long: `Run one ingestion pass: every CSV file in each configured source folder is
validated, normalized, categorized and inserted unless its identity pair is
already stored. Per-file new/duplicate counts and per-owner totals are
reported at the end.`,
	Run: ingestFunc,
}

func init() {
	Cmd.Flags().StringVarP(&sourceFilter, "source", "s", "",
		"Only ingest one source kind (primary, partner or card)")
}

func ingestFunc(cmd *cobra.Command, args []string) {
	log := root.Log

	engine, err := categorizer.LoadRules(root.CategoriesFile(cmd), log)
	if err != nil {
		log.Fatalf("Error loading category mappings: %v", err)
	}

	sources := configuredSources(engine, log)
	if len(sources) == 0 {
		log.Fatalf("No source folders configured; set sources.*.dir in the config or LEDGER_SOURCES_*_DIR")
	}
	// Configuration errors abort before the store is touched.
	for _, src := range sources {
		if !fileutils.DirectoryExists(src.Dir) {
			log.Fatalf("Source folder not found: %s", src.Dir)
		}
	}

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

	driver := ingest.New(st, log)
	results, err := driver.Run(sources)
	if err != nil {
		log.Fatalf("Ingestion run failed: %v", err)
	}

	var newRecords, duplicates int
	for _, res := range results {
		newRecords += res.NewRecords
		duplicates += res.Duplicates
	}
	log.WithFields(
		logging.Field{Key: "files", Value: len(results)},
		logging.Field{Key: "new", Value: newRecords},
		logging.Field{Key: "duplicates", Value: duplicates},
	).Info("Ingestion run completed")
}

// configuredSources builds the (folder, adapter) pairs for the run, honoring
// the --source filter. Sources without a configured folder are skipped.
func configuredSources(classifier parser.Classifier, log logging.Logger) []ingest.Source {
	cfg := root.Cfg

	all := []struct {
		kind   models.SourceKind
		dir    string
		parser parser.Parser
	}{
		{models.SourcePrimary, cfg.Sources.Primary.Dir, primaryparser.NewAdapter(classifier, log)},
		{models.SourcePartner, cfg.Sources.Partner.Dir, partnerparser.NewAdapter(classifier, log)},
		{models.SourceCard, cfg.Sources.Card.Dir, cardparser.NewAdapter(classifier, log)},
	}

	var sources []ingest.Source
	for _, src := range all {
		if sourceFilter != "" && !strings.EqualFold(sourceFilter, string(src.kind)) {
			continue
		}
		if src.dir == "" {
			if sourceFilter != "" {
				log.WithField("source", string(src.kind)).Warn("Requested source has no folder configured")
			}
			continue
		}
		sources = append(sources, ingest.Source{Dir: src.dir, Parser: src.parser})
	}
	return sources
}
