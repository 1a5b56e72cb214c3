// Package root contains the root command for the application
package root

import (
	"finledger/ingest/internal/config"
	"finledger/ingest/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cfg is the loaded configuration, populated before any command runs
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ledger-ingest",
		Short: "Ingest multi-source bank CSV exports into one deduplicated SQLite ledger.",
		Long: `ledger-ingest normalizes CSV exports from a primary checking account, a
partner's account and a credit card into one canonical transaction table.
Records are categorized with a regex rule file and deduplicated on
(transaction_id, reference_number), so re-running over the same folders is a
no-op.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			Cfg = cfg

			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLogging(cfg))
			logging.SetDefault(Log)
		},
	}
)

// Init initializes the root command and its persistent flags.
func Init() {
	Cmd.PersistentFlags().String("db", "", "Path to the SQLite database (overrides config)")
	Cmd.PersistentFlags().String("categories", "", "Path to the category mapping file (overrides config)")
}

// DatabasePath resolves the database path, preferring the --db flag.
func DatabasePath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		return path
	}
	return Cfg.Database.Path
}

// CategoriesFile resolves the category mapping path, preferring the
// --categories flag.
func CategoriesFile(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("categories"); path != "" {
		return path
	}
	return Cfg.Categories.File
}
