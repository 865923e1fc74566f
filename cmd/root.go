package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcard/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizcard",
	Short: "Multiple-choice quizzes with instant answer feedback",
	Long:  "quizcard plays multiple-choice question banks in the terminal, over HTTP or in Telegram, and shows which option was right the moment you answer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZCARD_DB env var)")
	addBankFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// addBankFlags registers --bank and --shuffle on commands that play a bank.
func addBankFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("bank", "b", "", "Question bank file, YAML or JSON (overrides QUIZCARD_BANK env var)")
	cmd.Flags().Bool("shuffle", false, "Shuffle question and option order")
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZCARD_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore resolves the database path and opens it.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
