package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcard/internal/app"
	"github.com/abhisek/quizcard/internal/llm"
	"github.com/abhisek/quizcard/internal/questiongen"
	"github.com/abhisek/quizcard/internal/quiz"
	"github.com/abhisek/quizcard/internal/screens/home"
	"github.com/abhisek/quizcard/internal/store"
)

// runApp loads the bank, opens the store, builds dependencies and launches
// the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	bankPath, _ := cmd.Flags().GetString("bank")
	shuffle, _ := cmd.Flags().GetBool("shuffle")
	bank, err := quiz.Resolve(bankPath)
	if err != nil {
		return fmt.Errorf("load bank: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	deps := home.Deps{
		Bank:    bank,
		Shuffle: shuffle,
		Repo:    st.EventRepo(),
		SaveDir: filepath.Join(filepath.Dir(dbPath), "banks"),
	}

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Quiz generation will be unavailable.")
	} else {
		deps.Generator = questiongen.New(provider, questiongen.DefaultConfig())
	}

	return app.Run(deps)
}
