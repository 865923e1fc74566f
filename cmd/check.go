package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcard/internal/quiz"
)

var checkCmd = &cobra.Command{
	Use:   "check <bank file>",
	Short: "Validate a question bank file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := quiz.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %q %s, %d questions\n", args[0], bank.Title, bank.Version, len(bank.Items))
		return nil
	},
}
