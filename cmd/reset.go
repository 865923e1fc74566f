package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all recorded sessions, answers and LLM events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprint(cmd.OutOrStdout(), "Delete all quiz history? [y/N] ")
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.EventRepo().Reset(cmd.Context()); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
