package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcard/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show past quiz sessions, or the answers of one session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			answers, err := s.EventRepo().QueryAnswers(ctx, args[0])
			if err != nil {
				return fmt.Errorf("query answers: %w", err)
			}
			if len(answers) == 0 {
				fmt.Fprintf(out, "No answers recorded for session %s.\n", args[0])
				return nil
			}
			for i, a := range answers {
				mark := "✓"
				if !a.Correct {
					mark = "✗"
				}
				fmt.Fprintf(out, "%2d. %s %s\n", i+1, mark, a.QuestionText)
				fmt.Fprintf(out, "      picked %q", a.SelectedText)
				if !a.Correct {
					fmt.Fprintf(out, ", answer %q", a.CorrectText)
				}
				fmt.Fprintf(out, "  (%.1fs)", float64(a.TimeMs)/1000)
				acc, err := s.EventRepo().ItemAccuracy(ctx, a.ItemID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  all time %d/%d\n", acc.Correct, acc.Attempts)
			}
			return nil
		}

		sessions, err := s.EventRepo().QuerySessionSummaries(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No quizzes played yet.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-16s  %-24s  %7s  %6s  %s\n",
			"Session", "Started", "Bank", "Score", "Time", "Done")
		fmt.Fprintln(out, strings.Repeat("─", 104))
		for _, ss := range sessions {
			done := "✓"
			switch {
			case !ss.Ended:
				done = "·"
			case !ss.Completed:
				done = "early"
			}
			fmt.Fprintf(out, "%-36s  %-16s  %-24s  %3d/%-3d  %6s  %s\n",
				ss.SessionID,
				ss.StartedAt.Local().Format("2006-01-02 15:04"),
				truncate(ss.BankTitle, 24),
				ss.CorrectAnswers, ss.QuestionsServed,
				fmt.Sprintf("%d:%02d", ss.DurationSecs/60, ss.DurationSecs%60),
				done,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}
