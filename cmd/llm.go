package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcard/internal/llm"
	"github.com/abhisek/quizcard/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM requests made while generating quizzes",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failed, _ := cmd.Flags().GetBool("failed")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		events, err := s.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		events = filterLLMEvents(events, purpose, failed, limit)

		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM events found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-14s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("\u2500", 100))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-14s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

// filterLLMEvents keeps events matching purpose (any when empty) and, with
// failedOnly, only unsuccessful ones. The first limit matches are returned.
func filterLLMEvents(events []store.LLMEventRecord, purpose string, failedOnly bool, limit int) []store.LLMEventRecord {
	var out []store.LLMEventRecord
	for _, e := range events {
		if purpose != "" && e.Purpose != purpose {
			continue
		}
		if failedOnly && e.Success {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		e, err := s.EventRepo().GetLLMEvent(ctx, id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		sep := strings.Repeat("\u2500", 60)

		fmt.Fprintf(out, "ID:        %d\n", e.ID)
		fmt.Fprintf(out, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Provider:  %s\n", e.Provider)
		fmt.Fprintf(out, "Model:     %s\n", e.Model)
		fmt.Fprintf(out, "Purpose:   %s\n", e.Purpose)
		fmt.Fprintf(out, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Fprintf(out, "Latency:   %dms\n", e.LatencyMs)
		fmt.Fprintf(out, "Success:   %v\n", e.Success)
		if cost := llm.LookupCost(e.Model); cost != nil {
			fmt.Fprintf(out, "Cost:      %s\n", formatCost(cost.Cost(e.InputTokens, e.OutputTokens)))
		}
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:     %s\n", e.ErrorMessage)
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "REQUEST")
		fmt.Fprintln(out, sep)
		if e.RequestBody != "" {
			fmt.Fprintln(out, e.RequestBody)
		} else {
			fmt.Fprintln(out, "(not captured)")
		}

		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "RESPONSE")
		fmt.Fprintln(out, sep)
		if e.ResponseBody != "" {
			fmt.Fprintln(out, e.ResponseBody)
		} else {
			fmt.Fprintln(out, "(not captured)")
		}

		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		stats, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(stats) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		// Usage by purpose.
		fmt.Fprintln(out, "Usage by Purpose")
		fmt.Fprintln(out, strings.Repeat("\u2500", 72))
		fmt.Fprintf(out, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		fmt.Fprintln(out, strings.Repeat("\u2500", 72))

		var totalCalls, totalIn, totalOut int
		for _, st := range stats {
			total := st.InputTokens + st.OutputTokens
			fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
				st.Purpose, st.Calls, st.InputTokens, st.OutputTokens, total, st.AvgLatencyMs)
			totalCalls += st.Calls
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
		}

		fmt.Fprintln(out, strings.Repeat("\u2500", 72))
		fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d\n",
			"TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)

		// Cost by model.
		modelUsage, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		if len(modelUsage) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Estimated Cost (USD)")
			fmt.Fprintln(out, strings.Repeat("\u2500", 72))
			fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %10s\n",
				"Model", "Calls", "Input", "Output", "Cost")
			fmt.Fprintln(out, strings.Repeat("\u2500", 72))

			var totalCost float64
			var unknownModels []string
			for _, mu := range modelUsage {
				cost := llm.LookupCost(mu.Model)
				if cost == nil {
					unknownModels = append(unknownModels, mu.Model)
					fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %10s\n",
						truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, "?")
					continue
				}
				c := cost.Cost(mu.InputTokens, mu.OutputTokens)
				totalCost += c
				fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %9s\n",
					truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, formatCost(c))
			}

			fmt.Fprintln(out, strings.Repeat("\u2500", 72))
			label := "TOTAL"
			if len(unknownModels) > 0 {
				label = "TOTAL (partial)"
			}
			fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %9s\n",
				label, "", "", "", formatCost(totalCost))

			if len(unknownModels) > 0 {
				fmt.Fprintf(out, "\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
			}
		}

		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. question-gen)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
