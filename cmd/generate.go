package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizcard/internal/llm"
	"github.com/abhisek/quizcard/internal/questiongen"
	"github.com/abhisek/quizcard/internal/quiz"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a question bank with an LLM",
	Example: `  quizcard generate --topic "world capitals" --count 10 -o capitals.yaml
  QUIZCARD_LLM_PROVIDER=openai quizcard generate --topic "go generics"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		options, _ := cmd.Flags().GetInt("options")
		out, _ := cmd.Flags().GetString("output")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		gen := questiongen.New(provider, questiongen.DefaultConfig())
		fmt.Fprintf(os.Stderr, "Generating %d questions about %q with %s...\n", count, topic, provider.ModelID())
		items, err := gen.Generate(ctx, questiongen.Input{Topic: topic, Count: count, Options: options})
		if err != nil {
			var rej *questiongen.RejectedError
			if errors.As(err, &rej) {
				for _, r := range rej.Rejections {
					fmt.Fprintln(os.Stderr, "  rejected:", r)
				}
			}
			return err
		}

		bank, err := questiongen.BuildBank(topic, items)
		if err != nil {
			return err
		}
		return writeBank(cmd.OutOrStdout(), out, bank)
	},
}

// writeBank writes bank to path, or to w as YAML when path is empty.
func writeBank(w io.Writer, path string, bank *quiz.Bank) error {
	if path == "" {
		return quiz.Write(w, bank, quiz.FormatYAML)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := quiz.Write(f, bank, quiz.FormatFor(path)); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d questions to %s\n", len(bank.Items), path)
	return nil
}

func init() {
	generateCmd.Flags().StringP("topic", "t", "", "Quiz topic (required)")
	generateCmd.Flags().IntP("count", "n", 5, "Number of questions")
	generateCmd.Flags().Int("options", 4, "Options per question")
	generateCmd.Flags().StringP("output", "o", "", "Output file (.yaml or .json); stdout when empty")
	_ = generateCmd.MarkFlagRequired("topic")
}
