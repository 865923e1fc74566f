package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple-choice quiz questions for a general audience.

Rules:
- Each question has exactly one correct option. The others are plausible but clearly wrong to someone who knows the topic.
- Use plain text. No Markdown, no LaTeX.
- Keep each question under 200 characters and each option short.
- Do not reveal the answer in the question text.
- Vary the position of the correct option.
- "correct" is the 0-based index of the correct option.
- Never repeat a question from the "already asked" list.`

// buildUserMessage renders the request for one batch.
func buildUserMessage(input Input, cfg Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", input.Topic)
	fmt.Fprintf(&b, "Number of questions: %d\n", input.Count)
	fmt.Fprintf(&b, "Options per question: %d\n", input.Options)
	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildDedup(input.Prior, cfg.MaxPrior))
	return b.String()
}

// buildDedup lists the most recent prior questions, or "None".
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}
	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
