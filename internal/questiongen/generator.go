package questiongen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/quizcard/internal/llm"
	"github.com/abhisek/quizcard/internal/quiz"
)

// Generator produces quiz items for a topic.
type Generator interface {
	// Generate returns exactly input.Count validated items or an error.
	Generate(ctx context.Context, input Input) ([]quiz.Item, error)
}

// LLMGenerator implements Generator with an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &LLMGenerator{provider: provider, config: cfg}
}

type itemsOutput struct {
	Items []itemOutput `json:"items"`
}

type itemOutput struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// RejectedError reports a batch that could not be filled. Rejections holds
// the last validation failure of every dropped item.
type RejectedError struct {
	Wanted     int
	Got        int
	Rejections []*ValidationError
}

func (e *RejectedError) Error() string {
	msg := fmt.Sprintf("generated %d of %d questions", e.Got, e.Wanted)
	if n := len(e.Rejections); n > 0 {
		msg += fmt.Sprintf(" (%d rejected, last: %v)", n, e.Rejections[n-1])
	}
	return msg
}

// Generate asks the model for the missing items until Count pass every
// validator or MaxAttempts calls have been made. A non-retryable
// validation failure stops immediately.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) ([]quiz.Item, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}
	ctx = llm.WithPurpose(ctx, "question-gen")

	var (
		accepted   []quiz.Item
		rejections []*ValidationError
	)
	prior := append([]string(nil), input.Prior...)

	for attempt := 0; attempt < g.config.MaxAttempts && len(accepted) < input.Count; attempt++ {
		batch := input
		batch.Count = input.Count - len(accepted)
		batch.Prior = prior

		out, err := g.request(ctx, batch)
		if err != nil {
			return nil, err
		}

		for _, raw := range out.Items {
			if len(accepted) == input.Count {
				break
			}
			it := quiz.Item{
				Text:        strings.TrimSpace(raw.Text),
				Options:     trimAll(raw.Options),
				Correct:     raw.Correct,
				Explanation: strings.TrimSpace(raw.Explanation),
				Category:    input.Topic,
			}
			check := input
			check.Prior = prior
			if verr := g.validate(&it, check); verr != nil {
				if !verr.Retryable {
					return nil, verr
				}
				rejections = append(rejections, verr)
				continue
			}
			accepted = append(accepted, it)
			prior = append(prior, it.Text)
		}
	}

	if len(accepted) < input.Count {
		return nil, &RejectedError{Wanted: input.Count, Got: len(accepted), Rejections: rejections}
	}
	return accepted, nil
}

func (g *LLMGenerator) request(ctx context.Context, input Input) (*itemsOutput, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(buildUserMessage(input, g.config)),
		Schema:      ItemsSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}
	var out itemsOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return &out, nil
}

func (g *LLMGenerator) validate(it *quiz.Item, input Input) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(it, input); verr != nil {
			return verr
		}
	}
	return nil
}

func checkInput(input Input) error {
	var problems []string
	if strings.TrimSpace(input.Topic) == "" {
		problems = append(problems, "topic is empty")
	}
	if input.Count < 1 || input.Count > MaxCount {
		problems = append(problems, fmt.Sprintf("count must be between 1 and %d", MaxCount))
	}
	if input.Options < MinOptions || input.Options > MaxOptions {
		problems = append(problems, fmt.Sprintf("options must be between %d and %d", MinOptions, MaxOptions))
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// BuildBank wraps generated items in a v1 bank titled after the topic and
// runs the usual bank checks over it.
func BuildBank(topic string, items []quiz.Item) (*quiz.Bank, error) {
	slug := slugify(topic)
	numbered := make([]quiz.Item, len(items))
	for i, it := range items {
		it.ID = fmt.Sprintf("%s-%d", slug, i+1)
		numbered[i] = it
	}
	return quiz.Normalize(quiz.Bank{
		Version:     "v1.0.0",
		Title:       strings.TrimSpace(topic),
		Description: fmt.Sprintf("%d generated questions", len(items)),
		Items:       numbered,
	})
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "gen"
	}
	return out
}
