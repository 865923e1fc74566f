package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizcard/internal/quiz"
)

// Validator checks one generated item.
type Validator interface {
	Name() string
	Validate(it *quiz.Item, input Input) *ValidationError
}

// ValidationError explains why an item was rejected.
type ValidationError struct {
	Validator string
	Message   string
	Retryable bool // regenerating is likely to fix it
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks text lengths.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(it *quiz.Item, _ Input) *ValidationError {
	switch {
	case strings.TrimSpace(it.Text) == "":
		return &ValidationError{Validator: v.Name(), Message: "text is empty", Retryable: true}
	case len(it.Text) > 300:
		return &ValidationError{Validator: v.Name(), Message: "text exceeds 300 characters", Retryable: true}
	case len(it.Explanation) > 600:
		return &ValidationError{Validator: v.Name(), Message: "explanation exceeds 600 characters", Retryable: true}
	}
	return nil
}

// OptionsValidator checks the option list and the correct index: the
// requested count, no blanks, no duplicates and an index in range.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(it *quiz.Item, input Input) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	if input.Options > 0 && len(it.Options) != input.Options {
		return fail("got %d options, want %d", len(it.Options), input.Options)
	}
	if len(it.Options) < MinOptions {
		return fail("need at least %d options", MinOptions)
	}
	if it.Correct < 0 || it.Correct >= len(it.Options) {
		return fail("correct index %d out of range [0,%d)", it.Correct, len(it.Options))
	}
	seen := make(map[string]bool, len(it.Options))
	for i, o := range it.Options {
		key := strings.ToLower(strings.TrimSpace(o))
		if key == "" {
			return fail("option %d is empty", i+1)
		}
		if seen[key] {
			return fail("option %q appears twice", o)
		}
		seen[key] = true
	}
	return nil
}

// DedupValidator rejects items whose text repeats a prior question,
// ignoring case and surrounding whitespace.
type DedupValidator struct{}

func (v *DedupValidator) Name() string { return "dedup" }

func (v *DedupValidator) Validate(it *quiz.Item, input Input) *ValidationError {
	text := normalizeText(it.Text)
	for _, p := range input.Prior {
		if normalizeText(p) == text {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("duplicate of prior question %q", p),
				Retryable: true,
			}
		}
	}
	return nil
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
