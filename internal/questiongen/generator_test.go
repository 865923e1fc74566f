package questiongen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/quizcard/internal/llm"
	"github.com/abhisek/quizcard/internal/quiz"
)

func item(text string, options []string, correct int) map[string]any {
	return map[string]any{
		"text":        text,
		"options":     options,
		"correct":     correct,
		"explanation": "Because.",
	}
}

func batch(items ...map[string]any) llm.MockResponse {
	return llm.MockJSON(map[string]any{"items": items})
}

func TestGenerate_Batch(t *testing.T) {
	mock := llm.NewMockProvider(batch(
		item("  Capital of France?  ", []string{"Paris", "Rome", "Madrid"}, 0),
		item("Largest planet?", []string{"Mars", "Jupiter", "Venus"}, 1),
	))
	gen := New(mock, DefaultConfig())

	items, err := gen.Generate(context.Background(), Input{Topic: "Trivia", Count: 2, Options: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Text != "Capital of France?" {
		t.Errorf("text not trimmed: %q", items[0].Text)
	}
	if items[1].CorrectText() != "Jupiter" {
		t.Errorf("expected Jupiter, got %q", items[1].CorrectText())
	}
	if items[0].Category != "Trivia" {
		t.Errorf("expected category Trivia, got %q", items[0].Category)
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].Schema != ItemsSchema {
		t.Error("expected the items schema on the request")
	}
}

func TestGenerate_RefillsRejected(t *testing.T) {
	mock := llm.NewMockProvider(
		batch(
			item("Q1?", []string{"a", "b"}, 0),
			item("Q2?", []string{"a", "a"}, 0), // duplicate options
		),
		batch(item("Q3?", []string{"x", "y"}, 1)),
	)
	gen := New(mock, DefaultConfig())

	items, err := gen.Generate(context.Background(), Input{Topic: "t", Count: 2, Options: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Text != "Q1?" || items[1].Text != "Q3?" {
		t.Errorf("unexpected items: %q, %q", items[0].Text, items[1].Text)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
	second := mock.Calls[1].Messages[0].Content
	if !strings.Contains(second, "Number of questions: 1") {
		t.Errorf("second call should ask for the missing item:\n%s", second)
	}
	if !strings.Contains(second, "1. Q1?") {
		t.Errorf("second call should list accepted questions:\n%s", second)
	}
}

func TestGenerate_DedupWithinBatch(t *testing.T) {
	mock := llm.NewMockProvider(
		batch(
			item("Same?", []string{"a", "b"}, 0),
			item("same? ", []string{"c", "d"}, 1),
		),
		batch(item("Different?", []string{"a", "b"}, 0)),
	)
	gen := New(mock, DefaultConfig())

	items, err := gen.Generate(context.Background(), Input{Topic: "t", Count: 2, Options: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[1].Text != "Different?" {
		t.Errorf("expected the repeated question to be replaced, got %q", items[1].Text)
	}
}

func TestGenerate_GivesUp(t *testing.T) {
	bad := item("Q?", []string{"a"}, 0)
	mock := llm.NewMockProvider(batch(bad), batch(bad), batch(bad))
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), Input{Topic: "t", Count: 1, Options: 2})
	var rerr *RejectedError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rerr.Got != 0 || rerr.Wanted != 1 || len(rerr.Rejections) != 3 {
		t.Errorf("unexpected error contents: %+v", rerr)
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected 3 calls, got %d", mock.CallCount())
	}
}

type fatalValidator struct{}

func (fatalValidator) Name() string { return "fatal" }

func (fatalValidator) Validate(*quiz.Item, Input) *ValidationError {
	return &ValidationError{Validator: "fatal", Message: "nope"}
}

func TestGenerate_NonRetryableStops(t *testing.T) {
	mock := llm.NewMockProvider(batch(item("Q?", []string{"a", "b"}, 0)))
	cfg := DefaultConfig()
	cfg.Validators = []Validator{fatalValidator{}}
	gen := New(mock, cfg)

	_, err := gen.Generate(context.Background(), Input{Topic: "t", Count: 1, Options: 2})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Validator != "fatal" {
		t.Fatalf("expected the fatal validator error, got %v", err)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), Input{Topic: "t", Count: 1, Options: 2})
	if err == nil || !strings.Contains(err.Error(), "LLM generation failed") {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestGenerate_BadInput(t *testing.T) {
	gen := New(llm.NewMockProvider(), DefaultConfig())
	tests := []Input{
		{Topic: "", Count: 1, Options: 2},
		{Topic: "t", Count: 0, Options: 2},
		{Topic: "t", Count: MaxCount + 1, Options: 2},
		{Topic: "t", Count: 1, Options: 1},
		{Topic: "t", Count: 1, Options: MaxOptions + 1},
	}
	for _, in := range tests {
		if _, err := gen.Generate(context.Background(), in); err == nil {
			t.Errorf("expected error for %+v", in)
		}
	}
}

func TestBuildBank(t *testing.T) {
	mock := llm.NewMockProvider(batch(
		item("One?", []string{"a", "b"}, 0),
		item("Two?", []string{"c", "d"}, 1),
	))
	items, err := New(mock, DefaultConfig()).Generate(context.Background(), Input{Topic: "World Capitals!", Count: 2, Options: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bank, err := BuildBank("World Capitals!", items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bank.Version != "v1.0.0" || bank.Title != "World Capitals!" {
		t.Errorf("unexpected header: %s %q", bank.Version, bank.Title)
	}
	if bank.Items[0].ID != "world-capitals-1" || bank.Items[1].ID != "world-capitals-2" {
		t.Errorf("unexpected ids: %s, %s", bank.Items[0].ID, bank.Items[1].ID)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"World Capitals": "world-capitals",
		"  C++ & Go  ":   "c-go",
		"!!!":            "gen",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
