package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if s.EventRepo() == nil {
		t.Fatal("expected non-nil event repo")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table.Name,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table.Name, err)
		}
	}
}

func TestReopenKeepsEventsAndSequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EventRepo().AppendSessionEvent(ctx, SessionEventData{SessionID: "a", Action: ActionStart}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	sums, err := s.EventRepo().QuerySessionSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(sums) != 1 || sums[0].SessionID != "a" {
		t.Errorf("summaries after reopen = %+v", sums)
	}
	seq, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if seq != 2 {
		t.Errorf("sequence after reopen = %d, want 2", seq)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestSessionSummaries(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	mustAppend := func(d SessionEventData) {
		t.Helper()
		if err := repo.AppendSessionEvent(ctx, d); err != nil {
			t.Fatalf("append session event: %v", err)
		}
	}

	mustAppend(SessionEventData{SessionID: "a", Action: ActionStart, BankTitle: "General"})
	mustAppend(SessionEventData{SessionID: "a", Action: ActionEnd, BankTitle: "General", QuestionsServed: 3, CorrectAnswers: 2, DurationSecs: 40, Completed: true})
	mustAppend(SessionEventData{SessionID: "b", Action: ActionStart, BankTitle: "Dogs"})

	got, err := repo.QuerySessionSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("summaries = %d, want 2", len(got))
	}
	if got[0].SessionID != "b" || got[0].Ended || got[0].Completed {
		t.Errorf("newest = %+v, want unfinished session b", got[0])
	}
	if got[1].SessionID != "a" || !got[1].Ended || !got[1].Completed || got[1].CorrectAnswers != 2 || got[1].QuestionsServed != 3 {
		t.Errorf("oldest = %+v, want completed session a with 2/3", got[1])
	}

	limited, err := repo.QuerySessionSummaries(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited = %d, want 1", len(limited))
	}
}

func TestSessionSummaries_EndedEarly(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, d := range []SessionEventData{
		{SessionID: "q", Action: ActionStart, BankTitle: "General"},
		{SessionID: "q", Action: ActionEnd, BankTitle: "General", QuestionsServed: 1, CorrectAnswers: 1, DurationSecs: 5},
	} {
		if err := repo.AppendSessionEvent(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QuerySessionSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("summaries = %d, want 1", len(got))
	}
	if !got[0].Ended || got[0].Completed || got[0].QuestionsServed != 1 {
		t.Errorf("summary = %+v, want ended but not completed", got[0])
	}
}

func TestSessionSummaries_SequenceWindow(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: id, Action: ActionStart}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QuerySessionSummaries(ctx, QueryOpts{After: 1, Before: 3})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].SessionID != "b" {
		t.Errorf("window = %+v, want only session b", got)
	}
}

func TestAppendSessionEventRejectsUnknownAction(t *testing.T) {
	s := openTestStore(t)
	err := s.EventRepo().AppendSessionEvent(context.Background(), SessionEventData{SessionID: "x", Action: "pause"})
	if err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestAnswersAndAccuracy(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	answers := []AnswerEventData{
		{SessionID: "s1", ItemID: "arith", QuestionText: "2+2?", SelectedIndex: 1, CorrectIndex: 1, SelectedText: "4", CorrectText: "4", Correct: true, TimeMs: 1200},
		{SessionID: "s1", ItemID: "geo", QuestionText: "Capital of France?", SelectedIndex: 0, CorrectIndex: 2, SelectedText: "Lyon", CorrectText: "Paris", Correct: false, TimeMs: 3000},
		{SessionID: "s2", ItemID: "arith", QuestionText: "2+2?", SelectedIndex: 0, CorrectIndex: 1, SelectedText: "3", CorrectText: "4", Correct: false},
	}
	for _, a := range answers {
		if err := repo.AppendAnswerEvent(ctx, a); err != nil {
			t.Fatalf("append answer: %v", err)
		}
	}

	got, err := repo.QueryAnswers(ctx, "s1")
	if err != nil {
		t.Fatalf("query answers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("answers = %d, want 2", len(got))
	}
	if got[0].ItemID != "arith" || !got[0].Correct || got[0].TimeMs != 1200 {
		t.Errorf("first answer = %+v", got[0])
	}
	if got[1].Correct || got[1].CorrectText != "Paris" {
		t.Errorf("second answer = %+v", got[1])
	}
	if got[0].Sequence >= got[1].Sequence {
		t.Errorf("sequences not increasing: %d, %d", got[0].Sequence, got[1].Sequence)
	}

	acc, err := repo.ItemAccuracy(ctx, "arith")
	if err != nil {
		t.Fatalf("accuracy: %v", err)
	}
	if acc.Attempts != 2 || acc.Correct != 1 {
		t.Errorf("accuracy = %+v, want 1/2", acc)
	}
	if acc.Rate() != 0.5 {
		t.Errorf("rate = %v, want 0.5", acc.Rate())
	}

	none, err := repo.ItemAccuracy(ctx, "missing")
	if err != nil {
		t.Fatalf("accuracy missing: %v", err)
	}
	if none.Attempts != 0 || none.Rate() != 0 {
		t.Errorf("missing accuracy = %+v", none)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, model := range []string{"gpt-4o-mini", "gpt-4o-mini", "claude-haiku-4-5"} {
		failed := i == 2
		errMsg := ""
		if failed {
			errMsg = "boom"
		}
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "test",
			Model:        model,
			Purpose:      "question-gen",
			InputTokens:  100 * (i + 1),
			OutputTokens: 10,
			LatencyMs:    200,
			Success:      !failed,
			ErrorMessage: errMsg,
			RequestBody:  `{"topic":"dogs"}`,
		})
		if err != nil {
			t.Fatalf("append LLM event %d: %v", i, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	if events[0].Model != "claude-haiku-4-5" || events[0].Success {
		t.Errorf("newest event = %+v", events[0])
	}

	e, err := repo.GetLLMEvent(ctx, events[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil || e.RequestBody != `{"topic":"dogs"}` || e.InputTokens != 200 {
		t.Errorf("get = %+v", e)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("models = %d, want 2", len(byModel))
	}
	if byModel[1].Model != "gpt-4o-mini" || byModel[1].Calls != 2 || byModel[1].InputTokens != 300 {
		t.Errorf("gpt-4o-mini usage = %+v", byModel[1])
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 1 || byPurpose[0].Calls != 3 || byPurpose[0].AvgLatencyMs != 200 {
		t.Errorf("purpose usage = %+v", byPurpose)
	}
}

func TestQueryOptsTimeWindow(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "a", Action: ActionStart}); err != nil {
		t.Fatal(err)
	}

	future := time.Now().Add(time.Hour)
	got, err := repo.QuerySessionSummaries(ctx, QueryOpts{From: future})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("summaries from the future = %d, want 0", len(got))
	}

	got, err = repo.QuerySessionSummaries(ctx, QueryOpts{To: future})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("summaries up to now = %d, want 1", len(got))
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "a", Action: ActionStart}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "a", ItemID: "q1"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	sums, _ := repo.QuerySessionSummaries(ctx, QueryOpts{})
	answers, _ := repo.QueryAnswers(ctx, "a")
	if len(sums) != 0 || len(answers) != 0 {
		t.Errorf("after reset: %d sessions, %d answers", len(sums), len(answers))
	}

	// The sequence keeps counting across a reset.
	seq, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if seq != 3 {
		t.Errorf("sequence after reset = %d, want 3", seq)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("QUIZCARD_DB", filepath.Join(dir, "nested", "q.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if p != filepath.Join(dir, "nested", "q.db") {
		t.Errorf("path = %q", p)
	}
	if _, err := os.Stat(filepath.Join(dir, "nested")); err != nil {
		t.Errorf("parent dir not created: %v", err)
	}

	t.Setenv("QUIZCARD_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if p != filepath.Join(dir, "quizcard", "quizcard.db") {
		t.Errorf("xdg path = %q", p)
	}
}

func TestOpenFileDatabaseUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}
