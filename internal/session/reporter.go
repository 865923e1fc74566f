package session

import (
	"context"
	"time"

	"github.com/abhisek/quizcard/internal/quiz"
	"github.com/abhisek/quizcard/internal/store"
)

// StartInfo describes a session that has just started.
type StartInfo struct {
	SessionID string
	Title     string
	Total     int
	StartedAt time.Time
}

// AnswerRecord describes one committed selection.
type AnswerRecord struct {
	SessionID string
	Item      quiz.Item
	Selected  int
	Correct   bool
	Elapsed   time.Duration
}

// Reporter observes session progress. Implementations must not retain the
// Summary's Results slice.
type Reporter interface {
	Started(ctx context.Context, info StartInfo) error
	Answered(ctx context.Context, rec AnswerRecord) error
	Finished(ctx context.Context, sum Summary) error
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Started(context.Context, StartInfo) error     { return nil }
func (NopReporter) Answered(context.Context, AnswerRecord) error { return nil }
func (NopReporter) Finished(context.Context, Summary) error      { return nil }

// EventReporter persists session progress as store events.
type EventReporter struct {
	repo store.EventRepo
}

// NewEventReporter returns a Reporter writing to repo.
func NewEventReporter(repo store.EventRepo) *EventReporter {
	return &EventReporter{repo: repo}
}

func (r *EventReporter) Started(ctx context.Context, info StartInfo) error {
	return r.repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: info.SessionID,
		Action:    store.ActionStart,
		BankTitle: info.Title,
	})
}

func (r *EventReporter) Answered(ctx context.Context, rec AnswerRecord) error {
	return r.repo.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID:     rec.SessionID,
		ItemID:        rec.Item.ID,
		QuestionText:  rec.Item.Text,
		SelectedIndex: rec.Selected,
		CorrectIndex:  rec.Item.Correct,
		SelectedText:  rec.Item.Options[rec.Selected],
		CorrectText:   rec.Item.CorrectText(),
		Correct:       rec.Correct,
		TimeMs:        int(rec.Elapsed.Milliseconds()),
	})
}

func (r *EventReporter) Finished(ctx context.Context, sum Summary) error {
	return r.repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:       sum.SessionID,
		Action:          store.ActionEnd,
		BankTitle:       sum.Title,
		QuestionsServed: sum.Answered,
		CorrectAnswers:  sum.Correct,
		DurationSecs:    int(sum.Duration.Seconds()),
		Completed:       sum.Completed,
	})
}
