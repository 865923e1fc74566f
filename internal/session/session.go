// Package session runs a quiz over an ordered list of items. Each item moves
// one way from unanswered to answered; the feedback view for the current item
// is always derived from the stored selection.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizcard/internal/feedback"
	"github.com/abhisek/quizcard/internal/quiz"
)

var (
	// ErrAlreadyAnswered is returned when the current item already has a selection.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrNotAnswered is returned by Next before the current item is answered.
	ErrNotAnswered = errors.New("question not answered yet")

	// ErrFinished is returned by operations on a finished session.
	ErrFinished = errors.New("session finished")
)

// ReportError wraps a reporter failure. Session state has already changed
// when it is returned; callers treat it as a warning.
type ReportError struct {
	Op  string
	Err error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("report %s: %v", e.Op, e.Err)
}

func (e *ReportError) Unwrap() error { return e.Err }

// IsReportError reports whether err only signals a reporter failure.
func IsReportError(err error) bool {
	var re *ReportError
	return errors.As(err, &re)
}

// Session is a single run through a list of quiz items. It is not safe for
// concurrent use.
type Session struct {
	ID    string
	Title string
	Items []quiz.Item

	selections []feedback.Selection
	elapsed    []time.Duration
	current    int
	finished   bool

	startedAt time.Time
	shownAt   time.Time
	endedAt   time.Time

	reporter Reporter
	now      func() time.Time
}

// New creates a session over items. Every item must form a valid question.
// A nil reporter is replaced by NopReporter.
func New(title string, items []quiz.Item, reporter Reporter) (*Session, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("new session: no items")
	}
	for i, it := range items {
		if err := it.Question().Validate(); err != nil {
			return nil, fmt.Errorf("new session: item %d (%s): %w", i+1, it.ID, err)
		}
	}
	if reporter == nil {
		reporter = NopReporter{}
	}

	s := &Session{
		ID:         uuid.NewString(),
		Title:      title,
		Items:      append([]quiz.Item(nil), items...),
		selections: make([]feedback.Selection, len(items)),
		elapsed:    make([]time.Duration, len(items)),
		reporter:   reporter,
		now:        time.Now,
	}
	return s, nil
}

// FromBank creates a session over every item of b.
func FromBank(b *quiz.Bank, reporter Reporter) (*Session, error) {
	return New(b.Title, b.Items, reporter)
}

// Report delivers one session event to the reporter. It reads no session
// state, so it may run on another goroutine while play continues.
type Report func(ctx context.Context) error

// Start stamps the start time and reports it.
func (s *Session) Start(ctx context.Context) error {
	return s.Begin()(ctx)
}

// Begin stamps the start time and returns the start report without
// sending it.
func (s *Session) Begin() Report {
	s.startedAt = s.now()
	s.shownAt = s.startedAt
	info := StartInfo{
		SessionID: s.ID,
		Title:     s.Title,
		Total:     len(s.Items),
		StartedAt: s.startedAt,
	}
	rep := s.reporter
	return func(ctx context.Context) error {
		if err := rep.Started(ctx, info); err != nil {
			return &ReportError{Op: "start", Err: err}
		}
		return nil
	}
}

// Current returns the item on screen.
func (s *Session) Current() quiz.Item {
	return s.Items[s.current]
}

// CurrentIndex returns the 0-based position of the current item.
func (s *Session) CurrentIndex() int {
	return s.current
}

// Selection returns the selection state of the current item.
func (s *Session) Selection() feedback.Selection {
	return s.selections[s.current]
}

// Done reports whether the session has finished.
func (s *Session) Done() bool {
	return s.finished
}

// View derives the feedback view of the current item.
func (s *Session) View() (feedback.ViewModel, error) {
	return feedback.ComputeView(s.Current().Question(), s.selections[s.current])
}

// Select commits a choice for the current item and returns the answered
// view. A second selection is rejected and leaves state untouched.
func (s *Session) Select(ctx context.Context, option int) (feedback.ViewModel, error) {
	if s.finished {
		return feedback.ViewModel{}, ErrFinished
	}
	if s.selections[s.current].IsAnswered() {
		return feedback.ViewModel{}, ErrAlreadyAnswered
	}

	item := s.Current()
	sel := feedback.Answered(option)
	vm, err := feedback.ComputeView(item.Question(), sel)
	if err != nil {
		return feedback.ViewModel{}, err
	}

	s.selections[s.current] = sel
	took := s.now().Sub(s.shownAt)
	s.elapsed[s.current] = took

	err = s.reporter.Answered(ctx, AnswerRecord{
		SessionID: s.ID,
		Item:      item,
		Selected:  option,
		Correct:   vm.Verdict == feedback.VerdictCorrect,
		Elapsed:   took,
	})
	if err != nil {
		return vm, &ReportError{Op: "answer", Err: err}
	}
	return vm, nil
}

// Next moves to the following item. It returns false once the last item is
// passed, at which point the session is finished and reported.
func (s *Session) Next(ctx context.Context) (bool, error) {
	if s.finished {
		return false, ErrFinished
	}
	if !s.selections[s.current].IsAnswered() {
		return false, ErrNotAnswered
	}
	if s.current == len(s.Items)-1 {
		return false, s.Finish(ctx)
	}
	s.current++
	s.shownAt = s.now()
	return true, nil
}

// Finish ends the session early or after the last item. Calling it twice
// is a no-op.
func (s *Session) Finish(ctx context.Context) error {
	_, report := s.End()
	return report(ctx)
}

// End marks the session finished and returns its final summary with the
// finish report still unsent. On a session that already ended the report
// does nothing.
func (s *Session) End() (Summary, Report) {
	if s.finished {
		return s.Summary(), func(context.Context) error { return nil }
	}
	s.finished = true
	s.endedAt = s.now()
	sum := s.Summary()
	rep := s.reporter
	return sum, func(ctx context.Context) error {
		if err := rep.Finished(ctx, sum); err != nil {
			return &ReportError{Op: "finish", Err: err}
		}
		return nil
	}
}

// Progress is the position within a session.
type Progress struct {
	Current  int // 1-based
	Total    int
	Answered int
	Correct  int
}

func (p Progress) String() string {
	return fmt.Sprintf("Question %d of %d", p.Current, p.Total)
}

// Progress returns the current position and running score.
func (s *Session) Progress() Progress {
	p := Progress{Current: s.current + 1, Total: len(s.Items)}
	for i, sel := range s.selections {
		idx, ok := sel.Index()
		if !ok {
			continue
		}
		p.Answered++
		if idx == s.Items[i].Correct {
			p.Correct++
		}
	}
	return p
}
