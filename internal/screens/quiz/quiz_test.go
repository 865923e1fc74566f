package quiz

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/quizcard/internal/quiz"
	"github.com/abhisek/quizcard/internal/router"
	"github.com/abhisek/quizcard/internal/screen"
	"github.com/abhisek/quizcard/internal/screens/summary"
	"github.com/abhisek/quizcard/internal/session"
	"github.com/abhisek/quizcard/internal/ui/components"
)

type failingReporter struct{ session.NopReporter }

func (failingReporter) Answered(context.Context, session.AnswerRecord) error {
	return errors.New("disk full")
}

func testItems() []quiz.Item {
	return []quiz.Item{
		{ID: "sum", Text: "2+2?", Options: []string{"3", "4", "5"}, Correct: 1, Explanation: "Two pairs make four."},
		{ID: "planet", Text: "Largest planet?", Options: []string{"Mars", "Jupiter"}, Correct: 1},
	}
}

func newScreen(t *testing.T, rep session.Reporter) *QuizScreen {
	t.Helper()
	sess, err := session.New("Test quiz", testItems(), rep)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	s := New(sess)
	s.Update(s.Init()())
	return s
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// press sends a key and feeds the message its command produces back into
// the screen, returning whatever command that yields.
func press(s *QuizScreen, msg tea.Msg) tea.Cmd {
	_, cmd := s.Update(msg)
	if cmd == nil {
		return nil
	}
	_, cmd = s.Update(cmd())
	return cmd
}

func view(s *QuizScreen) string {
	return ansi.Strip(s.View(100, 30))
}

func TestQuizScreen_AnswerAndAdvance(t *testing.T) {
	s := newScreen(t, nil)

	if !strings.Contains(view(s), "Question 1 of 2") {
		t.Fatalf("expected first card:\n%s", view(s))
	}

	press(s, keyPress('2'))
	out := view(s)
	if !strings.Contains(out, "Correct!") || !strings.Contains(out, "✓ 4") {
		t.Errorf("expected answered card:\n%s", out)
	}
	if !strings.Contains(out, "Two pairs make four.") {
		t.Errorf("expected explanation after answering:\n%s", out)
	}
	if s.Status() != "✓ 1/1" {
		t.Errorf("unexpected status %q", s.Status())
	}

	// Further choices are ignored once answered.
	press(s, keyPress('1'))
	if !strings.Contains(view(s), "Correct!") {
		t.Error("answer changed after a second key press")
	}

	press(s, specialKey(tea.KeyEnter))
	if !strings.Contains(view(s), "Question 2 of 2") {
		t.Fatalf("expected second card:\n%s", view(s))
	}
}

func TestQuizScreen_FinishesToSummary(t *testing.T) {
	s := newScreen(t, nil)

	press(s, keyPress('1'))
	press(s, specialKey(tea.KeyEnter))
	press(s, keyPress('2'))

	cmd := press(s, specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected navigation after the last question")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg")
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}
	if !s.sess.Done() {
		t.Error("session should be finished")
	}
	sum := s.sess.Summary()
	if sum.Correct != 1 || sum.Answered != 2 {
		t.Errorf("unexpected summary %+v", sum)
	}
}

func TestQuizScreen_QuitConfirm(t *testing.T) {
	s := newScreen(t, nil)

	press(s, specialKey(tea.KeyEscape))
	if !strings.Contains(view(s), "End this quiz now?") {
		t.Fatalf("expected confirm prompt:\n%s", view(s))
	}

	press(s, keyPress('n'))
	if strings.Contains(view(s), "End this quiz now?") {
		t.Fatal("prompt should close on n")
	}

	press(s, specialKey(tea.KeyEscape))
	cmd := press(s, keyPress('y'))
	if cmd == nil {
		t.Fatal("expected navigation after confirming")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg")
	}
	if !s.sess.Done() {
		t.Error("session should be finished")
	}
}

func TestQuizScreen_ReporterFailureIsWarning(t *testing.T) {
	s := newScreen(t, failingReporter{})

	press(s, keyPress('3'))
	out := view(s)
	if !strings.Contains(out, "Incorrect!") {
		t.Errorf("answer should still apply:\n%s", out)
	}
	if !strings.Contains(out, "warning:") || !strings.Contains(out, "disk full") {
		t.Errorf("expected warning:\n%s", out)
	}
}

// slowReporter records answer timings and holds start and finish reports
// until released.
type slowReporter struct {
	release chan struct{}

	mu      sync.Mutex
	elapsed []time.Duration
}

func (r *slowReporter) Started(context.Context, session.StartInfo) error {
	<-r.release
	return nil
}

func (r *slowReporter) Answered(_ context.Context, rec session.AnswerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.elapsed = append(r.elapsed, rec.Elapsed)
	return nil
}

func (r *slowReporter) Finished(context.Context, session.Summary) error {
	<-r.release
	return nil
}

func TestQuizScreen_AnswerWhileStartReportPending(t *testing.T) {
	rep := &slowReporter{release: make(chan struct{})}
	sess, err := session.New("Test quiz", testItems(), rep)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	s := New(sess)

	cmd := s.Init()
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	s.Update(components.ChooseMsg{Index: 1})
	close(rep.release)
	s.Update(<-done)

	if !strings.Contains(view(s), "Correct!") {
		t.Errorf("expected answered card:\n%s", view(s))
	}
	rep.mu.Lock()
	defer rep.mu.Unlock()
	if len(rep.elapsed) != 1 {
		t.Fatalf("answer reports = %d, want 1", len(rep.elapsed))
	}
	if took := rep.elapsed[0]; took < 0 || took > time.Minute {
		t.Errorf("answer time = %v, want it measured from the start", took)
	}
}

func TestQuizScreen_QuitClosesSessionBeforeReport(t *testing.T) {
	rep := &slowReporter{release: make(chan struct{})}
	close(rep.release)
	sess, err := session.New("Test quiz", testItems(), rep)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	s := New(sess)
	s.Update(s.Init()())
	press(s, keyPress('2'))

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected finish command")
	}
	if !sess.Done() {
		t.Fatal("session must be closed before the report command runs")
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	s.Update(components.ChooseMsg{Index: 0})
	_ = s.Status()

	msg, ok := (<-done).(finishedMsg)
	if !ok {
		t.Fatal("expected finishedMsg")
	}
	if !msg.Summary.Finished || msg.Summary.Completed || msg.Summary.Answered != 1 {
		t.Errorf("summary = %+v, want finished early with 1 answer", msg.Summary)
	}
}

func TestQuizScreen_Interfaces(t *testing.T) {
	var s screen.Screen = newScreen(t, nil)
	if h, ok := s.(screen.EscapeHandler); !ok || !h.HandlesEscape() {
		t.Error("quiz screen should handle Esc itself")
	}
	if len(s.(screen.KeyHintProvider).KeyHints()) == 0 {
		t.Error("expected key hints")
	}
}
