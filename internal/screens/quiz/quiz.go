// Package quiz is the screen that plays a session one answer card at a
// time.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizcard/internal/router"
	"github.com/abhisek/quizcard/internal/screen"
	"github.com/abhisek/quizcard/internal/screens/summary"
	"github.com/abhisek/quizcard/internal/session"
	"github.com/abhisek/quizcard/internal/ui/components"
	"github.com/abhisek/quizcard/internal/ui/layout"
	"github.com/abhisek/quizcard/internal/ui/theme"
)

// QuizScreen drives a session. Choices go through the session; the card
// only draws the resulting ViewModel.
type QuizScreen struct {
	sess        *session.Session
	card        components.AnswerCard
	confirmQuit bool
	warning     string
	errMsg      string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)

func New(sess *session.Session) *QuizScreen {
	s := &QuizScreen{sess: sess}
	s.loadCard()
	return s
}

// Init stamps the start on the update loop; only the report runs in the
// command.
func (s *QuizScreen) Init() tea.Cmd {
	report := s.sess.Begin()
	return func() tea.Msg {
		return startedMsg{Err: report(context.Background())}
	}
}

func (s *QuizScreen) Title() string {
	return s.sess.Title
}

func (s *QuizScreen) HandlesEscape() bool {
	return true
}

func (s *QuizScreen) Status() string {
	p := s.sess.Progress()
	return fmt.Sprintf("✓ %d/%d", p.Correct, p.Answered)
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case s.card.ViewModel().Interactive:
		return []layout.KeyHint{
			{Key: "↑↓/1-9", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Esc", Description: "Quit"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Quit"},
		}
	}
}

// loadCard builds the card for the current item.
func (s *QuizScreen) loadCard() {
	vm, err := s.sess.View()
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	p := s.sess.Progress()
	s.card = components.NewAnswerCard(s.sess.Current().Text, vm, p.Current, p.Total)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		s.warn(msg.Err)
		return s, nil

	case components.ChooseMsg:
		return s.choose(msg.Index)

	case finishedMsg:
		next := summary.New(msg.Summary)
		if msg.Err != nil {
			next.WithWarning(msg.Err.Error())
		}
		return s, router.Replace(next)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, router.Pop
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.finish()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	if !s.card.ViewModel().Interactive {
		switch key {
		case "enter", "space", "n", "right":
			return s.next()
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.card, cmd = s.card.Update(msg)
	return s, cmd
}

func (s *QuizScreen) choose(option int) (screen.Screen, tea.Cmd) {
	vm, err := s.sess.Select(context.Background(), option)
	switch {
	case err == nil:
	case session.IsReportError(err):
		s.warn(err)
	case errors.Is(err, session.ErrAlreadyAnswered):
		return s, nil
	default:
		s.errMsg = err.Error()
		return s, nil
	}
	s.card.SetView(vm)
	return s, nil
}

func (s *QuizScreen) next() (screen.Screen, tea.Cmd) {
	more, err := s.sess.Next(context.Background())
	if !more {
		sum := s.sess.Summary()
		return s, func() tea.Msg { return finishedMsg{Summary: sum, Err: reportOnly(err)} }
	}
	s.warn(err)
	s.loadCard()
	return s, nil
}

// finish ends the session early and moves to the summary. The session is
// closed here; the command only sends the report.
func (s *QuizScreen) finish() tea.Cmd {
	sum, report := s.sess.End()
	return func() tea.Msg {
		return finishedMsg{Summary: sum, Err: reportOnly(report(context.Background()))}
	}
}

func reportOnly(err error) error {
	if err != nil && session.IsReportError(err) {
		return err
	}
	return nil
}

// warn keeps reporter failures visible without interrupting play.
func (s *QuizScreen) warn(err error) {
	if err != nil {
		s.warning = err.Error()
	}
}

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s\n\nPress any key to go back.", s.errMsg))
	}
	if s.confirmQuit {
		return lipgloss.NewStyle().
			Width(width).Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.Text).
			Render("End this quiz now?\n\nUnanswered questions count as skipped.\n\n[Y] End   [N] Keep going")
	}

	var b strings.Builder
	cardWidth := min(width-4, 72)
	b.WriteString(theme.Card.Width(cardWidth).Render(s.card.View()))

	if item := s.sess.Current(); s.card.ViewModel().Answered() && item.Explanation != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Width(cardWidth).Render(item.Explanation))
	}
	if s.warning != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Warning.Render("warning: " + s.warning))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
