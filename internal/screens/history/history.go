// Package history lists past quiz sessions from the event store.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizcard/internal/router"
	"github.com/abhisek/quizcard/internal/screen"
	"github.com/abhisek/quizcard/internal/store"
	"github.com/abhisek/quizcard/internal/ui/layout"
	"github.com/abhisek/quizcard/internal/ui/theme"
)

const pageSize = 50

type historyLoadedMsg struct {
	Sessions []store.SessionSummaryRecord
	Err      error
}

type answersLoadedMsg struct {
	SessionID string
	Answers   []store.AnswerRecord
	Err       error
}

// HistoryScreen shows recent sessions; Enter expands one to its answers.
type HistoryScreen struct {
	eventRepo store.EventRepo
	sessions  []store.SessionSummaryRecord
	answers   map[string][]store.AnswerRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		answers:   make(map[string][]store.AnswerRecord),
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		sessions, err := repo.QuerySessionSummaries(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) loadAnswers(sessionID string) tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		answers, err := repo.QueryAnswers(context.Background(), sessionID)
		return answersLoadedMsg{SessionID: sessionID, Answers: answers, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case answersLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.answers[msg.SessionID] = msg.Answers
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			if s.selected >= len(s.sessions) {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.sessions[s.selected].SessionID
			if _, ok := s.answers[id]; s.expanded[s.selected] && !ok {
				return s, s.loadAnswers(id)
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	centered := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}
	if s.errMsg != "" {
		return centered(lipgloss.NewStyle().Foreground(theme.Error), "\n\nError: "+s.errMsg)
	}
	if !s.loaded {
		return centered(theme.Hint, "\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return centered(theme.Hint, "\n\n  No quizzes played yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		style := theme.Neutral
		if i == s.selected {
			prefix = "> "
			style = theme.Cursor
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+sessionLine(sess))))
		b.WriteString("\n")

		if !s.expanded[i] {
			continue
		}
		answers, ok := s.answers[sess.SessionID]
		switch {
		case !ok:
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("    loading...")))
			b.WriteString("\n")
		case len(answers) == 0:
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("    No answers recorded")))
			b.WriteString("\n")
		default:
			for _, a := range answers {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, answerLine(a)))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func sessionLine(sess store.SessionSummaryRecord) string {
	status := fmt.Sprintf("%d/%d correct", sess.CorrectAnswers, sess.QuestionsServed)
	switch {
	case !sess.Ended:
		status = "not finished"
	case !sess.Completed:
		status += ", ended early"
	}
	return fmt.Sprintf("%s  %-24s  %s  %d:%02d",
		sess.StartedAt.Format("Jan 02 15:04"),
		truncate(sess.BankTitle, 24),
		status,
		sess.DurationSecs/60, sess.DurationSecs%60)
}

func answerLine(a store.AnswerRecord) string {
	if a.Correct {
		return theme.Correct.Render(fmt.Sprintf("    ✓ %s  %s", a.QuestionText, a.SelectedText))
	}
	return theme.Incorrect.Render(fmt.Sprintf("    ✗ %s  %s (answer: %s)", a.QuestionText, a.SelectedText, a.CorrectText))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
