// Package summary shows the score and per-question results at the end of a
// quiz.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizcard/internal/router"
	"github.com/abhisek/quizcard/internal/screen"
	"github.com/abhisek/quizcard/internal/session"
	"github.com/abhisek/quizcard/internal/ui/components"
	"github.com/abhisek/quizcard/internal/ui/layout"
	"github.com/abhisek/quizcard/internal/ui/theme"
)

type SummaryScreen struct {
	summary session.Summary
	warning string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

func New(summary session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

// WithWarning shows msg under the score, for example when the result could
// not be saved.
func (s *SummaryScreen) WithWarning(msg string) *SummaryScreen {
	s.warning = msg
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, router.Pop
		}
	}
	return s, nil
}

// formatDuration renders secs as m:ss.
func formatDuration(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(style lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text))
	}

	var b strings.Builder

	headline := "Quiz complete!"
	if !sum.Completed {
		headline = "Quiz ended early"
	}
	b.WriteString(center(theme.Title, headline))
	b.WriteString("\n")
	b.WriteString(center(theme.Hint, sum.Title))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Answered: %d/%d      Correct: %d      Accuracy: %.0f%%      Time: %s",
		sum.Answered, sum.Total, sum.Correct, sum.Accuracy*100,
		formatDuration(int(sum.Duration.Seconds())))
	b.WriteString(center(theme.Body, stats))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Score", sum.Correct, sum.Total, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	if s.warning != "" {
		b.WriteString(center(theme.Warning, "warning: "+s.warning))
		b.WriteString("\n\n")
	}

	for i, r := range sum.Results {
		b.WriteString(center(lipgloss.NewStyle(), resultLine(i, r)))
		b.WriteString("\n")
	}
	return b.String()
}

func resultLine(i int, r session.ItemResult) string {
	switch {
	case !r.Answered:
		return theme.Dimmed.Render(fmt.Sprintf("  · %d. %s  (skipped, answer: %s)", i+1, r.Text, r.CorrectText))
	case r.Correct:
		return theme.Correct.Render(fmt.Sprintf("  ✓ %d. %s  %s", i+1, r.Text, r.SelectedText))
	default:
		return theme.Incorrect.Render(fmt.Sprintf("  ✗ %d. %s  %s (answer: %s)", i+1, r.Text, r.SelectedText, r.CorrectText))
	}
}
