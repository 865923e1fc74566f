package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizcard/internal/quiz"
	"github.com/abhisek/quizcard/internal/store"
	"github.com/abhisek/quizcard/internal/ui/theme"
)

const titleFull = ` ██████╗ ██╗   ██╗██╗███████╗ ██████╗ █████╗ ██████╗ ██████╗
██╔═══██╗██║   ██║██║╚══███╔╝██╔════╝██╔══██╗██╔══██╗██╔══██╗
██║   ██║██║   ██║██║  ███╔╝ ██║     ███████║██████╔╝██║  ██║
██║▄▄ ██║██║   ██║██║ ███╔╝  ██║     ██╔══██║██╔══██╗██║  ██║
╚██████╔╝╚██████╔╝██║███████╗╚██████╗██║  ██║██║  ██║██████╔╝
 ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝`

const titleCompact = "Q · U · I · Z · C · A · R · D"

// statsWindow is how many recent sessions feed the home stats.
const statsWindow = 50

// playStats summarises recent sessions.
type playStats struct {
	Played   int
	Answered int
	Correct  int
}

func summarize(recent []store.SessionSummaryRecord) playStats {
	var st playStats
	for _, r := range recent {
		st.Played++
		st.Answered += r.QuestionsServed
		st.Correct += r.CorrectAnswers
	}
	return st
}

// contentWidth is the shared width of every home section.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 64)
}

func renderTitle(cw int, compact bool) string {
	art := titleFull
	if compact || cw < lipgloss.Width(titleFull) {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Title.Render(art))
}

func renderStats(st playStats, cw int) string {
	text := theme.Hint.Render("No quizzes played yet")
	if st.Played > 0 {
		acc := 0.0
		if st.Answered > 0 {
			acc = float64(st.Correct) / float64(st.Answered) * 100
		}
		text = fmt.Sprintf("%s   %s",
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("%d PLAYED", st.Played)),
			lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(fmt.Sprintf("%.0f%% CORRECT", acc)))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

func bankDetail(b *quiz.Bank) string {
	if b == nil {
		return ""
	}
	return fmt.Sprintf("%s · %d questions", b.Title, len(b.Items))
}
