package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizcard/internal/ui/theme"
)

// ProgressBar is a horizontal bar with an optional label and count.
type ProgressBar struct {
	Label string
	Done  int
	Total int
	Width int
}

// NewProgressBar creates a bar for done of total.
func NewProgressBar(label string, done, total, width int) ProgressBar {
	return ProgressBar{Label: label, Done: done, Total: total, Width: width}
}

// Fraction returns Done/Total clamped to [0,1].
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Done)/float64(p.Total), 0), 1)
}

func (p ProgressBar) View() string {
	var head string
	if p.Label != "" {
		head = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	tail := fmt.Sprintf("  %d/%d", p.Done, p.Total)

	barWidth := max(p.Width-lipgloss.Width(head)-len(tail), 4)
	filled := int(float64(barWidth) * p.Fraction())

	return head +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)) +
		theme.Hint.Render(tail)
}
