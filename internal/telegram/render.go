package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/quizcard/internal/feedback"
	"github.com/abhisek/quizcard/internal/quiz"
	"github.com/abhisek/quizcard/internal/session"
)

const (
	answerPrefix = "a"
	nextPrefix   = "n"

	// shortLen is how much of a session ID goes into callback data. Telegram
	// caps callback data at 64 bytes.
	shortLen = 8

	nextLabel = "Next ▸"
)

var errBadCallback = errors.New("malformed callback data")

// Callback is decoded inline button data.
type Callback struct {
	Next    bool
	Session string
	Item    int // position within the session
	Option  int
}

func shortID(sessionID string) string {
	if len(sessionID) <= shortLen {
		return sessionID
	}
	return sessionID[:shortLen]
}

// AnswerData encodes an option button: a:<session>:<item>:<option>.
func AnswerData(sessionID string, item, option int) string {
	return fmt.Sprintf("%s:%s:%d:%d", answerPrefix, shortID(sessionID), item, option)
}

// NextData encodes the "Next" button: n:<session>:<item>.
func NextData(sessionID string, item int) string {
	return fmt.Sprintf("%s:%s:%d", nextPrefix, shortID(sessionID), item)
}

// ParseCallback decodes data produced by AnswerData or NextData.
func ParseCallback(data string) (Callback, error) {
	parts := strings.Split(data, ":")
	var cb Callback
	switch {
	case len(parts) == 4 && parts[0] == answerPrefix:
	case len(parts) == 3 && parts[0] == nextPrefix:
		cb.Next = true
	default:
		return Callback{}, fmt.Errorf("%w: %q", errBadCallback, data)
	}
	cb.Session = parts[1]
	if cb.Session == "" {
		return Callback{}, fmt.Errorf("%w: %q", errBadCallback, data)
	}

	var err error
	if cb.Item, err = strconv.Atoi(parts[2]); err != nil || cb.Item < 0 {
		return Callback{}, fmt.Errorf("%w: %q", errBadCallback, data)
	}
	if !cb.Next {
		// Range is checked by ComputeView; only the syntax is checked here.
		if cb.Option, err = strconv.Atoi(parts[3]); err != nil {
			return Callback{}, fmt.Errorf("%w: %q", errBadCallback, data)
		}
	}
	return cb, nil
}

// Marker is the per-option mark in an answered card.
func Marker(v feedback.VisualState) string {
	switch {
	case v.Revealed():
		return "✓"
	case v.Marked():
		return "✗"
	case v == feedback.Neutral:
		return " "
	default:
		return "·"
	}
}

// Card is a rendered message: text plus inline keyboard.
type Card struct {
	Text     string
	Keyboard tgbotapi.InlineKeyboardMarkup
}

// RenderCard draws the item at position pos of sessionID from vm. Unanswered
// cards carry one button per option; answered cards list the options with
// markers and carry only the Next button.
func RenderCard(sessionID string, pos int, it quiz.Item, vm feedback.ViewModel, progress string) Card {
	var b strings.Builder
	if progress != "" {
		b.WriteString(progress)
		b.WriteString("\n\n")
	}
	b.WriteString(it.Text)

	if !vm.Answered() {
		rows := make([][]tgbotapi.InlineKeyboardButton, len(vm.Entries))
		for i, e := range vm.Entries {
			label := fmt.Sprintf("%d) %s", i+1, e.Text)
			rows[i] = tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, AnswerData(sessionID, pos, e.Index)),
			)
		}
		return Card{Text: b.String(), Keyboard: tgbotapi.NewInlineKeyboardMarkup(rows...)}
	}

	b.WriteString("\n")
	for i, e := range vm.Entries {
		fmt.Fprintf(&b, "\n%s %d) %s", Marker(e.VisualState), i+1, e.Text)
	}
	b.WriteString("\n\n")
	b.WriteString(verdictLine(vm.Verdict))
	if it.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(it.Explanation)
	}

	next := tgbotapi.NewInlineKeyboardButtonData(nextLabel, NextData(sessionID, pos))
	return Card{
		Text:     b.String(),
		Keyboard: tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(next)),
	}
}

func verdictLine(v feedback.Verdict) string {
	switch v {
	case feedback.VerdictCorrect:
		return "Correct!"
	case feedback.VerdictIncorrect:
		return "Incorrect!"
	default:
		return ""
	}
}

// RenderSummary is the message sent when a quiz ends.
func RenderSummary(sum session.Summary) string {
	var b strings.Builder
	if sum.Completed {
		b.WriteString("Quiz complete!\n")
	} else {
		b.WriteString("Quiz ended early.\n")
	}
	fmt.Fprintf(&b, "%s: %d/%d correct (%.0f%%)\n", sum.Title, sum.Correct, sum.Total, sum.Accuracy*100)
	for i, r := range sum.Results {
		mark := "·"
		switch {
		case r.Correct:
			mark = "✓"
		case r.Answered:
			mark = "✗"
		}
		fmt.Fprintf(&b, "\n%s %d. %s", mark, i+1, r.Text)
	}
	b.WriteString("\n\nSend /quiz to play again.")
	return b.String()
}
