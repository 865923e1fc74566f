// Package quiz holds question banks: the on-disk format, validation and the
// built-in bank shipped with the binary.
package quiz

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizcard/internal/feedback"
)

// SupportedMajor is the bank format major version this build reads.
const SupportedMajor = "v1"

// Bank is a titled, versioned list of multiple-choice items.
type Bank struct {
	Version     string `json:"version" yaml:"version"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Items       []Item `json:"items" yaml:"items"`
}

// Item is one multiple-choice question in a bank.
type Item struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Text        string   `json:"text" yaml:"text"`
	Options     []string `json:"options" yaml:"options"`
	Correct     int      `json:"correct" yaml:"correct"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
}

// Question converts the item to the answer card input.
func (it Item) Question() feedback.Question {
	return feedback.Question{
		Text:         it.Text,
		Options:      it.Options,
		CorrectIndex: it.Correct,
	}
}

// CorrectText returns the text of the right option, or "" if Correct is out
// of range.
func (it Item) CorrectText() string {
	if it.Correct < 0 || it.Correct >= len(it.Options) {
		return ""
	}
	return it.Options[it.Correct]
}

// Find returns the item with the given ID.
func (b *Bank) Find(id string) (Item, bool) {
	for _, it := range b.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// ValidationError lists every problem found in a bank.
type ValidationError struct {
	Path     string
	Problems []string
}

func (e *ValidationError) Error() string {
	src := e.Path
	if src == "" {
		src = "bank"
	}
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: %s", src, e.Problems[0])
	}
	return fmt.Sprintf("%s: %d problems:\n  - %s", src, len(e.Problems), strings.Join(e.Problems, "\n  - "))
}
