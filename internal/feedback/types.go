package feedback

import "fmt"

// Question is the immutable input for a single answer card.
type Question struct {
	// Text is the prompt shown above the options.
	Text string

	// Options are the candidate answers in display order. At least two.
	Options []string

	// CorrectIndex is the index into Options of the right answer.
	CorrectIndex int
}

// Selection is the learner's choice for one question. The zero value is
// unanswered. Once answered a Selection never goes back.
type Selection struct {
	answered bool
	index    int
}

// Unanswered returns the selection state before any option is picked.
func Unanswered() Selection {
	return Selection{}
}

// Answered returns the selection state after option i was picked.
func Answered(i int) Selection {
	return Selection{answered: true, index: i}
}

// Index returns the selected option index and true, or (-1, false) when
// nothing has been picked yet.
func (s Selection) Index() (int, bool) {
	if !s.answered {
		return -1, false
	}
	return s.index, true
}

// IsAnswered reports whether an option has been picked.
func (s Selection) IsAnswered() bool {
	return s.answered
}

func (s Selection) String() string {
	if !s.answered {
		return "unanswered"
	}
	return fmt.Sprintf("answered(%d)", s.index)
}

// VisualState classifies how a single option should be presented.
type VisualState int

const (
	Neutral            VisualState = iota // nothing picked yet
	CorrectHighlighted                    // the right answer, not picked
	SelectedCorrect                       // picked and right
	SelectedIncorrect                     // picked and wrong
	Dimmed                                // neither picked nor right
)

var visualStateNames = [...]string{
	Neutral:            "neutral",
	CorrectHighlighted: "correct_highlighted",
	SelectedCorrect:    "selected_correct",
	SelectedIncorrect:  "selected_incorrect",
	Dimmed:             "dimmed",
}

func (v VisualState) String() string {
	if v < 0 || int(v) >= len(visualStateNames) {
		return fmt.Sprintf("VisualState(%d)", int(v))
	}
	return visualStateNames[v]
}

// ParseVisualState is the inverse of VisualState.String.
func ParseVisualState(s string) (VisualState, error) {
	for i, name := range visualStateNames {
		if name == s {
			return VisualState(i), nil
		}
	}
	return Neutral, fmt.Errorf("unknown visual state %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (v VisualState) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *VisualState) UnmarshalText(b []byte) error {
	parsed, err := ParseVisualState(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Revealed reports whether the option carries the "right answer" mark.
func (v VisualState) Revealed() bool {
	return v == CorrectHighlighted || v == SelectedCorrect
}

// Marked reports whether the option carries the "wrong pick" mark.
func (v VisualState) Marked() bool {
	return v == SelectedIncorrect
}

// Verdict is the overall outcome for one question.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

var verdictNames = [...]string{
	VerdictNone:      "none",
	VerdictCorrect:   "correct",
	VerdictIncorrect: "incorrect",
}

func (v Verdict) String() string {
	if v < 0 || int(v) >= len(verdictNames) {
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
	return verdictNames[v]
}

// ParseVerdict is the inverse of Verdict.String.
func ParseVerdict(s string) (Verdict, error) {
	for i, name := range verdictNames {
		if name == s {
			return Verdict(i), nil
		}
	}
	return VerdictNone, fmt.Errorf("unknown verdict %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Verdict) UnmarshalText(b []byte) error {
	parsed, err := ParseVerdict(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Entry is the derived presentation of one option.
type Entry struct {
	Index       int         `json:"index"`
	Text        string      `json:"text"`
	VisualState VisualState `json:"visual_state"`
}

// ViewModel is everything a renderer needs to draw an answer card.
type ViewModel struct {
	Entries     []Entry `json:"entries"`
	Verdict     Verdict `json:"verdict"`
	Interactive bool    `json:"interactive"`
}

// Answered reports whether the view reflects a picked option.
func (vm ViewModel) Answered() bool {
	return !vm.Interactive
}

// Entry returns the entry for option i.
func (vm ViewModel) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(vm.Entries) {
		return Entry{}, false
	}
	return vm.Entries[i], true
}
