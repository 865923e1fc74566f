// Package feedback derives the presentation state of a multiple-choice answer
// card from a question and the learner's selection.
//
// ComputeView is pure: it reads only its arguments, keeps no state between
// calls and is safe to call from any goroutine. Renderers map the resulting
// VisualState values to their own styling.
package feedback

// Validate checks the question invariants: at least two options and a
// correct index that points at one of them.
func (q Question) Validate() error {
	if len(q.Options) < 2 {
		return invalid("options", "need at least 2 options, got %d", len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return invalid("correct_index", "%d out of range [0,%d)", q.CorrectIndex, len(q.Options))
	}
	return nil
}

// ComputeView derives the answer card for q under sel.
//
// Before an answer every option is Neutral and the card stays interactive.
// After an answer the card is frozen: the picked option is SelectedCorrect or
// SelectedIncorrect, the right answer is always revealed as
// CorrectHighlighted when it was not the pick, and every other option is
// Dimmed.
func ComputeView(q Question, sel Selection) (ViewModel, error) {
	if err := q.Validate(); err != nil {
		return ViewModel{}, err
	}

	selected, answered := sel.Index()
	if answered && (selected < 0 || selected >= len(q.Options)) {
		return ViewModel{}, invalid("selected_index", "%d out of range [0,%d)", selected, len(q.Options))
	}

	entries := make([]Entry, len(q.Options))
	for i, text := range q.Options {
		entries[i] = Entry{
			Index:       i,
			Text:        text,
			VisualState: stateFor(i, q.CorrectIndex, selected, answered),
		}
	}

	vm := ViewModel{
		Entries:     entries,
		Verdict:     VerdictNone,
		Interactive: !answered,
	}
	if answered {
		if selected == q.CorrectIndex {
			vm.Verdict = VerdictCorrect
		} else {
			vm.Verdict = VerdictIncorrect
		}
	}
	return vm, nil
}

// stateFor depends only on its arguments, never on iteration order.
func stateFor(i, correct, selected int, answered bool) VisualState {
	switch {
	case !answered:
		return Neutral
	case i == selected && i == correct:
		return SelectedCorrect
	case i == selected:
		return SelectedIncorrect
	case i == correct:
		return CorrectHighlighted
	default:
		return Dimmed
	}
}
