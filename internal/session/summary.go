package session

import "time"

// ItemResult is the outcome for one item.
type ItemResult struct {
	ItemID       string
	Text         string
	Answered     bool
	Selected     int // -1 when unanswered
	CorrectIndex int
	SelectedText string
	CorrectText  string
	Correct      bool
	Elapsed      time.Duration
}

// Summary holds the data displayed at the end of a session.
type Summary struct {
	SessionID string
	Title     string
	Total     int
	Answered  int
	Correct   int
	Accuracy  float64 // Correct / Answered
	Duration  time.Duration
	Finished  bool // the session has ended, possibly early
	Completed bool // finished with every item answered
	Results   []ItemResult
}

// Summary builds the session summary. It may be called at any time; the
// duration runs until Finish.
func (s *Session) Summary() Summary {
	sum := Summary{
		SessionID: s.ID,
		Title:     s.Title,
		Total:     len(s.Items),
		Finished:  s.finished,
		Results:   make([]ItemResult, len(s.Items)),
	}

	for i, it := range s.Items {
		r := ItemResult{
			ItemID:       it.ID,
			Text:         it.Text,
			Selected:     -1,
			CorrectIndex: it.Correct,
			CorrectText:  it.CorrectText(),
			Elapsed:      s.elapsed[i],
		}
		if idx, ok := s.selections[i].Index(); ok {
			r.Answered = true
			r.Selected = idx
			r.SelectedText = it.Options[idx]
			r.Correct = idx == it.Correct
			sum.Answered++
			if r.Correct {
				sum.Correct++
			}
		}
		sum.Results[i] = r
	}

	sum.Completed = sum.Finished && sum.Answered == sum.Total
	if sum.Answered > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Answered)
	}

	switch {
	case s.startedAt.IsZero():
	case s.finished:
		sum.Duration = s.endedAt.Sub(s.startedAt)
	default:
		sum.Duration = s.now().Sub(s.startedAt)
	}
	return sum
}
