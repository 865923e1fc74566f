package httpapi

import (
	"github.com/abhisek/quizcard/internal/feedback"
	"github.com/abhisek/quizcard/internal/session"
)

type itemSummary struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Category string   `json:"category,omitempty"`
}

// bankResponse never carries correct indexes.
type bankResponse struct {
	Title       string        `json:"title"`
	Version     string        `json:"version"`
	Description string        `json:"description,omitempty"`
	Items       []itemSummary `json:"items"`
}

type progressResponse struct {
	Current  int    `json:"current"`
	Total    int    `json:"total"`
	Answered int    `json:"answered"`
	Correct  int    `json:"correct"`
	Label    string `json:"label"`
}

type cardResponse struct {
	SessionID   string             `json:"session_id,omitempty"`
	ItemID      string             `json:"item_id"`
	Text        string             `json:"text"`
	View        feedback.ViewModel `json:"view"`
	Explanation string             `json:"explanation,omitempty"`
	Progress    *progressResponse  `json:"progress,omitempty"`
	Warning     string             `json:"warning,omitempty"`
}

type resultResponse struct {
	ItemID       string `json:"item_id"`
	Answered     bool   `json:"answered"`
	Selected     int    `json:"selected"`
	CorrectIndex int    `json:"correct_index"`
	Correct      bool   `json:"correct"`
	ElapsedMs    int64  `json:"elapsed_ms"`
}

type summaryResponse struct {
	SessionID    string           `json:"session_id"`
	Title        string           `json:"title"`
	Total        int              `json:"total"`
	Answered     int              `json:"answered"`
	Correct      int              `json:"correct"`
	Accuracy     float64          `json:"accuracy"`
	DurationSecs float64          `json:"duration_secs"`
	Results      []resultResponse `json:"results"`
}

type nextResponse struct {
	Done    bool             `json:"done"`
	Card    *cardResponse    `json:"card,omitempty"`
	Summary *summaryResponse `json:"summary,omitempty"`
	Warning string           `json:"warning,omitempty"`
}

type answerRequest struct {
	Selected *int `json:"selected"`
}

type createSessionRequest struct {
	Shuffle bool `json:"shuffle"`
}

func toProgress(p session.Progress) *progressResponse {
	return &progressResponse{
		Current:  p.Current,
		Total:    p.Total,
		Answered: p.Answered,
		Correct:  p.Correct,
		Label:    p.String(),
	}
}

func toSummary(sum session.Summary) *summaryResponse {
	out := &summaryResponse{
		SessionID:    sum.SessionID,
		Title:        sum.Title,
		Total:        sum.Total,
		Answered:     sum.Answered,
		Correct:      sum.Correct,
		Accuracy:     sum.Accuracy,
		DurationSecs: sum.Duration.Seconds(),
		Results:      make([]resultResponse, len(sum.Results)),
	}
	for i, r := range sum.Results {
		out.Results[i] = resultResponse{
			ItemID:       r.ItemID,
			Answered:     r.Answered,
			Selected:     r.Selected,
			CorrectIndex: r.CorrectIndex,
			Correct:      r.Correct,
			ElapsedMs:    r.Elapsed.Milliseconds(),
		}
	}
	return out
}
