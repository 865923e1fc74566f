package store

import (
	"context"
	"time"
)

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SessionEventData marks the start or end of a quiz session.
type SessionEventData struct {
	SessionID       string
	Action          string // ActionStart or ActionEnd
	BankTitle       string
	QuestionsServed int
	CorrectAnswers  int
	DurationSecs    int
	Completed       bool // end events only: every question was answered
}

// AnswerEventData records a single committed selection.
type AnswerEventData struct {
	SessionID     string
	ItemID        string
	QuestionText  string
	SelectedIndex int
	CorrectIndex  int
	SelectedText  string
	CorrectText   string
	Correct       bool
	TimeMs        int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// SessionSummaryRecord is a started session joined with its end event, if any.
// Ended is set once the end event exists; Completed only when that event
// recorded an answer for every question.
type SessionSummaryRecord struct {
	SessionID       string
	StartedAt       time.Time
	BankTitle       string
	Ended           bool
	Completed       bool
	QuestionsServed int
	CorrectAnswers  int
	DurationSecs    int
}

// AnswerRecord is a stored answer event.
type AnswerRecord struct {
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// Accuracy aggregates answers for one item.
type Accuracy struct {
	Attempts int
	Correct  int
}

// Rate returns Correct/Attempts, or 0 with no attempts.
func (a Accuracy) Rate() float64 {
	if a.Attempts == 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Attempts)
}

// LLMUsage aggregates LLM calls by purpose or by model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records a committed selection.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QuerySessionSummaries returns started sessions, newest first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)

	// QueryAnswers returns the answers of one session in the order given.
	QueryAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error)

	// ItemAccuracy aggregates every stored answer for an item.
	ItemAccuracy(ctx context.Context, itemID string) (Accuracy, error)

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single LLM request event by row id, or nil if
	// there is none.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// Reset deletes every stored event. The sequence keeps counting.
	Reset(ctx context.Context) error
}
