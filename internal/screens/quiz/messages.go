package quiz

import "github.com/abhisek/quizcard/internal/session"

// startedMsg reports the outcome of the session start hook.
type startedMsg struct {
	Err error
}

// finishedMsg carries the final summary once the session is closed.
type finishedMsg struct {
	Summary session.Summary
	Err     error
}
