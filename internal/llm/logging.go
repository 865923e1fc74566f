package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abhisek/quizcard/internal/store"
)

// LoggingProvider stores every request and its outcome as an LLM event.
type LoggingProvider struct {
	inner     Provider
	name      string
	eventRepo store.EventRepo
}

// WithLogging wraps p so each call is appended to repo under provider name.
func WithLogging(p Provider, name string, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, name: name, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.name,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: renderRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log LLM request event: %v\n", logErr)
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// renderRequest is the human-readable request shown by `quizcard llm view`.
func renderRequest(req Request) string {
	var b strings.Builder
	section := func(title, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", title, body)
	}

	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		section(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			section("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
