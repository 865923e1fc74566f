// Package llm is a small provider-neutral layer over hosted language models.
// Callers describe a prompt and an optional JSON Schema; providers use their
// native structured-output feature and the result is validated before it is
// returned.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured output from a prompt.
type Provider interface {
	// Generate sends req and returns the model's output. When req.Schema is
	// set, Content is JSON that has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model this provider sends requests to.
	ModelID() string
}

// Request is a single generation call.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks for JSON output conforming to it.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserMessage is shorthand for a single user turn.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema names a JSON Schema definition. Name doubles as the tool or schema
// name on providers that need one, so keep it kebab-case.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Stop reasons, normalised across providers.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is the model output.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string // model that actually served the request
	StopReason string
}

// Decode unmarshals Content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return &ErrInvalidResponse{Content: r.Content, Err: err}
	}
	return nil
}

// Usage is the token count for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// truncated reports a response cut off by MaxTokens. Schema-bound output is
// useless when truncated, so providers turn it into ErrMaxTokensExceeded.
func truncated(req Request, stop string, content json.RawMessage) error {
	if req.Schema != nil && stop == StopMaxTokens {
		return &ErrMaxTokensExceeded{Content: content}
	}
	return nil
}
