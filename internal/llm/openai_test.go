package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	var body map[string]any
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"name":"Ada","age":36}`, "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:   "sys",
		Messages: UserMessage("hi"),
		Schema:   testSchema(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 65 || resp.StopReason != StopEnd || resp.Model != "gpt-4o-mini" {
		t.Fatalf("resp = %+v", resp)
	}

	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v, want system + user", body["messages"])
	}
	format, _ := body["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format = %v", body["response_format"])
	}
}

func TestOpenAIProvider_SchemaMismatch(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"name":"Ada"}`, "stop"))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserMessage("hi"), Schema: testSchema()})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"na`, "length"))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserMessage("hi"), Schema: testSchema()})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := chatCompletion("", "stop")
		resp["choices"] = []any{}
		json.NewEncoder(w).Encode(resp)
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserMessage("hi")})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "slow down", "type": "rate_limit_error"},
		})
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserMessage("hi")})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "anthropic/claude-3-haiku" {
		t.Errorf("model = %q", p.ModelID())
	}

	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "x"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
