package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func TestRetry_SucceedsFirstTime(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"ok":true}`)})
	p := WithRetry(mock, retryConfig())

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(down(), MockResponse{Content: json.RawMessage(`{"ok":true}`)})
	p := WithRetry(mock, retryConfig())

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("content = %s", resp.Content)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(down(), down(), down(), down())
	p := WithRetry(mock, retryConfig())

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected last error, got %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_MaxTokensNotRetried(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{}})
	p := WithRetry(mock, retryConfig())

	_, err := p.Generate(context.Background(), Request{})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	bad := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}}
	mock := NewMockProvider(bad, bad, MockResponse{Content: json.RawMessage(`{}`)})
	p := WithRetry(mock, retryConfig())

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ContextCancelledDuringBackoff(t *testing.T) {
	mock := NewMockProvider(down(), MockResponse{Content: json.RawMessage(`{}`)})
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_RateLimitUsesRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	p := WithRetry(mock, RetryConfig{MaxAttempts: 2, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1})

	done := make(chan error, 1)
	go func() {
		_, err := p.Generate(context.Background(), Request{})
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("RetryAfter was not honoured")
	}
}

func TestRetry_BackoffCapped(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: time.Second, MaxWait: 2 * time.Second, Multiplier: 10}}
	for attempt := 0; attempt < 4; attempt++ {
		if got := r.backoff(attempt, errors.New("x")); got > 2400*time.Millisecond {
			t.Errorf("backoff(%d) = %v, exceeds cap plus jitter", attempt, got)
		}
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig())
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

// stallingProvider blocks until its context ends on the first call and
// answers on later calls. It records the deadline of every call.
type stallingProvider struct {
	calls     int
	deadlines []time.Time
}

func (p *stallingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	p.calls++
	dl, _ := ctx.Deadline()
	p.deadlines = append(p.deadlines, dl)
	if p.calls == 1 {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &Response{Content: json.RawMessage(`{"ok":true}`)}, nil
}

func (p *stallingProvider) ModelID() string { return "stall" }

func TestRetry_AttemptTimeoutIsPerAttempt(t *testing.T) {
	inner := &stallingProvider{}
	cfg := retryConfig()
	cfg.AttemptTimeout = 50 * time.Millisecond
	p := WithRetry(inner, cfg)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("a stalled first attempt should be retried: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("content = %s", resp.Content)
	}
	if inner.calls != 2 {
		t.Fatalf("calls = %d, want 2", inner.calls)
	}
	if inner.deadlines[0].IsZero() || !inner.deadlines[1].After(inner.deadlines[0]) {
		t.Errorf("each attempt needs its own deadline, got %v", inner.deadlines)
	}
}

func TestRetry_CallerDeadlineNotRetried(t *testing.T) {
	inner := &stallingProvider{}
	cfg := retryConfig()
	cfg.AttemptTimeout = time.Minute
	p := WithRetry(inner, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want the caller's deadline", err)
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1", inner.calls)
	}
}
