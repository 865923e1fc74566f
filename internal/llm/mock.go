package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one queued reply of a MockProvider.
type MockResponse struct {
	Content    json.RawMessage
	Usage      Usage
	StopReason string
	Err        error
}

// MockJSON queues v marshalled as the response content.
func MockJSON(v any) MockResponse {
	raw, err := json.Marshal(v)
	if err != nil {
		return MockResponse{Err: err}
	}
	return MockResponse{Content: raw}
}

// MockProvider replays queued responses in order and records every request.
// When a request carries a schema the content is validated like a real
// provider would.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate pops the next response. An empty queue is ErrProviderUnavailable.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{}
	}

	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.Err != nil {
		return nil, next.Err
	}

	stop := next.StopReason
	if stop == "" {
		stop = StopEnd
	}
	if err := truncated(req, stop, next.Content); err != nil {
		return nil, err
	}
	if err := validateResponse(req.Schema, next.Content); err != nil {
		return nil, err
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      "mock",
		StopReason: stop,
	}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse queues another response.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount is the number of Generate calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
