package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"stockproxy/internal/fetcher"
)

// MockFetcher is a mock implementation of the QuoteFetcher interface for testing
type MockFetcher struct {
	FetchFunc func(ctx context.Context, code string) (json.RawMessage, error)

	mu    sync.Mutex
	calls []string
}

// Fetch implements the QuoteFetcher interface
func (m *MockFetcher) Fetch(ctx context.Context, code string) (json.RawMessage, error) {
	m.mu.Lock()
	m.calls = append(m.calls, code)
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, code)
	}
	return json.RawMessage(`{}`), nil
}

// Calls returns the codes Fetch was called with, in arrival order
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how many times Fetch was called
func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// NewMockFetcher creates a mock fetcher that answers from a fixed table.
// Codes missing from quotes get a 404 status error.
func NewMockFetcher(quotes map[string]string) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context, code string) (json.RawMessage, error) {
			q, ok := quotes[code]
			if !ok {
				return nil, fetcher.NewStatusError(code, 404)
			}
			return json.RawMessage(q), nil
		},
	}
}
