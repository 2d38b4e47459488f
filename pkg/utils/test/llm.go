package testutils

import (
	"context"

	"github.com/papergrid/askdocs/pkg/llm"
)

// MockClient is a scripted completion client. Each Complete call consumes the
// next entry of Responses; the last entry repeats once exhausted.
type MockClient struct {
	Responses []string

	// Err, when set, is returned from every Complete call
	Err error

	// Requests records every completion request in order
	Requests []llm.CompletionRequest
}

func NewMockClient(responses ...string) *MockClient {
	return &MockClient{Responses: responses}
}

func (m *MockClient) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	idx := len(m.Requests)
	m.Requests = append(m.Requests, req)

	if m.Err != nil {
		return "", m.Err
	}

	if len(m.Responses) == 0 {
		return "", nil
	}
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

func (m *MockClient) Close() error {
	return nil
}
