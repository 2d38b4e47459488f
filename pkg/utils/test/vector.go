package testutils

import (
	"context"
	"errors"

	"github.com/papergrid/askdocs/pkg/vector"
)

// MockVectorDriver is a test vector driver
type MockVectorDriver struct {
	Documents []vector.Document

	// Results are returned from Query, truncated to topK
	Results []vector.QueryResult

	// Err, when set, is returned from Query
	Err error

	// LastFilter and LastTopK record the most recent Query arguments
	LastFilter string
	LastTopK   int
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{}
}

func (m *MockVectorDriver) Add(_ context.Context, docs []vector.Document) error {
	m.Documents = append(m.Documents, docs...)
	return nil
}

func (m *MockVectorDriver) Query(_ context.Context, _ []float32, filter string, topK int) ([]vector.QueryResult, error) {
	m.LastFilter = filter
	m.LastTopK = topK

	if m.Err != nil {
		return nil, m.Err
	}

	// Reject malformed filters like a real driver would
	if _, err := vector.ParseFilter(filter); err != nil {
		return nil, err
	}

	if len(m.Results) < topK {
		return m.Results, nil
	}
	return m.Results[:topK], nil
}

func (m *MockVectorDriver) Delete(_ context.Context, ids []string) error {
	for _, id := range ids {
		for i, doc := range m.Documents {
			if doc.ID == id {
				m.Documents = append(m.Documents[:i], m.Documents[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (m *MockVectorDriver) Close() error {
	return nil
}

// ErrMockVector is a generic failure for tests that need Query to error.
var ErrMockVector = errors.New("mock vector store failure")
