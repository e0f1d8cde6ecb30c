package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/workshop-ledger/internal/model"
)

// MockFetcher is a mock implementation of service.SheetFetcher for testing.
type MockFetcher struct {
	FetchFunc  func(ctx context.Context, source string) (model.RawTable, error)
	Tables     map[string]model.RawTable
	FetchCalls []string
	mu         sync.Mutex
}

// NewMockFetcher creates a mock fetcher serving the given tables by source.
func NewMockFetcher(tables map[string]model.RawTable) *MockFetcher {
	if tables == nil {
		tables = make(map[string]model.RawTable)
	}
	return &MockFetcher{Tables: tables}
}

// Fetch implements the service.SheetFetcher interface.
func (m *MockFetcher) Fetch(ctx context.Context, source string) (model.RawTable, error) {
	m.mu.Lock()
	m.FetchCalls = append(m.FetchCalls, source)
	fn := m.FetchFunc
	table, ok := m.Tables[source]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, source)
	}
	if !ok {
		return nil, &FetchError{StatusCode: 404, Snippet: "not found"}
	}
	return table, nil
}

// GetFetchCalls returns a copy of the sources fetched so far.
func (m *MockFetcher) GetFetchCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]string, len(m.FetchCalls))
	copy(calls, m.FetchCalls)
	return calls
}
