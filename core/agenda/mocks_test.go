package agenda

import (
	"context"
	"sync"

	"newsdesk-api/core/domain"
)

// mockSource is a mock implementation of the AgendaSource interface
type mockSource struct {
	name      string
	fetchFunc func(ctx context.Context) ([]domain.AgendaItem, error)
	mu        sync.Mutex
	calls     int
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) FetchAgenda(ctx context.Context) ([]domain.AgendaItem, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx)
	}
	return nil, nil
}

// mockSnapshot is a mock implementation of the AgendaSnapshotStore interface
type mockSnapshot struct {
	mu      sync.Mutex
	items   []domain.AgendaItem
	saveErr error
	loadErr error
	saves   int
	loads   int
}

func (m *mockSnapshot) Save(ctx context.Context, items []domain.AgendaItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items = append([]domain.AgendaItem(nil), items...)
	return nil
}

func (m *mockSnapshot) Load(ctx context.Context) ([]domain.AgendaItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]domain.AgendaItem(nil), m.items...), nil
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	m.warns = append(m.warns, msg)
	m.mu.Unlock()
}

func returning(items []domain.AgendaItem, err error) func(ctx context.Context) ([]domain.AgendaItem, error) {
	return func(ctx context.Context) ([]domain.AgendaItem, error) {
		return items, err
	}
}
