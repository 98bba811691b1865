package sources

import (
	"context"
	"sync"

	"newsdesk-api/core/domain"
)

// mockBackend is a mock implementation of the DiscoveryBackend interface
type mockBackend struct {
	name       string
	searchFunc func(ctx context.Context, query string) ([]domain.Candidate, error)

	mu      sync.Mutex
	queries []string
}

func (m *mockBackend) Name() string { return m.name }

func (m *mockBackend) Search(ctx context.Context, query string) ([]domain.Candidate, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query)
	}
	return nil, nil
}

func (m *mockBackend) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// mockValidator is a mock implementation of the CandidateValidator interface
type mockValidator struct {
	acceptFunc func(ctx context.Context, c domain.Candidate, k domain.KeywordSet) bool

	mu    sync.Mutex
	calls int
}

func (m *mockValidator) Accept(ctx context.Context, c domain.Candidate, k domain.KeywordSet) bool {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.acceptFunc != nil {
		return m.acceptFunc(ctx, c, k)
	}
	return false
}

// mockExtractor is a mock implementation of the KeywordExtractor interface
type mockExtractor struct {
	extractFunc func(text string) domain.KeywordSet
}

func (m *mockExtractor) Extract(text string) domain.KeywordSet {
	if m.extractFunc != nil {
		return m.extractFunc(text)
	}
	return nil
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct {
	mu    sync.Mutex
	warns []map[string]interface{}
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, fields)
}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

func articles(backend string, urls ...string) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(urls))
	for _, u := range urls {
		out = append(out, domain.Candidate{URL: u, Type: domain.TypeForURL(u), SourceBackend: backend})
	}
	return out
}

func static(candidates []domain.Candidate, err error) func(context.Context, string) ([]domain.Candidate, error) {
	return func(context.Context, string) ([]domain.Candidate, error) {
		return candidates, err
	}
}

func acceptAll(context.Context, domain.Candidate, domain.KeywordSet) bool { return true }
