package relevance

import (
	"context"
	"sync/atomic"

	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
)

// mockChecker is a mock implementation of the ExistenceChecker interface
type mockChecker struct {
	existsFunc func(ctx context.Context, c domain.Candidate) (bool, error)
	calls      int32
}

func (m *mockChecker) Exists(ctx context.Context, c domain.Candidate) (bool, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.existsFunc != nil {
		return m.existsFunc(ctx, c)
	}
	return true, nil
}

// mockInspector is a mock implementation of the PageInspector interface
type mockInspector struct {
	inspectFunc func(ctx context.Context, c domain.Candidate) (*interfaces.PageInspection, error)
	calls       int32
}

func (m *mockInspector) Inspect(ctx context.Context, c domain.Candidate) (*interfaces.PageInspection, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.inspectFunc != nil {
		return m.inspectFunc(ctx, c)
	}
	return &interfaces.PageInspection{}, nil
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}
