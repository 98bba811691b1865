package visuals

import (
	"context"
	"time"

	"newsdesk-api/core/correlation"
	"newsdesk-api/core/domain"
	"newsdesk-api/core/sources"
)

// mockRequester is a mock implementation of the correlation.Requester interface
type mockRequester struct {
	sendFunc  func(ctx context.Context, prompt string) (domain.CorrelationToken, error)
	awaitFunc func(ctx context.Context, token domain.CorrelationToken, predicate correlation.Predicate, timeout time.Duration) (string, error)
	prompts   []string
	timeouts  []time.Duration
}

func (m *mockRequester) Send(ctx context.Context, prompt string) (domain.CorrelationToken, error) {
	m.prompts = append(m.prompts, prompt)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, prompt)
	}
	return "tok12345", nil
}

func (m *mockRequester) AwaitReply(ctx context.Context, token domain.CorrelationToken, predicate correlation.Predicate, timeout time.Duration) (string, error) {
	m.timeouts = append(m.timeouts, timeout)
	if m.awaitFunc != nil {
		return m.awaitFunc(ctx, token, predicate, timeout)
	}
	return "", nil
}

// mockGatherer is a mock implementation of the Gatherer interface
type mockGatherer struct {
	gatherFunc func(ctx context.Context, req sources.Request) sources.Result
	requests   []sources.Request
}

func (m *mockGatherer) Gather(ctx context.Context, req sources.Request) sources.Result {
	m.requests = append(m.requests, req)
	if m.gatherFunc != nil {
		return m.gatherFunc(ctx, req)
	}
	return sources.Result{Candidates: []domain.Candidate{}, Level: domain.LevelEmpty}
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

func replyWith(body string) func(ctx context.Context, token domain.CorrelationToken, predicate correlation.Predicate, timeout time.Duration) (string, error) {
	return func(ctx context.Context, token domain.CorrelationToken, predicate correlation.Predicate, timeout time.Duration) (string, error) {
		return body, nil
	}
}
