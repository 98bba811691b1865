package handlers

import (
	"context"
	"sync"
	"time"

	"newsdesk-api/core/correlation"
	"newsdesk-api/core/domain"
	"newsdesk-api/core/visuals"
)

type mockScripts struct {
	mu           sync.Mutex
	requests     []correlation.ScriptRequest
	generateFunc func(ctx context.Context, req correlation.ScriptRequest) (domain.Script, error)
}

func (m *mockScripts) Generate(ctx context.Context, req correlation.ScriptRequest) (domain.Script, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return domain.Script{Text: "script for " + req.Topic, Origin: domain.OriginChannel, Attempts: 1}, nil
}

type mockAgenda struct {
	items      []domain.AgendaItem
	updatedAt  time.Time
	refreshErr error
	refreshed  int
	selectFunc func(ctx context.Context, n int) (domain.AgendaItem, error)
}

func (m *mockAgenda) Select(ctx context.Context, n int) (domain.AgendaItem, error) {
	if m.selectFunc != nil {
		return m.selectFunc(ctx, n)
	}
	return m.items[n-1], nil
}

func (m *mockAgenda) Refresh(ctx context.Context) ([]domain.AgendaItem, error) {
	m.refreshed++
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	return m.items, nil
}

func (m *mockAgenda) Items() []domain.AgendaItem { return m.items }

func (m *mockAgenda) UpdatedAt() time.Time { return m.updatedAt }

type mockFinder struct {
	topic, script string
	result        visuals.Visuals
}

func (m *mockFinder) Find(ctx context.Context, topic, script string) visuals.Visuals {
	m.topic, m.script = topic, script
	return m.result
}

type mockPublisher struct {
	published []domain.InboundMessage
}

func (m *mockPublisher) Publish(msg domain.InboundMessage) int {
	m.published = append(m.published, msg)
	return 2
}

type mockOutbound struct {
	messages []domain.OutboundMessage
	after    uint64
}

func (m *mockOutbound) SentAfter(seq uint64) []domain.OutboundMessage {
	m.after = seq
	var out []domain.OutboundMessage
	for _, msg := range m.messages {
		if msg.Seq > seq {
			out = append(out, msg)
		}
	}
	return out
}

type mockExtractor struct{}

func (mockExtractor) Extract(text string) domain.KeywordSet {
	if text == "nothing" {
		return nil
	}
	return domain.NewKeywordSet("pakistan", "floods")
}

type mockLogger struct{}

func (mockLogger) Debug(string, map[string]interface{}) {}
func (mockLogger) Info(string, map[string]interface{})  {}
func (mockLogger) Warn(string, map[string]interface{})  {}
func (mockLogger) Error(string, map[string]interface{}) {}
