package correlation

import (
	"context"
	"sync"
	"time"

	"newsdesk-api/core/domain"
)

// fakeChannel is an in-memory MessageChannel that records sends and subscriptions
type fakeChannel struct {
	mu         sync.Mutex
	sent       []string
	subs       map[int]chan domain.InboundMessage
	nextID     int
	released   int
	subscribed chan struct{}
	sendFunc   func(text string) error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		subs:       make(map[int]chan domain.InboundMessage),
		subscribed: make(chan struct{}, 16),
	}
}

func (f *fakeChannel) Send(ctx context.Context, recipient, text string) error {
	if f.sendFunc != nil {
		if err := f.sendFunc(text); err != nil {
			return err
		}
	}
	f.mu.Lock()
	f.sent = append(f.sent, text)
	f.mu.Unlock()
	return nil
}

func (f *fakeChannel) Subscribe(ctx context.Context) (<-chan domain.InboundMessage, func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	ch := make(chan domain.InboundMessage, 512)
	f.subs[id] = ch
	f.mu.Unlock()

	f.subscribed <- struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.released++
			f.mu.Unlock()
		})
	}
}

// deliver broadcasts a message to every active subscriber
func (f *fakeChannel) deliver(msg domain.InboundMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// drained waits until every active subscriber has read its buffered messages
func (f *fakeChannel) drained() {
	for {
		f.mu.Lock()
		pending := 0
		for _, ch := range f.subs {
			pending += len(ch)
		}
		f.mu.Unlock()
		if pending == 0 {
			// Let the reader finish handling the last message it took.
			time.Sleep(5 * time.Millisecond)
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func (f *fakeChannel) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *fakeChannel) releasedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

func (f *fakeChannel) sentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// mockRequester is a mock implementation of the Requester interface
type mockRequester struct {
	mu        sync.Mutex
	sendFunc  func(ctx context.Context, prompt string) (domain.CorrelationToken, error)
	awaitFunc func(ctx context.Context, token domain.CorrelationToken, predicate Predicate, timeout time.Duration) (string, error)
	sends     int
	awaits    int
}

func (m *mockRequester) Send(ctx context.Context, prompt string) (domain.CorrelationToken, error) {
	m.mu.Lock()
	m.sends++
	n := m.sends
	m.mu.Unlock()
	if m.sendFunc != nil {
		return m.sendFunc(ctx, prompt)
	}
	return domain.CorrelationToken(string(rune('a'+n)) + "0000000"), nil
}

func (m *mockRequester) AwaitReply(ctx context.Context, token domain.CorrelationToken, predicate Predicate, timeout time.Duration) (string, error) {
	m.mu.Lock()
	m.awaits++
	m.mu.Unlock()
	if m.awaitFunc != nil {
		return m.awaitFunc(ctx, token, predicate, timeout)
	}
	return "", nil
}

// mockGenerator is a mock implementation of the ScriptGenerator interface
type mockGenerator struct {
	generateFunc func(ctx context.Context, prompt string) (string, error)
	prompts      []string
}

func (m *mockGenerator) GenerateScript(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateFunc != nil {
		return m.generateFunc(ctx, prompt)
	}
	return "direct script", nil
}

// mockJudge is a mock implementation of the RelevanceJudge interface
type mockJudge struct {
	isRelevantFunc func(ctx context.Context, topic, script string) (bool, error)
	calls          int
}

func (m *mockJudge) IsRelevant(ctx context.Context, topic, script string) (bool, error) {
	m.calls++
	if m.isRelevantFunc != nil {
		return m.isRelevantFunc(ctx, topic, script)
	}
	return true, nil
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

// sequenceTokens returns a TokenSource yielding tokens in order, repeating the last
func sequenceTokens(tokens ...string) TokenSource {
	var mu sync.Mutex
	i := 0
	return func() domain.CorrelationToken {
		mu.Lock()
		defer mu.Unlock()
		t := tokens[i]
		if i < len(tokens)-1 {
			i++
		}
		return domain.CorrelationToken(t)
	}
}

func longText(prefix string, n int) string {
	b := []byte(prefix)
	for len(b) < n {
		b = append(b, " lorem"...)
	}
	if len(prefix) < n {
		b = b[:n]
	}
	return string(b)
}
