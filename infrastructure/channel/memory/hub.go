// ABOUTME: In-process broadcast hub implementing the MessageChannel interface
// ABOUTME: Inbound messages fan out to every subscriber; outbound sends are recorded and optionally forwarded

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
)

const (
	defaultBufferSize = 64
	maxSentHistory    = 256
)

// Forwarder receives every outbound message, e.g. to bridge the hub to a real transport
type Forwarder func(ctx context.Context, msg domain.OutboundMessage) error

// Hub is a shared channel held in memory. Every subscriber sees every published message.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan domain.InboundMessage
	sent        []domain.OutboundMessage
	seq         uint64
	bufferSize  int
	forward     Forwarder
	logger      interfaces.Logger
	now         func() time.Time
}

// Option configures a Hub
type Option func(*Hub)

// WithBufferSize sets the per-subscriber buffer
func WithBufferSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

// WithForwarder sets a function invoked for every outbound message
func WithForwarder(f Forwarder) Option {
	return func(h *Hub) {
		h.forward = f
	}
}

// NewHub creates an empty hub
func NewHub(logger interfaces.Logger, opts ...Option) *Hub {
	h := &Hub{
		subscribers: make(map[string]chan domain.InboundMessage),
		bufferSize:  defaultBufferSize,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Send records the outbound message and hands it to the forwarder when one is set
func (h *Hub) Send(ctx context.Context, recipient, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.Lock()
	h.seq++
	msg := domain.OutboundMessage{Seq: h.seq, Recipient: recipient, Text: text, SentAt: h.now()}
	h.sent = append(h.sent, msg)
	if len(h.sent) > maxSentHistory {
		h.sent = h.sent[len(h.sent)-maxSentHistory:]
	}
	h.mu.Unlock()

	if h.forward != nil {
		return h.forward(ctx, msg)
	}
	return nil
}

// Subscribe registers a listener. The returned function removes it; it is also
// removed when ctx is done.
func (h *Hub) Subscribe(ctx context.Context) (<-chan domain.InboundMessage, func()) {
	id := uuid.New().String()
	ch := make(chan domain.InboundMessage, h.bufferSize)

	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()

	var once sync.Once
	remove := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, id)
			close(ch)
			h.mu.Unlock()
		})
	}
	stop := context.AfterFunc(ctx, remove)

	return ch, func() {
		stop()
		remove()
	}
}

// Publish delivers an inbound message to every current subscriber and returns how
// many received it. Subscribers with a full buffer miss the message.
func (h *Hub) Publish(msg domain.InboundMessage) int {
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = h.now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for id, ch := range h.subscribers {
		select {
		case ch <- msg:
			delivered++
		default:
			if h.logger != nil {
				h.logger.Warn("Subscriber buffer full, message dropped", map[string]interface{}{
					"subscriber": id,
					"from":       msg.From,
				})
			}
		}
	}
	return delivered
}

// Sent returns a copy of the most recent outbound messages
func (h *Hub) Sent() []domain.OutboundMessage {
	return h.SentAfter(0)
}

// SentAfter returns the retained outbound messages whose Seq is greater than seq,
// oldest first. Pollers pass the last Seq they saw.
func (h *Hub) SentAfter(seq uint64) []domain.OutboundMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]domain.OutboundMessage, 0, len(h.sent))
	for _, msg := range h.sent {
		if msg.Seq > seq {
			out = append(out, msg)
		}
	}
	return out
}

// SubscriberCount reports the number of active listeners
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
