// ABOUTME: Redis Pub/Sub implementation of the MessageChannel interface
// ABOUTME: Outbound requests publish JSON to one topic; inbound replies are read from another

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
)

const defaultBufferSize = 64

// OutboundMessage is the payload published on the outbound topic
type OutboundMessage struct {
	Recipient string    `json:"recipient"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sent_at"`
}

// Channel bridges the bot to the messaging gateway through Redis Pub/Sub
type Channel struct {
	client        *redis.Client
	outboundTopic string
	inboundTopic  string
	logger        interfaces.Logger
	bufferSize    int
	now           func() time.Time
}

// NewChannel creates a Pub/Sub channel on an existing Redis client
func NewChannel(client *redis.Client, outboundTopic, inboundTopic string, logger interfaces.Logger) (*Channel, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if outboundTopic == "" || inboundTopic == "" {
		return nil, errors.New("outbound and inbound topics are required")
	}
	return &Channel{
		client:        client,
		outboundTopic: outboundTopic,
		inboundTopic:  inboundTopic,
		logger:        logger,
		bufferSize:    defaultBufferSize,
		now:           time.Now,
	}, nil
}

// Send publishes an outbound message for the gateway to deliver
func (c *Channel) Send(ctx context.Context, recipient, text string) error {
	payload, err := json.Marshal(OutboundMessage{Recipient: recipient, Text: text, SentAt: c.now()})
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, c.outboundTopic, payload).Err()
}

// Subscribe listens on the inbound topic until the returned function is called or ctx is done.
// When the subscription cannot be established the returned stream is already closed.
func (c *Channel) Subscribe(ctx context.Context) (<-chan domain.InboundMessage, func()) {
	out := make(chan domain.InboundMessage, c.bufferSize)

	pubsub := c.client.Subscribe(ctx, c.inboundTopic)
	// Wait for the confirmation so messages published right after Subscribe returns are seen
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		close(out)
		c.warn("Inbound subscription failed", err)
		return out, func() {}
	}

	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		defer close(out)
		c.pump(pubsub.Channel(), out, done)
	}()

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(done)
			if err := pubsub.Close(); err != nil {
				c.warn("Closing inbound subscription failed", err)
			}
			<-exited
		})
	}
	stop := context.AfterFunc(ctx, release)

	return out, func() {
		stop()
		release()
	}
}

func (c *Channel) pump(in <-chan *redis.Message, out chan<- domain.InboundMessage, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case raw, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- c.decode(raw.Payload):
			case <-done:
				return
			}
		}
	}
}

// decode accepts the gateway's JSON envelope; anything else is treated as a bare message body
func (c *Channel) decode(payload string) domain.InboundMessage {
	var msg domain.InboundMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil || strings.TrimSpace(msg.Body) == "" {
		msg = domain.InboundMessage{Body: payload}
	}
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = c.now()
	}
	return msg
}

func (c *Channel) warn(msg string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(msg, map[string]interface{}{
		"topic": c.inboundTopic,
		"error": err.Error(),
	})
}
