// ABOUTME: Correlator pairs outbound prompts with inbound replies on a shared messaging channel
// ABOUTME: Token mode accepts only replies echoing the request token; legacy mode uses sender and content heuristics

package correlation

import (
	"context"
	"strings"
	"sync"
	"time"

	"newsdesk-api/core/domain"
	coreerrors "newsdesk-api/core/errors"
	"newsdesk-api/core/interfaces"
)

// MatchMode selects how inbound messages are paired with a pending request
type MatchMode int

const (
	// MatchModeToken accepts a reply only when it carries the request's token
	MatchModeToken MatchMode = iota

	// MatchModeLegacy accepts a reply using the LegacyMatcher heuristics and ignores tokens
	MatchModeLegacy
)

// String returns the mode name used in logs and configuration
func (m MatchMode) String() string {
	if m == MatchModeLegacy {
		return "legacy"
	}
	return "token"
}

// Predicate is the caller's semantic check on a reply body
type Predicate func(body string) bool

// Correlator sends prompts over a MessageChannel and waits for the matching reply
type Correlator struct {
	channel   interfaces.MessageChannel
	recipient string
	logger    interfaces.Logger
	clock     Clock
	tokens    TokenSource
	mode      MatchMode
	legacy    *LegacyMatcher
}

// Option configures a Correlator
type Option func(*Correlator)

// WithClock replaces the wall clock, mainly for tests
func WithClock(clock Clock) Option {
	return func(c *Correlator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithTokenSource replaces the random token generator
func WithTokenSource(source TokenSource) Option {
	return func(c *Correlator) {
		if source != nil {
			c.tokens = source
		}
	}
}

// WithLegacyMatching switches the correlator to heuristic matching
func WithLegacyMatching(matcher *LegacyMatcher) Option {
	return func(c *Correlator) {
		if matcher == nil {
			matcher = NewLegacyMatcher(nil)
		}
		c.mode = MatchModeLegacy
		c.legacy = matcher
	}
}

// NewCorrelator creates a correlator that talks to recipient over channel
func NewCorrelator(channel interfaces.MessageChannel, recipient string, logger interfaces.Logger, opts ...Option) *Correlator {
	c := &Correlator{
		channel:   channel,
		recipient: recipient,
		logger:    logger,
		clock:     RealClock{},
		tokens:    RandomToken,
		mode:      MatchModeToken,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the active match mode
func (c *Correlator) Mode() MatchMode {
	return c.mode
}

// Clock returns the clock used for reply deadlines
func (c *Correlator) Clock() Clock {
	return c.clock
}

// Send delivers prompt to the recipient and returns the token identifying this request.
// In token mode the echo instruction is appended to the prompt.
func (c *Correlator) Send(ctx context.Context, prompt string) (domain.CorrelationToken, error) {
	token := c.tokens()
	text := prompt
	if c.mode == MatchModeToken {
		text = WithToken(prompt, token)
	}

	if err := c.channel.Send(ctx, c.recipient, text); err != nil {
		return "", coreerrors.WrapError(err, "send correlated request")
	}

	c.logger.Debug("Correlated request sent", map[string]interface{}{
		"token": string(token),
		"mode":  c.mode.String(),
	})
	return token, nil
}

// AwaitReply blocks until a reply matching token and predicate arrives, the timeout elapses,
// or ctx is done. The subscription is released exactly once on every path, before returning.
// The returned body has the token removed.
func (c *Correlator) AwaitReply(ctx context.Context, token domain.CorrelationToken, predicate Predicate, timeout time.Duration) (string, error) {
	if predicate == nil {
		predicate = func(string) bool { return true }
	}

	msgs, unsubscribe := c.channel.Subscribe(ctx)
	var once sync.Once
	release := func() { once.Do(unsubscribe) }
	defer release()

	deadline := c.clock.After(timeout)
	ignored := 0

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				// Stream closed; keep waiting for the deadline or cancellation.
				msgs = nil
				continue
			}
			if !c.matches(msg, token, predicate) {
				ignored++
				continue
			}
			release()
			c.logger.Debug("Correlated reply matched", map[string]interface{}{
				"token":   string(token),
				"from":    msg.From,
				"ignored": ignored,
			})
			return StripToken(msg.Body, token), nil

		case <-deadline:
			release()
			c.logger.Warn("Correlated reply timed out", map[string]interface{}{
				"token":   string(token),
				"timeout": timeout.String(),
				"ignored": ignored,
			})
			return "", coreerrors.ErrChannelTimeout

		case <-ctx.Done():
			release()
			return "", ctx.Err()
		}
	}
}

func (c *Correlator) matches(msg domain.InboundMessage, token domain.CorrelationToken, predicate Predicate) bool {
	switch c.mode {
	case MatchModeLegacy:
		return c.legacy.Matches(msg) && predicate(msg.Body)
	default:
		return ContainsToken(msg.Body, token) && predicate(msg.Body)
	}
}

// LongerThan returns a predicate accepting bodies with more than n characters
func LongerThan(n int) Predicate {
	return func(body string) bool {
		return len([]rune(strings.TrimSpace(body))) > n
	}
}

// ContainsURL is a predicate accepting bodies with at least one http(s) link
func ContainsURL(body string) bool {
	return strings.Contains(body, "http://") || strings.Contains(body, "https://")
}
