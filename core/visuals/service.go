// ABOUTME: Visuals service finds video and article links for a script
// ABOUTME: Asks the messaging channel first and falls back to the source aggregator

package visuals

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsdesk-api/core/correlation"
	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
	"newsdesk-api/core/sources"
)

const (
	// ChannelBackend names candidates parsed from a channel reply
	ChannelBackend = "channel"

	defaultMinChannelLinks = 5
	defaultReplyTimeout    = 60 * time.Second
	minScriptQueryLength   = 20
	linksPromptTemplate    = "Give me 10 YouTube links and 10 news articles about: %s"
)

// Origin records which path produced a set of visuals
type Origin string

const (
	OriginChannel   Origin = "channel"
	OriginDiscovery Origin = "discovery"
)

// Gatherer runs the discovery fallback ladder
type Gatherer interface {
	Gather(ctx context.Context, req sources.Request) sources.Result
}

// Visuals is the set of links found for one request
type Visuals struct {
	Candidates []domain.Candidate   `json:"candidates"`
	Origin     Origin               `json:"origin"`
	Level      domain.FallbackLevel `json:"-"`
	LevelName  string               `json:"level"`
}

// Service finds visuals for scripts
type Service struct {
	requester    correlation.Requester
	gatherer     Gatherer
	logger       interfaces.Logger
	clock        correlation.Clock
	replyTimeout time.Duration
	guardDelay   time.Duration
	minLinks     int
}

// Option configures a Service
type Option func(*Service)

// WithChannel enables asking the messaging channel for links before discovery
func WithChannel(requester correlation.Requester, replyTimeout, guardDelay time.Duration) Option {
	return func(s *Service) {
		s.requester = requester
		if replyTimeout > 0 {
			s.replyTimeout = replyTimeout
		}
		if guardDelay >= 0 {
			s.guardDelay = guardDelay
		}
	}
}

// WithClock replaces the clock used for the guard delay
func WithClock(clock correlation.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMinChannelLinks sets how many links a channel reply needs to be used directly
func WithMinChannelLinks(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minLinks = n
		}
	}
}

// NewService creates a visuals service backed by gatherer
func NewService(gatherer Gatherer, logger interfaces.Logger, opts ...Option) *Service {
	s := &Service{
		gatherer:     gatherer,
		logger:       logger,
		clock:        correlation.RealClock{},
		replyTimeout: defaultReplyTimeout,
		minLinks:     defaultMinChannelLinks,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Find returns visuals for topic. The script, when long enough, drives discovery
// and the topic is the alternate query.
func (s *Service) Find(ctx context.Context, topic, script string) Visuals {
	topic = strings.TrimSpace(topic)

	if s.requester != nil {
		links := s.fromChannel(ctx, topic)
		if len(links) >= s.minLinks {
			s.logger.Info("Visuals provided by channel", map[string]interface{}{
				"topic": topic,
				"count": len(links),
			})
			return Visuals{Candidates: links, Origin: OriginChannel, Level: domain.LevelStrictValidated, LevelName: ChannelBackend}
		}
		s.logger.Info("Channel returned too few visuals, using discovery", map[string]interface{}{
			"topic": topic,
			"count": len(links),
		})
	}

	result := s.gatherer.Gather(ctx, QueryFor(topic, script))
	return Visuals{
		Candidates: result.Candidates,
		Origin:     OriginDiscovery,
		Level:      result.Level,
		LevelName:  result.Level.String(),
	}
}

// QueryFor builds the aggregation request for a topic and its script
func QueryFor(topic, script string) sources.Request {
	script = strings.TrimSpace(script)
	text := topic
	if len([]rune(script)) > minScriptQueryLength {
		text = script
	}
	return sources.Request{Text: text, AlternateText: topic}
}

func (s *Service) fromChannel(ctx context.Context, topic string) []domain.Candidate {
	token, err := s.requester.Send(ctx, fmt.Sprintf(linksPromptTemplate, topic))
	if err != nil {
		s.logger.Warn("Visuals request send failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if err := s.clock.Sleep(ctx, s.guardDelay); err != nil {
		return nil
	}

	reply, err := s.requester.AwaitReply(ctx, token, correlation.ContainsURL, s.replyTimeout)
	if err != nil {
		s.logger.Warn("No visuals reply from channel", map[string]interface{}{
			"token": string(token),
			"error": err.Error(),
		})
		return nil
	}
	return domain.ExtractLinks(reply, ChannelBackend)
}
