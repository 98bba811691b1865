// ABOUTME: ScriptService obtains a news script through the messaging channel with bounded retries
// ABOUTME: Falls back to a direct generator once every correlated attempt has failed

package correlation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsdesk-api/core/domain"
	coreerrors "newsdesk-api/core/errors"
	"newsdesk-api/core/interfaces"
)

// UnavailableScriptText is returned as the script body when no path produced a script
const UnavailableScriptText = "Could not generate script"

const (
	defaultMaxAttempts    = 3
	defaultReplyTimeout   = 60 * time.Second
	defaultGuardDelay     = 500 * time.Millisecond
	defaultMinScriptLen   = 200
	topicMinScriptLen     = 50
	scriptPromptTemplate  = "Write a serious, analytical 5-10 minute Urdu news script for a Pakistani news channel anchor. Use a factual journalistic tone, give background and expert views, and avoid melodrama.\n\nTopic: %s"
	scriptPromptURLSuffix = "\nSource: %s"
)

// Requester is the correlated request/reply pair the service drives
type Requester interface {
	Send(ctx context.Context, prompt string) (domain.CorrelationToken, error)
	AwaitReply(ctx context.Context, token domain.CorrelationToken, predicate Predicate, timeout time.Duration) (string, error)
}

// ScriptRequest describes one logical script request
type ScriptRequest struct {
	// Topic is what the script is about, used for relevance judging
	Topic string

	// Prompt is sent over the channel; the echo instruction is added by the correlator
	Prompt string

	// DirectPrompt is given to the direct generator; empty means Prompt is used
	DirectPrompt string

	// MinLength is the length a reply must exceed; zero uses the service default
	MinLength int
}

// TopicRequest builds a request for a free-form topic typed by the operator
func TopicRequest(topic string) ScriptRequest {
	topic = strings.TrimSpace(topic)
	prompt := fmt.Sprintf(scriptPromptTemplate, topic)
	return ScriptRequest{
		Topic:        topic,
		Prompt:       prompt,
		DirectPrompt: prompt,
		MinLength:    topicMinScriptLen,
	}
}

// AgendaRequest builds a request for a selected agenda headline
func AgendaRequest(item domain.AgendaItem) ScriptRequest {
	prompt := fmt.Sprintf(scriptPromptTemplate, item.Title)
	if item.URL != "" {
		prompt += fmt.Sprintf(scriptPromptURLSuffix, item.URL)
	}
	return ScriptRequest{
		Topic:        item.Title,
		Prompt:       prompt,
		DirectPrompt: prompt,
	}
}

// ScriptService runs the attempt loop for script requests
type ScriptService struct {
	requester    Requester
	generator    interfaces.ScriptGenerator
	judge        interfaces.RelevanceJudge
	logger       interfaces.Logger
	clock        Clock
	maxAttempts  int
	replyTimeout time.Duration
	guardDelay   time.Duration
	minLength    int
}

// ScriptOption configures a ScriptService
type ScriptOption func(*ScriptService)

// WithMaxAttempts sets how many correlated attempts are made before falling back
func WithMaxAttempts(n int) ScriptOption {
	return func(s *ScriptService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithReplyTimeout sets the per-attempt reply deadline
func WithReplyTimeout(d time.Duration) ScriptOption {
	return func(s *ScriptService) {
		if d > 0 {
			s.replyTimeout = d
		}
	}
}

// WithGuardDelay sets the pause between sending and listening
func WithGuardDelay(d time.Duration) ScriptOption {
	return func(s *ScriptService) {
		if d >= 0 {
			s.guardDelay = d
		}
	}
}

// WithMinScriptLength sets the default reply length threshold
func WithMinScriptLength(n int) ScriptOption {
	return func(s *ScriptService) {
		if n > 0 {
			s.minLength = n
		}
	}
}

// WithRelevanceJudge adds a semantic check on channel replies
func WithRelevanceJudge(judge interfaces.RelevanceJudge) ScriptOption {
	return func(s *ScriptService) {
		s.judge = judge
	}
}

// WithScriptClock replaces the clock used for the guard delay
func WithScriptClock(clock Clock) ScriptOption {
	return func(s *ScriptService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewScriptService creates a script service. A nil requester disables the channel path
// and every request goes straight to the generator.
func NewScriptService(requester Requester, generator interfaces.ScriptGenerator, logger interfaces.Logger, opts ...ScriptOption) *ScriptService {
	s := &ScriptService{
		requester:    requester,
		generator:    generator,
		logger:       logger,
		clock:        RealClock{},
		maxAttempts:  defaultMaxAttempts,
		replyTimeout: defaultReplyTimeout,
		guardDelay:   defaultGuardDelay,
		minLength:    defaultMinScriptLen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces a script for req. A script from the direct generator is a normal
// outcome. An error is returned only when no path produced a script or ctx was cancelled;
// the returned Script then carries UnavailableScriptText.
func (s *ScriptService) Generate(ctx context.Context, req ScriptRequest) (domain.Script, error) {
	attempts := 0
	if s.requester != nil {
		text, n, err := s.viaChannel(ctx, req)
		attempts = n
		if err == nil {
			return domain.Script{Text: text, Origin: domain.OriginChannel, Attempts: attempts}, nil
		}
		if ctx.Err() != nil {
			return domain.Script{Text: UnavailableScriptText, Origin: domain.OriginUnavailable, Attempts: attempts}, ctx.Err()
		}
		s.logger.Warn("Channel script attempts exhausted, using direct generator", map[string]interface{}{
			"topic":    req.Topic,
			"attempts": attempts,
		})
	}

	text, err := s.direct(ctx, req)
	if err != nil {
		s.logger.Error("Direct script generation failed", map[string]interface{}{
			"topic": req.Topic,
			"error": err.Error(),
		})
		return domain.Script{Text: UnavailableScriptText, Origin: domain.OriginUnavailable, Attempts: attempts},
			fmt.Errorf("%w: direct generator: %v", coreerrors.ErrCorrelationExhausted, err)
	}
	return domain.Script{Text: text, Origin: domain.OriginDirect, Attempts: attempts}, nil
}

// viaChannel runs the bounded attempt loop. Each attempt gets a fresh token and
// a fresh reply window; attempts never overlap.
func (s *ScriptService) viaChannel(ctx context.Context, req ScriptRequest) (string, int, error) {
	minLength := req.MinLength
	if minLength <= 0 {
		minLength = s.minLength
	}
	predicate := LongerThan(minLength)

	attempt := 0
	for attempt < s.maxAttempts {
		attempt++
		fields := map[string]interface{}{"topic": req.Topic, "attempt": attempt}

		token, err := s.requester.Send(ctx, req.Prompt)
		if err != nil {
			if ctx.Err() != nil {
				return "", attempt, ctx.Err()
			}
			fields["error"] = err.Error()
			s.logger.Warn("Script request send failed", fields)
			continue
		}

		if err := s.clock.Sleep(ctx, s.guardDelay); err != nil {
			return "", attempt, err
		}

		reply, err := s.requester.AwaitReply(ctx, token, predicate, s.replyTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return "", attempt, ctx.Err()
			}
			if !errors.Is(err, coreerrors.ErrChannelTimeout) {
				fields["error"] = err.Error()
			}
			s.logger.Info("No script reply, retrying with a new token", fields)
			continue
		}

		if s.judge != nil {
			ok, err := s.judge.IsRelevant(ctx, req.Topic, reply)
			if err != nil {
				fields["error"] = err.Error()
				s.logger.Warn("Relevance judge failed, accepting reply", fields)
			} else if !ok {
				s.logger.Info("Script reply rejected as off-topic, retrying", fields)
				continue
			}
		}

		return reply, attempt, nil
	}

	return "", attempt, coreerrors.ErrCorrelationExhausted
}

func (s *ScriptService) direct(ctx context.Context, req ScriptRequest) (string, error) {
	if s.generator == nil {
		return "", errors.New("no direct generator configured")
	}
	prompt := req.DirectPrompt
	if prompt == "" {
		prompt = req.Prompt
	}
	text, err := s.generator.GenerateScript(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("direct generator returned an empty script")
	}
	return text, nil
}
