// ABOUTME: Perplexity chat-completions backend that asks for links and parses them from the answer
// ABOUTME: Links are typed by host, so one call yields both video and article candidates

package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
	"newsdesk-api/infrastructure/discovery"
)

const (
	// Name identifies this backend on candidates and in logs
	Name = "perplexity"

	defaultEndpoint = "https://api.perplexity.ai/chat/completions"
	defaultModel    = "sonar"
	apiName         = "Perplexity"
	maxTokens       = 3000

	promptTemplate = `Find 15-20 working YouTube videos and news articles about: %s

Requirements:
- Only real links that are currently accessible
- Recent content
- 10-15 YouTube videos and 5-10 news articles
- One link per line

Format:
YouTube Videos:
1. [link]

News Articles:
1. [link]`
)

// Client calls the Perplexity chat-completions API
type Client struct {
	deps     interfaces.Dependencies
	apiKey   string
	model    string
	endpoint string
	cacheTTL time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithEndpoint overrides the API endpoint, used by tests
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithModel selects the completion model
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithCacheTTL sets how long answers are cached
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// NewClient creates a Perplexity client
func NewClient(deps interfaces.Dependencies, apiKey string, opts ...Option) *Client {
	c := &Client{
		deps:     deps,
		apiKey:   apiKey,
		model:    defaultModel,
		endpoint: defaultEndpoint,
		cacheTTL: discovery.DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the backend name
func (c *Client) Name() string { return Name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Search asks for links about query and returns every link found in the answer
func (c *Client) Search(ctx context.Context, query string) ([]domain.Candidate, error) {
	if c.apiKey == "" {
		return nil, errors.New("perplexity API key not configured")
	}

	return discovery.Cached(ctx, c.deps.Cache, discovery.SearchKey(Name, query), c.cacheTTL, func(ctx context.Context) ([]domain.Candidate, error) {
		payload, err := json.Marshal(chatRequest{
			Model:     c.model,
			Messages:  []chatMessage{{Role: "user", Content: fmt.Sprintf(promptTemplate, query)}},
			MaxTokens: maxTokens,
		})
		if err != nil {
			return nil, err
		}

		resp, err := c.deps.HTTPClient.Post(ctx, c.endpoint, bytes.NewReader(payload), map[string]string{
			"Authorization": "Bearer " + c.apiKey,
		})
		if err != nil {
			return nil, fmt.Errorf("perplexity request failed: %w", err)
		}

		var out chatResponse
		if err := discovery.DecodeJSON(resp, apiName, &out); err != nil {
			return nil, err
		}
		if len(out.Choices) == 0 {
			return nil, errors.New("perplexity returned no choices")
		}

		links := domain.ExtractLinks(out.Choices[0].Message.Content, Name)
		for i := range links {
			links[i].Priority = i + 1
		}
		return links, nil
	})
}
