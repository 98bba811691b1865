// ABOUTME: Google Custom Search backend returning recent news article candidates
// ABOUTME: Video and social hosts are filtered out so only articles come back

package googlecse

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
	"newsdesk-api/infrastructure/discovery"
)

const (
	// Name identifies this backend on candidates and in logs
	Name = "googlecse"

	defaultBaseURL = "https://www.googleapis.com/customsearch/v1"
	apiName        = "Google Custom Search"
	resultCount    = 10
)

var excludedHosts = regexp.MustCompile(`(?i)(youtube\.|youtu\.be|vimeo\.|dailymotion\.|facebook\.|fb\.watch|twitter\.|tiktok\.)`)

// Client queries the Custom Search JSON API
type Client struct {
	deps     interfaces.Dependencies
	apiKey   string
	engineID string
	baseURL  string
	cacheTTL time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another endpoint, used by tests
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithCacheTTL sets how long search results are cached
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// NewClient creates a Custom Search client for the given engine
func NewClient(deps interfaces.Dependencies, apiKey, engineID string, opts ...Option) *Client {
	c := &Client{
		deps:     deps,
		apiKey:   apiKey,
		engineID: engineID,
		baseURL:  defaultBaseURL,
		cacheTTL: discovery.DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the backend name
func (c *Client) Name() string { return Name }

type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search returns article candidates from the last month, newest first
func (c *Client) Search(ctx context.Context, query string) ([]domain.Candidate, error) {
	if c.apiKey == "" || c.engineID == "" {
		return nil, errors.New("google custom search credentials not configured")
	}

	return discovery.Cached(ctx, c.deps.Cache, discovery.SearchKey(Name, query), c.cacheTTL, func(ctx context.Context) ([]domain.Candidate, error) {
		params := url.Values{}
		params.Set("key", c.apiKey)
		params.Set("cx", c.engineID)
		params.Set("q", strings.TrimSpace(query)+" news")
		params.Set("num", fmt.Sprint(resultCount))
		params.Set("dateRestrict", "m1")
		params.Set("sort", "date")

		resp, err := c.deps.HTTPClient.Get(ctx, c.baseURL+"?"+params.Encode())
		if err != nil {
			return nil, fmt.Errorf("google custom search failed: %w", err)
		}

		var out searchResponse
		if err := discovery.DecodeJSON(resp, apiName, &out); err != nil {
			return nil, err
		}

		candidates := make([]domain.Candidate, 0, len(out.Items))
		for _, item := range out.Items {
			if item.Link == "" || excludedHosts.MatchString(item.Link) {
				continue
			}
			candidates = append(candidates, domain.Candidate{
				URL:           item.Link,
				Type:          domain.CandidateArticle,
				Title:         item.Title,
				Snippet:       item.Snippet,
				SourceBackend: Name,
				Priority:      len(candidates) + 1,
			})
		}
		return candidates, nil
	})
}
