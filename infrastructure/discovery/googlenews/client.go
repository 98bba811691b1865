// ABOUTME: Google News RSS backend returning article candidates for a query
// ABOUTME: Feeds are fetched through the shared HTTP client and parsed with gofeed

package googlenews

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newsdesk-api/core/domain"
	coreerrors "newsdesk-api/core/errors"
	"newsdesk-api/core/interfaces"
	"newsdesk-api/infrastructure/discovery"
	"newsdesk-api/pkg/utils/html"
)

const (
	// Name identifies this backend on candidates and in logs
	Name = "googlenews"

	defaultBaseURL = "https://news.google.com/rss/search"
	defaultRegion  = "PK"
	maxItems       = 10
	maxSnippet     = 300
)

// Client searches Google News through its RSS endpoint
type Client struct {
	deps     interfaces.Dependencies
	region   string
	baseURL  string
	cacheTTL time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another feed endpoint, used by tests
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithRegion sets the country edition, e.g. "PK" or "US"
func WithRegion(region string) Option {
	return func(c *Client) {
		if region != "" {
			c.region = strings.ToUpper(region)
		}
	}
}

// WithCacheTTL sets how long results are cached
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// NewClient creates a Google News client
func NewClient(deps interfaces.Dependencies, opts ...Option) *Client {
	c := &Client{
		deps:     deps,
		region:   defaultRegion,
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

func (c *Client) feedURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en-"+c.region)
	params.Set("gl", c.region)
	params.Set("ceid", c.region+":en")
	return c.baseURL + "?" + params.Encode()
}

// Search returns article candidates in feed order
func (c *Client) Search(ctx context.Context, query string) ([]domain.Candidate, error) {
	key := discovery.SearchKey(Name+":"+c.region, query)
	return discovery.Cached(ctx, c.deps.Cache, key, c.cacheTTL, func(ctx context.Context) ([]domain.Candidate, error) {
		resp, err := c.deps.HTTPClient.Get(ctx, c.feedURL(query))
		if err != nil {
			return nil, fmt.Errorf("google news fetch failed: %w", err)
		}
		body := resp.Body()
		defer body.Close()

		if resp.StatusCode() != 200 {
			return nil, &coreerrors.ExternalAPIError{StatusCode: resp.StatusCode(), Message: "rss fetch failed", API: "Google News"}
		}

		data, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("failed to read google news feed: %w", err)
		}

		feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse google news feed: %w", err)
		}

		candidates := make([]domain.Candidate, 0, maxItems)
		for _, item := range feed.Items {
			if len(candidates) == maxItems {
				break
			}
			link := strings.TrimSpace(item.Link)
			if link == "" {
				continue
			}
			title, publisher := SplitPublisher(item.Title)
			candidates = append(candidates, domain.Candidate{
				URL:           link,
				Type:          domain.CandidateArticle,
				Title:         title,
				Channel:       publisher,
				Snippet:       html.Truncate(html.StripHTML(item.Description), maxSnippet),
				SourceBackend: Name,
				Priority:      len(candidates) + 1,
			})
		}
		return candidates, nil
	})
}

// SplitPublisher separates Google News titles of the form "Headline - Publisher"
func SplitPublisher(title string) (string, string) {
	title = strings.TrimSpace(title)
	i := strings.LastIndex(title, " - ")
	if i <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
}
