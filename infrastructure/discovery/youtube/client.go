// ABOUTME: YouTube Data API v3 backend: video search, existence lookup, and snippet inspection
// ABOUTME: One client serves as the video DiscoveryBackend, ExistenceChecker, and PageInspector

package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
	"newsdesk-api/infrastructure/discovery"
)

const (
	// Name identifies this backend on candidates and in logs
	Name = "youtube"

	defaultBaseURL    = "https://www.googleapis.com/youtube/v3"
	defaultMaxResults = 8
	publishedAfter    = "2023-01-01T00:00:00Z"
	apiName           = "YouTube Data API"
)

// Client talks to the YouTube Data API
type Client struct {
	deps       interfaces.Dependencies
	apiKey     string
	baseURL    string
	maxResults int
	cacheTTL   time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another API root, used by tests
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithCacheTTL sets how long search and video lookups are cached
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// NewClient creates a YouTube client
func NewClient(deps interfaces.Dependencies, apiKey string, opts ...Option) *Client {
	c := &Client{
		deps:       deps,
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		maxResults: defaultMaxResults,
		cacheTTL:   discovery.DefaultCacheTTL,
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
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet snippet `json:"snippet"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID      string  `json:"id"`
		Snippet snippet `json:"snippet"`
	} `json:"items"`
}

type snippet struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ChannelTitle string   `json:"channelTitle"`
	Tags         []string `json:"tags"`
}

// Search returns video candidates for query, ordered by relevance
func (c *Client) Search(ctx context.Context, query string) ([]domain.Candidate, error) {
	if c.apiKey == "" {
		return nil, errors.New("youtube API key not configured")
	}

	return discovery.Cached(ctx, c.deps.Cache, discovery.SearchKey(Name, query), c.cacheTTL, func(ctx context.Context) ([]domain.Candidate, error) {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("q", query)
		params.Set("type", "video")
		params.Set("maxResults", fmt.Sprint(c.maxResults))
		params.Set("order", "relevance")
		params.Set("publishedAfter", publishedAfter)
		params.Set("key", c.apiKey)

		resp, err := c.deps.HTTPClient.Get(ctx, c.baseURL+"/search?"+params.Encode())
		if err != nil {
			return nil, fmt.Errorf("youtube search failed: %w", err)
		}

		var out searchResponse
		if err := discovery.DecodeJSON(resp, apiName, &out); err != nil {
			return nil, err
		}

		candidates := make([]domain.Candidate, 0, len(out.Items))
		for i, item := range out.Items {
			if item.ID.VideoID == "" {
				continue
			}
			candidates = append(candidates, domain.Candidate{
				URL:           "https://www.youtube.com/watch?v=" + item.ID.VideoID,
				Type:          domain.CandidateVideo,
				Title:         item.Snippet.Title,
				Channel:       item.Snippet.ChannelTitle,
				Description:   item.Snippet.Description,
				SourceBackend: Name,
				Priority:      i + 1,
			})
		}
		return candidates, nil
	})
}

// lookup fetches the snippet for a video ID; a nil snippet means the video does not exist
func (c *Client) lookup(ctx context.Context, videoID string) (*snippet, error) {
	if c.apiKey == "" {
		return nil, errors.New("youtube API key not configured")
	}

	cacheKey := "video:" + videoID
	var cached snippet
	if c.deps.LoadCached(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", videoID)
	params.Set("key", c.apiKey)

	resp, err := c.deps.HTTPClient.Get(ctx, c.baseURL+"/videos?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("youtube video lookup failed: %w", err)
	}

	var out videosResponse
	if err := discovery.DecodeJSON(resp, apiName, &out); err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, nil
	}

	found := out.Items[0].Snippet
	c.deps.StoreCached(ctx, cacheKey, found, c.cacheTTL)
	return &found, nil
}

// Exists reports whether the video behind candidate is still available
func (c *Client) Exists(ctx context.Context, candidate domain.Candidate) (bool, error) {
	id := candidate.VideoID()
	if id == "" {
		return false, nil
	}
	found, err := c.lookup(ctx, id)
	if err != nil {
		return false, err
	}
	return found != nil, nil
}

// Inspect returns the video's title, description and tags
func (c *Client) Inspect(ctx context.Context, candidate domain.Candidate) (*interfaces.PageInspection, error) {
	id := candidate.VideoID()
	if id == "" {
		return nil, fmt.Errorf("not a youtube video URL: %s", candidate.URL)
	}
	found, err := c.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("youtube video %s not found", id)
	}
	return &interfaces.PageInspection{
		Title:       found.Title,
		Description: found.Description,
		Tags:        found.Tags,
		Domain:      "youtube.com",
	}, nil
}
