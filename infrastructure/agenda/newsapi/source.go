// ABOUTME: NewsAPI agenda source running one query per region in parallel
// ABOUTME: Each query carries the region and priority stamped on the headlines it returns

package newsapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"newsdesk-api/core/domain"
	coreerrors "newsdesk-api/core/errors"
	"newsdesk-api/core/interfaces"
	"newsdesk-api/infrastructure/discovery"
	utiltime "newsdesk-api/pkg/utils/time"
)

const (
	// Name identifies this source in logs
	Name = "newsapi"

	defaultBaseURL = "https://newsapi.org/v2"
	apiName        = "NewsAPI"
	removedTitle   = "[Removed]"
)

// Query is one regional NewsAPI request
type Query struct {
	Region   string
	Priority int

	// Country selects top headlines for a country; when empty, Terms is searched instead
	Country  string
	Terms    string
	PageSize int

	// FallbackTerms is searched when a country query returns nothing
	FallbackTerms string
}

// DefaultQueries covers Pakistan, the major powers, the Middle East and global news
var DefaultQueries = []Query{
	{Region: domain.RegionPakistan, Priority: 1, Country: "pk", PageSize: 10, FallbackTerms: "Pakistan"},
	{Region: domain.RegionPakistanBreaking, Priority: 1, Terms: "Pakistan breaking news", PageSize: 10},
	{Region: domain.RegionSuperPowers, Priority: 2, Terms: "China USA Russia breaking news", PageSize: 10},
	{Region: domain.RegionMiddleEast, Priority: 3, Terms: "Israel Palestine Gaza breaking news", PageSize: 10},
	{Region: domain.RegionGlobalBreaking, Priority: 4, Terms: "breaking news world", PageSize: 10},
	{Region: domain.RegionAsiaPacific, Priority: 5, Terms: "India Japan Asia breaking news", PageSize: 8},
}

// Source fetches agenda headlines from NewsAPI
type Source struct {
	deps    interfaces.Dependencies
	apiKey  string
	baseURL string
	queries []Query
	now     func() time.Time
}

// Option configures a Source
type Option func(*Source)

// WithBaseURL points the source at another API root, used by tests
func WithBaseURL(base string) Option {
	return func(s *Source) { s.baseURL = strings.TrimRight(base, "/") }
}

// WithQueries replaces the regional query set
func WithQueries(queries []Query) Option {
	return func(s *Source) {
		if len(queries) > 0 {
			s.queries = queries
		}
	}
}

// NewSource creates a NewsAPI agenda source
func NewSource(deps interfaces.Dependencies, apiKey string, opts ...Option) *Source {
	s := &Source{
		deps:    deps,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		queries: DefaultQueries,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source name
func (s *Source) Name() string { return Name }

type articlesResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// FetchAgenda runs every regional query. Individual query failures are logged and
// skipped; an error is returned only when no query succeeded.
func (s *Source) FetchAgenda(ctx context.Context) ([]domain.AgendaItem, error) {
	if s.apiKey == "" {
		return nil, &coreerrors.BackendUnavailableError{Backend: Name, Err: errors.New("api key not configured")}
	}

	results := make([][]domain.AgendaItem, len(s.queries))
	var mu sync.Mutex
	var failures []error

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range s.queries {
		i, q := i, q
		g.Go(func() error {
			items, err := s.run(gctx, q)
			if err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				if s.deps.Logger != nil {
					s.deps.Logger.Warn("NewsAPI query failed", map[string]interface{}{
						"region": q.Region,
						"error":  err.Error(),
					})
				}
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) == len(s.queries) {
		return nil, &coreerrors.BackendUnavailableError{Backend: Name, Err: errors.Join(failures...)}
	}

	var items []domain.AgendaItem
	for _, r := range results {
		items = append(items, r...)
	}
	return items, nil
}

func (s *Source) run(ctx context.Context, q Query) ([]domain.AgendaItem, error) {
	if q.Country != "" {
		items, err := s.request(ctx, q, "/top-headlines", url.Values{"country": {q.Country}})
		if err == nil && len(items) > 0 {
			return items, nil
		}
		if q.FallbackTerms == "" {
			return items, err
		}
		return s.request(ctx, q, "/everything", s.searchParams(q.FallbackTerms))
	}
	return s.request(ctx, q, "/everything", s.searchParams(q.Terms))
}

func (s *Source) searchParams(terms string) url.Values {
	return url.Values{
		"q":        {terms},
		"sortBy":   {"publishedAt"},
		"language": {"en"},
	}
}

func (s *Source) request(ctx context.Context, q Query, path string, params url.Values) ([]domain.AgendaItem, error) {
	params.Set("apiKey", s.apiKey)
	if q.PageSize > 0 {
		params.Set("pageSize", fmt.Sprint(q.PageSize))
	}

	resp, err := s.deps.HTTPClient.Get(ctx, s.baseURL+path+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var out articlesResponse
	if err := discovery.DecodeJSON(resp, apiName, &out); err != nil {
		return nil, err
	}
	if out.Status == "error" {
		return nil, &coreerrors.ExternalAPIError{StatusCode: 200, Message: out.Message, API: apiName}
	}

	now := s.now()
	items := make([]domain.AgendaItem, 0, len(out.Articles))
	for _, a := range out.Articles {
		title := strings.TrimSpace(a.Title)
		if title == "" || title == removedTitle || a.URL == "" {
			continue
		}
		source := a.Source.Name
		if source == "" {
			source = apiName
		}
		items = append(items, domain.AgendaItem{
			Title:       title,
			URL:         a.URL,
			Source:      source,
			Region:      q.Region,
			Priority:    q.Priority,
			PublishedAt: utiltime.ParseOr(a.PublishedAt, now),
		})
	}
	return items, nil
}
