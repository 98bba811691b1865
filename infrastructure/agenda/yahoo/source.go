// ABOUTME: Yahoo Finance RSS agenda source used when NewsAPI is unavailable or thin
// ABOUTME: Reads a fixed set of regional feeds with gofeed and keeps the first few items of each

package yahoo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"newsdesk-api/core/domain"
	coreerrors "newsdesk-api/core/errors"
	"newsdesk-api/core/interfaces"
)

const (
	// Name identifies this source in logs
	Name = "yahoo"

	sourceLabel = "Yahoo News"
	feedBase    = "https://feeds.finance.yahoo.com/rss/2.0/headline"
)

// Feed is one RSS feed and the agenda slot its items fill
type Feed struct {
	URL      string
	Region   string
	Priority int
	Limit    int
}

// DefaultFeeds are the market and general headline feeds
var DefaultFeeds = []Feed{
	{URL: feedBase, Region: "Business", Priority: 2, Limit: 5},
	{URL: feedBase + "?s=^GSPC,^DJI,^IXIC", Region: "Markets", Priority: 2, Limit: 5},
	{URL: feedBase + "?s=^GSPC", Region: "US Markets", Priority: 2, Limit: 5},
	{URL: feedBase + "?s=^BSESN,^NSEI", Region: "India Markets", Priority: 1, Limit: 5},
	{URL: feedBase + "?s=^HSI,^GSPC", Region: "Asia Markets", Priority: 1, Limit: 5},
	{URL: feedBase + "?s=^GSPC", Region: domain.RegionGlobalBreaking, Priority: 4, Limit: 3},
	{URL: feedBase + "?s=^DJI", Region: domain.RegionGlobalBreaking, Priority: 4, Limit: 3},
}

// Source fetches agenda headlines from Yahoo RSS feeds
type Source struct {
	deps  interfaces.Dependencies
	feeds []Feed
	now   func() time.Time
}

// Option configures a Source
type Option func(*Source)

// WithFeeds replaces the feed list
func WithFeeds(feeds []Feed) Option {
	return func(s *Source) {
		if len(feeds) > 0 {
			s.feeds = feeds
		}
	}
}

// NewSource creates a Yahoo agenda source
func NewSource(deps interfaces.Dependencies, opts ...Option) *Source {
	s := &Source{deps: deps, feeds: DefaultFeeds, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source name
func (s *Source) Name() string { return Name }

// FetchAgenda reads every feed; failed feeds are skipped. Items are deduplicated by title
// across feeds, keeping the first seen. An error is returned when no feed produced items.
func (s *Source) FetchAgenda(ctx context.Context) ([]domain.AgendaItem, error) {
	results := make([][]domain.AgendaItem, len(s.feeds))
	var mu sync.Mutex
	var failures []error

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range s.feeds {
		i, f := i, f
		g.Go(func() error {
			items, err := s.read(gctx, f)
			if err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("%s: %w", f.Region, err))
				mu.Unlock()
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool)
	var items []domain.AgendaItem
	for _, r := range results {
		for _, item := range r {
			if seen[item.Title] {
				continue
			}
			seen[item.Title] = true
			items = append(items, item)
		}
	}

	if len(items) == 0 {
		err := errors.Join(failures...)
		if err == nil {
			err = errors.New("no items in any feed")
		}
		return nil, &coreerrors.BackendUnavailableError{Backend: Name, Err: err}
	}

	if len(failures) > 0 && s.deps.Logger != nil {
		s.deps.Logger.Warn("Some Yahoo feeds failed", map[string]interface{}{
			"failed": len(failures),
			"error":  errors.Join(failures...).Error(),
		})
	}
	return items, nil
}

func (s *Source) read(ctx context.Context, f Feed) ([]domain.AgendaItem, error) {
	resp, err := s.deps.HTTPClient.Get(ctx, f.URL)
	if err != nil {
		return nil, err
	}
	body := resp.Body()
	defer body.Close()

	if resp.StatusCode() != 200 {
		return nil, &coreerrors.ExternalAPIError{StatusCode: resp.StatusCode(), Message: "rss fetch failed", API: "Yahoo RSS"}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]domain.AgendaItem, 0, f.Limit)
	for _, it := range feed.Items {
		if f.Limit > 0 && len(items) == f.Limit {
			break
		}
		title := strings.TrimSpace(it.Title)
		link := strings.TrimSpace(it.Link)
		if title == "" || link == "" {
			continue
		}
		published := now
		if it.PublishedParsed != nil {
			published = it.PublishedParsed.UTC()
		}
		items = append(items, domain.AgendaItem{
			Title:       title,
			URL:         link,
			Source:      sourceLabel,
			Region:      f.Region,
			Priority:    f.Priority,
			PublishedAt: published,
		})
	}
	return items, nil
}
