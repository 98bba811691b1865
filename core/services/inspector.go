// ABOUTME: Page inspection service extracts title, description, and headings from article pages
// ABOUTME: Uses colly for meta tags and h1/h2 text; readability fills a missing title or description

package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/gocolly/colly"
	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
)

const (
	inspectorUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	maxHeadings        = 40
	maxExcerptRunes    = 500
)

// PageInspector fetches article pages and extracts the sections used for relevance scoring
type PageInspector struct {
	deps     interfaces.Dependencies
	timeout  time.Duration
	cacheTTL time.Duration
}

// NewPageInspector creates a new page inspector
func NewPageInspector(deps interfaces.Dependencies, timeout, cacheTTL time.Duration) *PageInspector {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PageInspector{
		deps:     deps,
		timeout:  timeout,
		cacheTTL: cacheTTL,
	}
}

// Inspect fetches the candidate's page and returns its title, description, and headings
func (s *PageInspector) Inspect(ctx context.Context, candidate domain.Candidate) (*interfaces.PageInspection, error) {
	targetURL := candidate.URL
	cacheKey := "inspect:" + targetURL

	var cached interfaces.PageInspection
	if s.deps.LoadCached(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.inspectURL(ctx, targetURL)
	if err != nil {
		return nil, err
	}

	s.deps.StoreCached(ctx, cacheKey, result, s.cacheTTL)

	return result, nil
}

func (s *PageInspector) inspectURL(ctx context.Context, targetURL string) (*interfaces.PageInspection, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid url %q", targetURL)
	}

	c := colly.NewCollector(
		colly.UserAgent(inspectorUserAgent),
		colly.MaxBodySize(5*1024*1024),
		colly.AllowURLRevisit(),
	)
	c.WithTransport(contextTransport{ctx: ctx, base: http.DefaultTransport})
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	result := &interfaces.PageInspection{Domain: parsed.Host}
	var readable readability.Article

	c.OnHTML("meta", func(e *colly.HTMLElement) {
		content := strings.TrimSpace(e.Attr("content"))
		if content == "" {
			return
		}
		switch {
		case e.Attr("property") == "og:title" && result.Title == "":
			result.Title = content
		case e.Attr("property") == "og:description" && result.Description == "":
			result.Description = content
		case strings.EqualFold(e.Attr("name"), "description") && result.Description == "":
			result.Description = content
		case strings.EqualFold(e.Attr("name"), "keywords"):
			for _, kw := range strings.Split(content, ",") {
				if kw = strings.TrimSpace(kw); kw != "" {
					result.Tags = append(result.Tags, kw)
				}
			}
		}
	})

	c.OnHTML("head", func(e *colly.HTMLElement) {
		if result.Title == "" {
			result.Title = strings.TrimSpace(e.DOM.Find("title").First().Text())
		}
	})

	c.OnResponse(func(r *colly.Response) {
		if !strings.Contains(strings.ToLower(r.Headers.Get("Content-Type")), "html") {
			return
		}
		article, err := readability.FromReader(bytes.NewReader(r.Body), parsed)
		if err != nil {
			s.deps.Logger.Debug("Readability extraction failed", map[string]interface{}{
				"url":   targetURL,
				"error": err.Error(),
			})
			return
		}
		readable = article
	})

	c.OnHTML("body", func(e *colly.HTMLElement) {
		e.DOM.Find("h1, h2").Each(func(_ int, sel *goquery.Selection) {
			if len(result.Headings) >= maxHeadings {
				return
			}
			if text := strings.Join(strings.Fields(sel.Text()), " "); text != "" {
				result.Headings = append(result.Headings, text)
			}
		})
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
		s.deps.Logger.Debug("Error visiting URL for inspection", map[string]interface{}{
			"url":    targetURL,
			"error":  err.Error(),
			"status": r.StatusCode,
		})
	})

	err = c.Visit(targetURL)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	if visitErr != nil {
		return nil, visitErr
	}

	// Only the lede stands in for a missing description; the full body text is not scored.
	if result.Title == "" {
		result.Title = collapse(readable.Title)
	}
	if result.Description == "" {
		result.Description = truncateRunes(collapse(readable.Excerpt), maxExcerptRunes)
	}

	return result, nil
}

// contextTransport ties every request of one visit to the caller's context
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
