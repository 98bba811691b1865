// ABOUTME: Shared helpers for discovery backends: cache-first lookups and JSON API decoding
// ABOUTME: Cached entries keep candidate descriptions and tags that the public JSON form omits

package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"newsdesk-api/core/domain"
	coreerrors "newsdesk-api/core/errors"
	"newsdesk-api/core/interfaces"
)

// DefaultCacheTTL is how long backend search results are cached
const DefaultCacheTTL = 30 * time.Minute

// maxErrorBody bounds how much of a failed response is kept in the error
const maxErrorBody = 512

type cachedCandidate struct {
	URL           string   `json:"url"`
	Type          string   `json:"type"`
	Title         string   `json:"title,omitempty"`
	Channel       string   `json:"channel,omitempty"`
	Snippet       string   `json:"snippet,omitempty"`
	Description   string   `json:"description,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	SourceBackend string   `json:"sourceBackend"`
	Priority      int      `json:"priority,omitempty"`
}

// SearchKey builds the cache key for a backend query
func SearchKey(backend, query string) string {
	return fmt.Sprintf("search:%s:%s", backend, strings.ToLower(strings.TrimSpace(query)))
}

// Cached returns the cached candidates for key, or runs search and caches a non-empty result
func Cached(ctx context.Context, cache interfaces.Cache, key string, ttl time.Duration, search func(ctx context.Context) ([]domain.Candidate, error)) ([]domain.Candidate, error) {
	if cache != nil {
		if data, err := cache.Get(ctx, key); err == nil && data != nil {
			if candidates, err := decodeCandidates(data); err == nil {
				return candidates, nil
			}
		}
	}

	candidates, err := search(ctx)
	if err != nil {
		return nil, err
	}

	if cache != nil && len(candidates) > 0 {
		if data, err := encodeCandidates(candidates); err == nil {
			_ = cache.Set(ctx, key, data, ttl)
		}
	}
	return candidates, nil
}

func encodeCandidates(candidates []domain.Candidate) ([]byte, error) {
	records := make([]cachedCandidate, len(candidates))
	for i, c := range candidates {
		records[i] = cachedCandidate{
			URL:           c.URL,
			Type:          string(c.Type),
			Title:         c.Title,
			Channel:       c.Channel,
			Snippet:       c.Snippet,
			Description:   c.Description,
			Tags:          c.Tags,
			SourceBackend: c.SourceBackend,
			Priority:      c.Priority,
		}
	}
	return json.Marshal(records)
}

func decodeCandidates(data []byte) ([]domain.Candidate, error) {
	var records []cachedCandidate
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	candidates := make([]domain.Candidate, len(records))
	for i, r := range records {
		candidates[i] = domain.Candidate{
			URL:           r.URL,
			Type:          domain.CandidateType(r.Type),
			Title:         r.Title,
			Channel:       r.Channel,
			Snippet:       r.Snippet,
			Description:   r.Description,
			Tags:          r.Tags,
			SourceBackend: r.SourceBackend,
			Priority:      r.Priority,
		}
	}
	return candidates, nil
}

// DecodeJSON reads a JSON API response into v. Non-200 responses become an ExternalAPIError.
// The response body is always closed.
func DecodeJSON(resp interfaces.Response, api string, v interface{}) error {
	body := resp.Body()
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", api, err)
	}

	if resp.StatusCode() != 200 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return &coreerrors.ExternalAPIError{StatusCode: resp.StatusCode(), Message: msg, API: api}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", api, err)
	}
	return nil
}
