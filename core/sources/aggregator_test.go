package sources

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
	"newsdesk-api/core/keywords"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func urls(candidates []domain.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.URL
	}
	return out
}

func assertUniqueURLs(t *testing.T, candidates []domain.Candidate) {
	t.Helper()
	seen := make(map[string]bool)
	for _, c := range candidates {
		assert.False(t, seen[c.URL], "duplicate url %s", c.URL)
		seen[c.URL] = true
	}
}

func TestGather_StrictValidated(t *testing.T) {
	youtube := &mockBackend{name: "youtube", searchFunc: static(articles("youtube",
		"https://www.youtube.com/watch?v=a1",
		"https://www.youtube.com/watch?v=a2",
	), nil)}
	cse := &mockBackend{name: "googlecse", searchFunc: static(articles("googlecse",
		"https://dawn.com/pakistan-army",
		"https://www.youtube.com/watch?v=a1",
	), nil)}
	validator := &mockValidator{acceptFunc: acceptAll}

	agg := NewAggregator([]interfaces.DiscoveryBackend{youtube, cse}, keywords.NewExtractor(), validator, &mockLogger{})
	res := agg.Gather(context.Background(), Request{Text: "Pakistan army conducts security operation"})

	assert.Equal(t, domain.LevelStrictValidated, res.Level)
	assert.Equal(t, []string{
		"https://www.youtube.com/watch?v=a1",
		"https://www.youtube.com/watch?v=a2",
		"https://dawn.com/pakistan-army",
	}, urls(res.Candidates))
	assert.Equal(t, 3, validator.calls, "duplicates are merged before validation")
	assert.Contains(t, res.Keywords, "pakistan")
	assert.Equal(t, []string{"pakistan army conducts security operation"}, youtube.seen())
}

func TestGather_BackendFailureIsIsolated(t *testing.T) {
	broken := &mockBackend{name: "perplexity", searchFunc: static(nil, errors.New("401 unauthorized"))}
	slow := &mockBackend{name: "googlenews", searchFunc: func(ctx context.Context, q string) ([]domain.Candidate, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	healthy := &mockBackend{name: "googlecse", searchFunc: static(articles("googlecse",
		"https://a.example/1", "https://a.example/2", "https://a.example/3",
	), nil)}
	logger := &mockLogger{}

	agg := NewAggregator([]interfaces.DiscoveryBackend{broken, slow, healthy}, keywords.NewExtractor(),
		&mockValidator{acceptFunc: acceptAll}, logger, WithBackendTimeout(20*time.Millisecond))
	res := agg.Gather(context.Background(), Request{Text: "Pakistan army security"})

	assert.Equal(t, domain.LevelStrictValidated, res.Level)
	assert.Len(t, res.Candidates, 3)
	require.Len(t, logger.warns, 2)
	backends := []interface{}{logger.warns[0]["backend"], logger.warns[1]["backend"]}
	assert.ElementsMatch(t, []interface{}{"perplexity", "googlenews"}, backends)
}

func TestGather_DropsInvalidCandidatesAndTagsBackend(t *testing.T) {
	backend := &mockBackend{name: "perplexity", searchFunc: static([]domain.Candidate{
		{URL: "https://a.example/1", Type: domain.CandidateArticle},
		{URL: "ftp://a.example/2", Type: domain.CandidateArticle},
		{URL: "", Type: domain.CandidateArticle},
		{URL: "https://a.example/3", Type: domain.CandidateArticle},
		{URL: "https://a.example/4", Type: domain.CandidateArticle},
	}, nil)}

	agg := NewAggregator([]interfaces.DiscoveryBackend{backend}, keywords.NewExtractor(), &mockValidator{acceptFunc: acceptAll}, &mockLogger{})
	res := agg.Gather(context.Background(), Request{Text: "Pakistan army security"})

	assert.Equal(t, []string{"https://a.example/1", "https://a.example/3", "https://a.example/4"}, urls(res.Candidates))
	for _, c := range res.Candidates {
		assert.Equal(t, "perplexity", c.SourceBackend)
	}
}

func TestGather_PerBackendTopN(t *testing.T) {
	var yt, cse []string
	for i := 0; i < 8; i++ {
		yt = append(yt, fmt.Sprintf("https://www.youtube.com/watch?v=v%d", i))
		cse = append(cse, fmt.Sprintf("https://news.example/%d", i))
	}
	agg := NewAggregator([]interfaces.DiscoveryBackend{
		&mockBackend{name: "youtube", searchFunc: static(articles("youtube", yt...), nil)},
		&mockBackend{name: "googlecse", searchFunc: static(articles("googlecse", cse...), nil)},
	}, keywords.NewExtractor(), &mockValidator{}, &mockLogger{})

	res := agg.Gather(context.Background(), Request{Text: "Pakistan army security"})

	assert.Equal(t, domain.LevelPerBackendTopN, res.Level)
	assert.Equal(t, append(append([]string{}, yt[:5]...), cse[:5]...), urls(res.Candidates))
}

func TestGather_AlternateQuery(t *testing.T) {
	backend := &mockBackend{name: "googlecse", searchFunc: func(ctx context.Context, q string) ([]domain.Candidate, error) {
		if strings.Contains(q, "kashmir") {
			return articles("googlecse", "https://k.example/1", "https://k.example/2", "https://k.example/3"), nil
		}
		return nil, nil
	}}
	validator := &mockValidator{acceptFunc: func(ctx context.Context, c domain.Candidate, k domain.KeywordSet) bool {
		return k.Contains("kashmir")
	}}

	agg := NewAggregator([]interfaces.DiscoveryBackend{backend}, keywords.NewExtractor(), validator, &mockLogger{})
	res := agg.Gather(context.Background(), Request{
		Text:          "ناظرین آج کی ویڈیو میں",
		AlternateText: "Kashmir border tensions",
	})

	assert.Equal(t, domain.LevelAlternateQuery, res.Level)
	assert.Len(t, res.Candidates, 3)
	assert.Contains(t, res.Keywords, "kashmir")
	assert.Len(t, backend.seen(), 2)
}

func TestGather_AlternateSkippedWhenSameAsText(t *testing.T) {
	backend := &mockBackend{name: "googlecse"}
	agg := NewAggregator([]interfaces.DiscoveryBackend{backend}, keywords.NewExtractor(), &mockValidator{}, &mockLogger{})

	res := agg.Gather(context.Background(), Request{Text: "Pakistan army", AlternateText: " Pakistan army "})

	assert.Equal(t, domain.LevelEmpty, res.Level)
	assert.Len(t, backend.seen(), 1)
}

func TestGather_RawMerge(t *testing.T) {
	agg := NewAggregator([]interfaces.DiscoveryBackend{
		&mockBackend{name: "perplexity", searchFunc: static(articles("perplexity", "https://a.example/1"), nil)},
		&mockBackend{name: "googlenews", searchFunc: static(articles("googlenews", "https://a.example/1", "https://b.example/2"), nil)},
	}, keywords.NewExtractor(), &mockValidator{}, &mockLogger{})

	res := agg.Gather(context.Background(), Request{Text: "Pakistan army security"})

	assert.Equal(t, domain.LevelRawMerge, res.Level)
	assert.Equal(t, []string{"https://a.example/1", "https://b.example/2"}, urls(res.Candidates))
}

func TestGather_RawMergeIsCapped(t *testing.T) {
	var many []string
	for i := 0; i < 30; i++ {
		many = append(many, fmt.Sprintf("https://a.example/%d", i))
	}
	primary := &mockBackend{name: "googlenews", searchFunc: func(ctx context.Context, q string) ([]domain.Candidate, error) {
		if strings.Contains(q, "pakistan") {
			return articles("googlenews", many[:2]...), nil
		}
		return articles("googlenews", many[2:4]...), nil
	}}

	agg := NewAggregator([]interfaces.DiscoveryBackend{primary}, keywords.NewExtractor(), &mockValidator{}, &mockLogger{},
		WithRawCap(3))
	res := agg.Gather(context.Background(), Request{Text: "Pakistan army", AlternateText: "India border"})

	assert.Equal(t, domain.LevelRawMerge, res.Level)
	assert.Equal(t, many[:3], urls(res.Candidates))
}

func TestGather_Empty(t *testing.T) {
	agg := NewAggregator([]interfaces.DiscoveryBackend{
		&mockBackend{name: "youtube", searchFunc: static(nil, errors.New("quota"))},
	}, keywords.NewExtractor(), &mockValidator{}, &mockLogger{})

	res := agg.Gather(context.Background(), Request{Text: "Pakistan army", AlternateText: "Kashmir"})

	assert.Equal(t, domain.LevelEmpty, res.Level)
	assert.NotNil(t, res.Candidates)
	assert.Empty(t, res.Candidates)
}

func TestGather_EmptyKeywordsSkipValidation(t *testing.T) {
	validator := &mockValidator{acceptFunc: acceptAll}
	backend := &mockBackend{name: "googlecse", searchFunc: static(articles("googlecse",
		"https://a.example/1", "https://a.example/2", "https://a.example/3"), nil)}

	agg := NewAggregator([]interfaces.DiscoveryBackend{backend}, &mockExtractor{}, validator, &mockLogger{})
	res := agg.Gather(context.Background(), Request{Text: "a an to"})

	assert.Zero(t, validator.calls)
	assert.Equal(t, domain.LevelPerBackendTopN, res.Level)
	assert.Equal(t, []string{"a an to"}, backend.seen(), "raw text is the query when no keywords exist")
}

func TestGather_ValidationOrderIsDeterministic(t *testing.T) {
	var list []string
	for i := 0; i < 40; i++ {
		list = append(list, fmt.Sprintf("https://a.example/%02d", i))
	}
	validator := &mockValidator{acceptFunc: func(ctx context.Context, c domain.Candidate, k domain.KeywordSet) bool {
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
		return true
	}}
	agg := NewAggregator([]interfaces.DiscoveryBackend{
		&mockBackend{name: "googlecse", searchFunc: static(articles("googlecse", list...), nil)},
	}, keywords.NewExtractor(), validator, &mockLogger{}, WithConcurrency(4))

	res := agg.Gather(context.Background(), Request{Text: "Pakistan army"})

	assert.Equal(t, list, urls(res.Candidates))
}

func TestGather_NeverReturnsDuplicateURLs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := []string{
		"https://a.example/1", "https://a.example/2", "https://a.example/3",
		"https://www.youtube.com/watch?v=x", "https://youtu.be/y", "https://b.example/4",
	}
	pick := func() []domain.Candidate {
		n := rng.Intn(8)
		var out []string
		for i := 0; i < n; i++ {
			out = append(out, pool[rng.Intn(len(pool))])
		}
		return articles("", out...)
	}

	for round := 0; round < 200; round++ {
		b1, b2, b3 := pick(), pick(), pick()
		threshold := rng.Intn(3)
		validator := &mockValidator{acceptFunc: func(ctx context.Context, c domain.Candidate, k domain.KeywordSet) bool {
			return len(c.URL)%3 >= threshold
		}}
		agg := NewAggregator([]interfaces.DiscoveryBackend{
			&mockBackend{name: "one", searchFunc: static(b1, nil)},
			&mockBackend{name: "two", searchFunc: static(b2, nil)},
			&mockBackend{name: "three", searchFunc: static(b3, nil)},
		}, keywords.NewExtractor(), validator, &mockLogger{})

		res := agg.Gather(context.Background(), Request{Text: "Pakistan army", AlternateText: "India border"})
		assertUniqueURLs(t, res.Candidates)
		assert.GreaterOrEqual(t, int(res.Level), int(domain.LevelStrictValidated))
		assert.LessOrEqual(t, int(res.Level), int(domain.LevelEmpty))
	}
}
