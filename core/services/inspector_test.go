package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
	"newsdesk-api/core/relevance"
)

const articleHTML = `<!doctype html>
<html>
<head>
  <title>Fallback Title</title>
  <meta property="og:title" content="Pakistan Army briefs media">
  <meta name="description" content="Security operation in the north">
  <meta name="keywords" content="pakistan, army , ,security">
</head>
<body>
  <h1>Operation   concludes</h1>
  <h2>Army spokesman</h2>
  <h3>Ignored</h3>
</body>
</html>`

func TestPageInspector_Inspect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	inspector := NewPageInspector(interfaces.Dependencies{Logger: &mockLogger{}}, 5*time.Second, 0)

	page, err := inspector.Inspect(context.Background(), domain.Candidate{URL: server.URL + "/story"})
	require.NoError(t, err)

	assert.Equal(t, "Pakistan Army briefs media", page.Title)
	assert.Equal(t, "Security operation in the north", page.Description)
	assert.Equal(t, []string{"pakistan", "army", "security"}, page.Tags)
	assert.Equal(t, []string{"Operation concludes", "Army spokesman"}, page.Headings)
	assert.NotEmpty(t, page.Domain)
}

func servePage(t *testing.T, page string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	t.Cleanup(server.Close)
	return server
}

const ledeParagraph = "<p>Heavy monsoon rains flooded several districts of the province overnight, and rescue teams worked through the morning to reach villages cut off by the rising water.</p>"

func TestPageInspector_LedeFillsMissingDescription(t *testing.T) {
	later := "<p>Officials in the provincial capital later announced compensation for farmers whose standing crops were destroyed along the river banks this week.</p>"
	page := "<html><head><title>Floods</title></head><body><nav>Home | World</nav><article>" +
		ledeParagraph + later + later + "</article></body></html>"
	server := servePage(t, page)

	inspector := NewPageInspector(interfaces.Dependencies{Logger: &mockLogger{}}, 5*time.Second, 0)

	result, err := inspector.Inspect(context.Background(), domain.Candidate{URL: server.URL + "/floods"})
	require.NoError(t, err)
	assert.Contains(t, result.Description, "monsoon rains")
	assert.NotContains(t, result.Description, "compensation")
	assert.LessOrEqual(t, utf8.RuneCountInString(result.Description), maxExcerptRunes)
}

func TestPageInspector_MetaDescriptionWinsOverLede(t *testing.T) {
	page := `<html><head><title>Floods</title><meta name="description" content="Flood update"></head><body><article>` +
		ledeParagraph + ledeParagraph + `</article></body></html>`
	server := servePage(t, page)

	inspector := NewPageInspector(interfaces.Dependencies{Logger: &mockLogger{}}, 5*time.Second, 0)

	result, err := inspector.Inspect(context.Background(), domain.Candidate{URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, "Flood update", result.Description)
}

func TestPageInspector_BodyMentionsDoNotMakeAPageRelevant(t *testing.T) {
	body := "<p>Before the toss, the Pakistan team bus was escorted to the ground by the army, and stadium security was tightened for the crowd of forty thousand.</p>" +
		"<p>The home side then chased the target with two overs to spare, with the opener finishing unbeaten on ninety-four.</p>"
	page := `<html><head><title>Cricket scores today</title><meta name="description" content="Match report from Lahore"></head>` +
		`<body><h1>Qalandars win at home</h1><article>` + body + body + `</article></body></html>`
	server := servePage(t, page)

	inspector := NewPageInspector(interfaces.Dependencies{Logger: &mockLogger{}}, 5*time.Second, 0)
	validator := relevance.NewValidator(&mockLogger{},
		relevance.WithTypeRules(domain.CandidateArticle, relevance.TypeRules{Policy: relevance.Strict, Inspector: inspector}))

	candidate := domain.Candidate{URL: server.URL + "/sports/cricket", Type: domain.CandidateArticle, SourceBackend: "googlecse"}
	keywords := domain.NewKeywordSet("pakistan", "army", "security")

	assert.Equal(t, relevance.TierNone, validator.Evaluate(context.Background(), candidate, keywords))
}

func TestPageInspector_StopsWhenContextEnds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}))
	defer server.Close()

	inspector := NewPageInspector(interfaces.Dependencies{Logger: &mockLogger{}}, 10*time.Second, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := inspector.Inspect(ctx, domain.Candidate{URL: server.URL + "/slow"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "abc", truncateRunes("abc", 10))
}

func TestPageInspector_TitleFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title> Plain title </title></head><body></body></html>`))
	}))
	defer server.Close()

	inspector := NewPageInspector(interfaces.Dependencies{Logger: &mockLogger{}}, 5*time.Second, 0)

	page, err := inspector.Inspect(context.Background(), domain.Candidate{URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, "Plain title", page.Title)
	assert.Empty(t, page.Headings)
}

func TestPageInspector_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	inspector := NewPageInspector(interfaces.Dependencies{Logger: &mockLogger{}}, 5*time.Second, 0)

	_, err := inspector.Inspect(context.Background(), domain.Candidate{URL: server.URL})
	assert.Error(t, err)
}

func TestPageInspector_InvalidURL(t *testing.T) {
	inspector := NewPageInspector(interfaces.Dependencies{Logger: &mockLogger{}}, 5*time.Second, 0)

	_, err := inspector.Inspect(context.Background(), domain.Candidate{URL: "not a url"})
	assert.Error(t, err)
}

func TestPageInspector_CachesResults(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	cache := newMapCache()
	inspector := NewPageInspector(interfaces.Dependencies{Logger: &mockLogger{}, Cache: cache}, 5*time.Second, time.Hour)
	candidate := domain.Candidate{URL: server.URL + "/cached"}

	first, err := inspector.Inspect(context.Background(), candidate)
	require.NoError(t, err)
	second, err := inspector.Inspect(context.Background(), candidate)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	_, err = cache.Get(context.Background(), "inspect:"+candidate.URL)
	assert.NoError(t, err)
}
