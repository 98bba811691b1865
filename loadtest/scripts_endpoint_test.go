// ABOUTME: Load tests for the /scripts endpoint over the in-process channel hub
// ABOUTME: Many concurrent requests share one channel; each must receive only its own reply

package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"newsdesk-api/api"
	"newsdesk-api/api/handlers"
	"newsdesk-api/core/correlation"
	"newsdesk-api/core/domain"
	"newsdesk-api/infrastructure/channel/memory"
)

var (
	refPattern   = regexp.MustCompile(`REF:([a-z0-9]{8})`)
	topicPattern = regexp.MustCompile(`Topic-\d{3}`)
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// counterparty answers requests on the hub after a random delay, in no particular order
type counterparty struct {
	hub     *memory.Hub
	rng     *rand.Rand
	mu      sync.Mutex
	wg      sync.WaitGroup
	skip    func(topic string) bool
	minWait time.Duration
}

func (c *counterparty) forward(_ context.Context, msg domain.OutboundMessage) error {
	token := refPattern.FindStringSubmatch(msg.Text)
	topic := topicPattern.FindString(msg.Text)
	if token == nil || topic == "" {
		return nil
	}

	c.mu.Lock()
	delay := c.minWait + time.Duration(c.rng.Intn(80))*time.Millisecond
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		time.Sleep(delay)
		// Chatter without a token reaches every listener too
		c.hub.Publish(domain.InboundMessage{From: "perplexity", Body: "typing... " + strings.Repeat("noise ", 60)})
		if c.skip != nil && c.skip(topic) {
			return
		}
		body := fmt.Sprintf("ناظرین، %s پر آج کا تجزیہ۔ %s REF:%s", topic, strings.Repeat("تفصیل ", 40), token[1])
		c.hub.Publish(domain.InboundMessage{From: "perplexity", Body: body})
	}()
	return nil
}

func newServer(t *testing.T, cp *counterparty, replyTimeout time.Duration) *httptest.Server {
	t.Helper()
	cp.hub = memory.NewHub(nopLogger{}, memory.WithBufferSize(4096), memory.WithForwarder(cp.forward))

	correlator := correlation.NewCorrelator(cp.hub, "perplexity", nopLogger{})
	scripts := correlation.NewScriptService(correlator, nil, nopLogger{},
		correlation.WithMaxAttempts(1),
		correlation.WithGuardDelay(10*time.Millisecond),
		correlation.WithReplyTimeout(replyTimeout),
	)

	humaAPI, router := api.NewAPI()
	handlers.NewScriptHandler(scripts, nil, nopLogger{}).RegisterRoutes(humaAPI)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		cp.wg.Wait()
	})
	return srv
}

func postScript(client *http.Client, url, topic string) (domain.Script, time.Duration, error) {
	payload, _ := json.Marshal(map[string]string{"topic": topic + " budget session in the national assembly"})

	start := time.Now()
	resp, err := client.Post(url+"/scripts", "application/json", bytes.NewReader(payload))
	if err != nil {
		return domain.Script{}, 0, err
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		return domain.Script{}, elapsed, fmt.Errorf("status %d", resp.StatusCode)
	}

	var out struct {
		Script domain.Script `json:"script"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Script{}, elapsed, err
	}
	return out.Script, elapsed, nil
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}

func TestScriptsEndpoint_ConcurrentRequestsGetTheirOwnReply(t *testing.T) {
	if testing.Short() {
		t.Skip("load test")
	}

	cp := &counterparty{rng: rand.New(rand.NewSource(7)), minWait: 150 * time.Millisecond}
	srv := newServer(t, cp, 5*time.Second)

	const concurrency = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		latencies []time.Duration
		failures  []string
	)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			topic := fmt.Sprintf("Topic-%03d", i)
			client := &http.Client{Timeout: 30 * time.Second}

			script, elapsed, err := postScript(client, srv.URL, topic)

			mu.Lock()
			defer mu.Unlock()
			latencies = append(latencies, elapsed)
			switch {
			case err != nil:
				failures = append(failures, fmt.Sprintf("%s: %v", topic, err))
			case script.Origin != domain.OriginChannel:
				failures = append(failures, fmt.Sprintf("%s: origin %s", topic, script.Origin))
			case topicPattern.FindString(script.Text) != topic:
				failures = append(failures, fmt.Sprintf("%s: got reply for %s", topic, topicPattern.FindString(script.Text)))
			case strings.Contains(script.Text, "REF:"):
				failures = append(failures, fmt.Sprintf("%s: token not stripped", topic))
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, failures)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	t.Logf("requests=%d p50=%v p95=%v max=%v", concurrency,
		percentile(latencies, 0.50), percentile(latencies, 0.95), latencies[len(latencies)-1])
}

func TestScriptsEndpoint_UnansweredRequestsDoNotStealReplies(t *testing.T) {
	if testing.Short() {
		t.Skip("load test")
	}

	// Odd-numbered topics never get an answer
	cp := &counterparty{
		rng:     rand.New(rand.NewSource(11)),
		minWait: 100 * time.Millisecond,
		skip: func(topic string) bool {
			var n int
			_, _ = fmt.Sscanf(topic, "Topic-%03d", &n)
			return n%2 == 1
		},
	}
	srv := newServer(t, cp, time.Second)

	const concurrency = 20
	results := make([]domain.Script, concurrency)
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			script, _, err := postScript(&http.Client{Timeout: 30 * time.Second}, srv.URL, fmt.Sprintf("Topic-%03d", i))
			assert.NoError(t, err)
			results[i] = script
		}(i)
	}
	wg.Wait()

	for i, script := range results {
		topic := fmt.Sprintf("Topic-%03d", i)
		if i%2 == 1 {
			assert.Equal(t, domain.OriginUnavailable, script.Origin, topic)
			assert.Equal(t, correlation.UnavailableScriptText, script.Text, topic)
			continue
		}
		assert.Equal(t, domain.OriginChannel, script.Origin, topic)
		assert.Equal(t, topic, topicPattern.FindString(script.Text))
	}
}
