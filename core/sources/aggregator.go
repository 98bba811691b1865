// ABOUTME: Source aggregation fans out to discovery backends, merges, validates, and falls back
// ABOUTME: Results record which fallback level produced them; the ladder always terminates

package sources

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"newsdesk-api/core/domain"
	coreerrors "newsdesk-api/core/errors"
	"newsdesk-api/core/interfaces"
)

// Defaults for the aggregation ladder
const (
	DefaultFloor          = 3
	DefaultTopN           = 5
	DefaultRawCap         = 10
	DefaultConcurrency    = 8
	DefaultQueryTerms     = 8
	DefaultBackendTimeout = 20 * time.Second
)

// KeywordExtractor derives a keyword set from text
type KeywordExtractor interface {
	Extract(text string) domain.KeywordSet
}

// CandidateValidator decides whether a candidate is relevant to a keyword set
type CandidateValidator interface {
	Accept(ctx context.Context, candidate domain.Candidate, keywords domain.KeywordSet) bool
}

// Request is one aggregation request. AlternateText, when set and different from Text,
// is tried as a second query before falling back to unfiltered results.
type Request struct {
	Text          string
	AlternateText string
}

// Result is the outcome of Gather
type Result struct {
	Candidates []domain.Candidate
	Level      domain.FallbackLevel
	Keywords   domain.KeywordSet
}

// Aggregator queries discovery backends and applies the fallback ladder
type Aggregator struct {
	backends       []interfaces.DiscoveryBackend
	extractor      KeywordExtractor
	validator      CandidateValidator
	logger         interfaces.Logger
	floor          int
	topN           int
	rawCap         int
	concurrency    int
	queryTerms     int
	backendTimeout time.Duration
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithFloor sets the minimum acceptable result size
func WithFloor(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.floor = n
		}
	}
}

// WithTopN sets how many raw candidates each backend contributes to the unfiltered fallback
func WithTopN(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.topN = n
		}
	}
}

// WithRawCap caps the raw merge fallback
func WithRawCap(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.rawCap = n
		}
	}
}

// WithConcurrency bounds concurrent candidate validations
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithBackendTimeout bounds each backend search
func WithBackendTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.backendTimeout = d
		}
	}
}

// NewAggregator creates an aggregator over the given backends
func NewAggregator(backends []interfaces.DiscoveryBackend, extractor KeywordExtractor, validator CandidateValidator, logger interfaces.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		backends:       backends,
		extractor:      extractor,
		validator:      validator,
		logger:         logger,
		floor:          DefaultFloor,
		topN:           DefaultTopN,
		rawCap:         DefaultRawCap,
		concurrency:    DefaultConcurrency,
		queryTerms:     DefaultQueryTerms,
		backendTimeout: DefaultBackendTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// pass holds everything one query pass produced
type pass struct {
	keywords   domain.KeywordSet
	perBackend [][]domain.Candidate
	merged     []domain.Candidate
	validated  []domain.Candidate
}

// Gather returns validated candidates for req, degrading through the fallback ladder
// when too few pass validation. It never returns an error; an exhausted ladder yields
// an empty result at LevelEmpty.
func (a *Aggregator) Gather(ctx context.Context, req Request) Result {
	primary := a.run(ctx, req.Text)
	if len(primary.validated) >= a.floor {
		return a.result(primary.validated, domain.LevelStrictValidated, primary.keywords)
	}
	a.insufficient(domain.LevelStrictValidated, len(primary.validated))

	if top := a.topPerBackend(primary.perBackend); len(top) >= a.floor {
		return a.result(top, domain.LevelPerBackendTopN, primary.keywords)
	}
	a.insufficient(domain.LevelPerBackendTopN, 0)

	gathered := primary.merged
	alt := strings.TrimSpace(req.AlternateText)
	if alt != "" && alt != strings.TrimSpace(req.Text) && ctx.Err() == nil {
		secondary := a.run(ctx, alt)
		if len(secondary.validated) >= a.floor {
			return a.result(secondary.validated, domain.LevelAlternateQuery, secondary.keywords)
		}
		if top := a.topPerBackend(secondary.perBackend); len(top) >= a.floor {
			return a.result(top, domain.LevelAlternateQuery, secondary.keywords)
		}
		a.insufficient(domain.LevelAlternateQuery, len(secondary.validated))
		gathered = append(append([]domain.Candidate(nil), gathered...), secondary.merged...)
	}

	if raw := capped(domain.DedupeByURL(gathered), a.rawCap); len(raw) > 0 {
		return a.result(raw, domain.LevelRawMerge, primary.keywords)
	}

	return a.result(nil, domain.LevelEmpty, primary.keywords)
}

func (a *Aggregator) run(ctx context.Context, text string) pass {
	keywords := a.extractor.Extract(text)
	perBackend := a.search(ctx, a.query(text, keywords))

	var merged []domain.Candidate
	for _, candidates := range perBackend {
		merged = append(merged, candidates...)
	}
	merged = domain.DedupeByURL(merged)

	return pass{
		keywords:   keywords,
		perBackend: perBackend,
		merged:     merged,
		validated:  a.validate(ctx, merged, keywords),
	}
}

// query prefers extracted keywords so that non-Latin text still searches in Latin script
func (a *Aggregator) query(text string, keywords domain.KeywordSet) string {
	if keywords.IsEmpty() {
		return strings.TrimSpace(text)
	}
	terms := []string(keywords)
	if len(terms) > a.queryTerms {
		terms = terms[:a.queryTerms]
	}
	return strings.Join(terms, " ")
}

// search queries every backend concurrently. A failing backend contributes nothing
// and does not cancel its siblings.
func (a *Aggregator) search(ctx context.Context, query string) [][]domain.Candidate {
	results := make([][]domain.Candidate, len(a.backends))
	if query == "" {
		return results
	}

	var g errgroup.Group
	for i, backend := range a.backends {
		i, backend := i, backend
		g.Go(func() error {
			bctx, cancel := context.WithTimeout(ctx, a.backendTimeout)
			defer cancel()

			candidates, err := backend.Search(bctx, query)
			if err != nil {
				unavailable := &coreerrors.BackendUnavailableError{Backend: backend.Name(), Err: err}
				a.logger.Warn("Discovery backend unavailable", map[string]interface{}{
					"backend": backend.Name(),
					"error":   unavailable.Error(),
				})
				return nil
			}

			valid := make([]domain.Candidate, 0, len(candidates))
			for _, c := range candidates {
				if c.SourceBackend == "" {
					c.SourceBackend = backend.Name()
				}
				if c.IsValid() {
					valid = append(valid, c)
				}
			}
			results[i] = valid

			a.logger.Debug("Discovery backend returned candidates", map[string]interface{}{
				"backend": backend.Name(),
				"count":   len(valid),
			})
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// validate runs the validator over candidates with bounded concurrency.
// Output order follows input order.
func (a *Aggregator) validate(ctx context.Context, candidates []domain.Candidate, keywords domain.KeywordSet) []domain.Candidate {
	if len(candidates) == 0 || keywords.IsEmpty() {
		return nil
	}

	accepted := make([]bool, len(candidates))
	semaphore := make(chan struct{}, a.concurrency)
	var wg sync.WaitGroup

	for i := range candidates {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-semaphore }()

			accepted[idx] = a.validator.Accept(ctx, candidates[idx], keywords)
		}(i)
	}
	wg.Wait()

	var out []domain.Candidate
	for i, ok := range accepted {
		if ok {
			out = append(out, candidates[i])
		}
	}
	return domain.DedupeByURL(out)
}

func (a *Aggregator) topPerBackend(perBackend [][]domain.Candidate) []domain.Candidate {
	var out []domain.Candidate
	for _, candidates := range perBackend {
		out = append(out, capped(candidates, a.topN)...)
	}
	return domain.DedupeByURL(out)
}

func (a *Aggregator) insufficient(level domain.FallbackLevel, got int) {
	a.logger.Info("Falling back", map[string]interface{}{
		"level": level.String(),
		"count": got,
		"floor": a.floor,
		"error": coreerrors.ErrInsufficientCandidates.Error(),
	})
}

func (a *Aggregator) result(candidates []domain.Candidate, level domain.FallbackLevel, keywords domain.KeywordSet) Result {
	if candidates == nil {
		candidates = []domain.Candidate{}
	}
	a.logger.Info("Aggregation complete", map[string]interface{}{
		"level": level.String(),
		"count": len(candidates),
	})
	return Result{Candidates: candidates, Level: level, Keywords: keywords}
}

func capped(candidates []domain.Candidate, n int) []domain.Candidate {
	if len(candidates) <= n {
		return candidates
	}
	return candidates[:n]
}
