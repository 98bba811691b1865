// ABOUTME: Composition root wiring configuration, adapters, core services, and HTTP handlers
// ABOUTME: Kept separate from main so the wiring can be exercised without a listening server

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"newsdesk-api/api"
	"newsdesk-api/api/handlers"
	"newsdesk-api/api/middleware"
	"newsdesk-api/core/agenda"
	"newsdesk-api/core/correlation"
	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
	"newsdesk-api/core/keywords"
	"newsdesk-api/core/relevance"
	"newsdesk-api/core/services"
	"newsdesk-api/core/sources"
	"newsdesk-api/core/visuals"
	"newsdesk-api/infrastructure/agenda/newsapi"
	"newsdesk-api/infrastructure/agenda/yahoo"
	"newsdesk-api/infrastructure/cache/memory"
	rediscache "newsdesk-api/infrastructure/cache/redis"
	memchannel "newsdesk-api/infrastructure/channel/memory"
	redischannel "newsdesk-api/infrastructure/channel/redis"
	"newsdesk-api/infrastructure/discovery/googlecse"
	"newsdesk-api/infrastructure/discovery/googlenews"
	"newsdesk-api/infrastructure/discovery/perplexity"
	"newsdesk-api/infrastructure/discovery/youtube"
	"newsdesk-api/infrastructure/generator/gemini"
	stdhttp "newsdesk-api/infrastructure/http/standard"
	"newsdesk-api/infrastructure/snapshot"
	"newsdesk-api/pkg/config"
	"newsdesk-api/pkg/featureflags"
)

const (
	inspectionTimeout  = 8 * time.Second
	validationTimeout  = 15 * time.Second
	slowRequestWarning = 90 * time.Second
)

// app holds the wired service and everything that must be closed on shutdown
type app struct {
	api     huma.API
	handler http.Handler
	agenda  *agenda.Store
	closers []io.Closer
}

// Close releases connections opened during wiring
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newApp wires every component from cfg
func newApp(ctx context.Context, cfg *config.Config, flags featureflags.Manager, logger interfaces.Logger) (*app, error) {
	a := &app{}

	var shared *rediscache.RedisCache
	redisFor := func() (*rediscache.RedisCache, error) {
		if shared != nil {
			return shared, nil
		}
		rc, err := rediscache.NewRedisCache(cfg.Cache.Redis)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rc)
		shared = rc
		return shared, nil
	}

	cache := newCache(cfg, flags, logger, redisFor)

	httpClient := stdhttp.NewStandardHTTPClient(cfg.Discovery.HTTPTimeout,
		stdhttp.WithRateLimit(cfg.Discovery.RequestsPerSecond, int(cfg.Discovery.RequestsPerSecond)*2),
		stdhttp.WithTransport(&middleware.LoggingRoundTripper{Logger: logger}),
	)

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	channel, hub, err := newChannel(cfg, httpClient, logger, redisFor)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	var correlatorOpts []correlation.Option
	if cfg.Correlation.LegacyMatcher || flags.IsEnabled(ctx, featureflags.LegacyReplyMatching) {
		correlatorOpts = append(correlatorOpts, correlation.WithLegacyMatching(correlation.NewLegacyMatcher(cfg.Channel.CounterpartyIDs)))
	}
	correlator := correlation.NewCorrelator(channel, cfg.Channel.Recipient, logger, correlatorOpts...)
	logger.Info("Correlator ready", map[string]interface{}{
		"mode":      correlator.Mode().String(),
		"recipient": cfg.Channel.Recipient,
		"channel":   cfg.Channel.Type,
	})

	// Gemini serves both the direct fallback and the relevance check on channel replies
	var generator interfaces.ScriptGenerator
	scriptOpts := []correlation.ScriptOption{
		correlation.WithMaxAttempts(cfg.Correlation.MaxAttempts),
		correlation.WithReplyTimeout(cfg.Correlation.ReplyTimeout),
		correlation.WithGuardDelay(cfg.Correlation.GuardDelay),
		correlation.WithMinScriptLength(cfg.Correlation.MinScriptLen),
	}
	if cfg.Generator.GeminiAPIKey != "" {
		g, err := gemini.NewGenerator(ctx, cfg.Generator.GeminiAPIKey, logger, gemini.WithModel(cfg.Generator.Model))
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		generator = g
		scriptOpts = append(scriptOpts, correlation.WithRelevanceJudge(g))
	} else {
		logger.Warn("No direct script generator configured", nil)
	}

	var scriptRequester correlation.Requester
	if flags.IsEnabled(ctx, featureflags.ChannelScripts) {
		scriptRequester = correlator
	}
	scripts := correlation.NewScriptService(scriptRequester, generator, logger, scriptOpts...)

	extractor := keywords.NewExtractor()
	aggregator := sources.NewAggregator(
		discoveryBackends(cfg, deps),
		extractor,
		newValidator(cfg, deps),
		logger,
		sources.WithConcurrency(cfg.Discovery.ValidationWorkers),
	)

	var visualsOpts []visuals.Option
	if flags.IsEnabled(ctx, featureflags.ChannelVisuals) {
		visualsOpts = append(visualsOpts, visuals.WithChannel(correlator, cfg.Correlation.ReplyTimeout, cfg.Correlation.GuardDelay))
	}
	finder := visuals.NewService(aggregator, logger, visualsOpts...)

	apiCfg := api.APIConfig{Logger: logger, SlowThreshold: slowRequestWarning}
	if flags.IsEnabled(ctx, featureflags.RateLimitEnabled) {
		apiCfg.RateLimit = cfg.Server.RateLimit
		apiCfg.RateWindow = cfg.Server.RateWindow
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiCfg)

	var selector handlers.AgendaSelector
	if flags.IsEnabled(ctx, featureflags.AgendaEnabled) {
		a.agenda = newAgendaStore(cfg, deps)
		if err := a.agenda.Load(ctx); err != nil {
			logger.Warn("Agenda snapshot not loaded", map[string]interface{}{"error": err.Error()})
		}
		selector = a.agenda
		handlers.NewAgendaHandler(a.agenda).RegisterRoutes(humaAPI)
	}

	handlers.NewScriptHandler(scripts, selector, logger).RegisterRoutes(humaAPI)
	handlers.NewVisualsHandler(finder).RegisterRoutes(humaAPI)
	handlers.NewKeywordsHandler(extractor).RegisterRoutes(humaAPI)
	if hub != nil {
		handlers.NewChannelHandler(hub, hub).RegisterRoutes(humaAPI)
	}

	a.api = humaAPI
	a.handler = router
	return a, nil
}

func newCache(cfg *config.Config, flags featureflags.Manager, logger interfaces.Logger, redisFor func() (*rediscache.RedisCache, error)) interfaces.Cache {
	if !flags.IsEnabled(context.Background(), featureflags.CacheEnabled) {
		logger.Info("Caching disabled", nil)
		return noCache{}
	}

	if cfg.Cache.Type == "redis" {
		rc, err := redisFor()
		if err == nil {
			logger.Info("Using Redis cache", map[string]interface{}{"address": cfg.Cache.Redis.Address})
			return rc
		}
		logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Using memory cache", nil)
	return memory.NewMemoryCache(time.Duration(cfg.Cache.Memory.CleanupInterval)*time.Second,
		memory.WithDefaultExpiration(time.Duration(cfg.Cache.Memory.DefaultExpiration)*time.Second))
}

// newChannel returns the active transport, plus the in-process hub when
// that is the transport so its gateway routes can be registered.
func newChannel(cfg *config.Config, client interfaces.HTTPClient, logger interfaces.Logger, redisFor func() (*rediscache.RedisCache, error)) (interfaces.MessageChannel, *memchannel.Hub, error) {
	if cfg.Channel.Type == "redis" {
		rc, err := redisFor()
		if err != nil {
			return nil, nil, err
		}
		ch, err := redischannel.NewChannel(rc.Client(), cfg.Channel.OutboundTopic, cfg.Channel.InboundTopic, logger)
		if err != nil {
			return nil, nil, err
		}
		return ch, nil, nil
	}

	var opts []memchannel.Option
	if cfg.Channel.OutboundURL != "" {
		headers := map[string]string{}
		if cfg.Channel.OutboundToken != "" {
			headers["Authorization"] = "Bearer " + cfg.Channel.OutboundToken
		}
		forward, err := memchannel.NewWebhookForwarder(client, cfg.Channel.OutboundURL, headers)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, memchannel.WithForwarder(forward))
		logger.Info("Forwarding channel requests to gateway webhook", map[string]interface{}{
			"url": cfg.Channel.OutboundURL,
		})
	} else {
		logger.Warn("No outbound webhook configured, channel requests are held for GET /channel/outbound", nil)
	}

	hub := memchannel.NewHub(logger, opts...)
	return hub, hub, nil
}

func discoveryBackends(cfg *config.Config, deps interfaces.Dependencies) []interfaces.DiscoveryBackend {
	ttl := cfg.Cache.SearchTTL
	var backends []interfaces.DiscoveryBackend

	if cfg.Discovery.PerplexityAPIKey != "" {
		backends = append(backends, perplexity.NewClient(deps, cfg.Discovery.PerplexityAPIKey,
			perplexity.WithModel(cfg.Discovery.PerplexityModel), perplexity.WithCacheTTL(ttl)))
	}
	if cfg.Discovery.YouTubeAPIKey != "" {
		backends = append(backends, youtube.NewClient(deps, cfg.Discovery.YouTubeAPIKey, youtube.WithCacheTTL(ttl)))
	}
	if cfg.Discovery.GoogleCSEAPIKey != "" && cfg.Discovery.GoogleCSEID != "" {
		backends = append(backends, googlecse.NewClient(deps, cfg.Discovery.GoogleCSEAPIKey, cfg.Discovery.GoogleCSEID, googlecse.WithCacheTTL(ttl)))
	}
	backends = append(backends, googlenews.NewClient(deps, googlenews.WithRegion(cfg.Discovery.GoogleNewsRegion), googlenews.WithCacheTTL(ttl)))

	names := make([]string, 0, len(backends))
	for _, b := range backends {
		names = append(names, b.Name())
	}
	deps.Logger.Info("Discovery backends configured", map[string]interface{}{"backends": names})
	return backends
}

// newValidator checks videos through the YouTube Data API when a key is present and
// articles with HTTP requests plus page inspection
func newValidator(cfg *config.Config, deps interfaces.Dependencies) *relevance.Validator {
	inspector := services.NewPageInspector(deps, inspectionTimeout, cfg.Cache.InspectionTTL)

	videoRules := relevance.TypeRules{Policy: relevance.Lenient, Inspector: inspector}
	if cfg.Discovery.YouTubeAPIKey != "" {
		yt := youtube.NewClient(deps, cfg.Discovery.YouTubeAPIKey, youtube.WithCacheTTL(cfg.Cache.InspectionTTL))
		videoRules.Checker = yt
		videoRules.Inspector = yt
	}

	return relevance.NewValidator(deps.Logger,
		relevance.WithTimeout(validationTimeout),
		relevance.WithTypeRules(domain.CandidateVideo, videoRules),
		relevance.WithTypeRules(domain.CandidateArticle, relevance.TypeRules{
			Checker:   services.NewHTTPExistenceChecker(deps.HTTPClient, inspectionTimeout),
			Policy:    relevance.Strict,
			Inspector: inspector,
		}),
	)
}

func newAgendaStore(cfg *config.Config, deps interfaces.Dependencies) *agenda.Store {
	secondary := yahoo.NewSource(deps)
	store := snapshot.NewFileStore(cfg.Agenda.SnapshotPath)

	if cfg.Agenda.NewsAPIKey == "" {
		deps.Logger.Warn("NewsAPI key missing, agenda uses Yahoo News only", nil)
		return agenda.NewStore(secondary, nil, store, deps.Logger)
	}
	return agenda.NewStore(newsapi.NewSource(deps, cfg.Agenda.NewsAPIKey), secondary, store, deps.Logger)
}

// noCache turns every lookup into a miss
type noCache struct{}

var errCacheDisabled = errors.New("cache disabled")

func (noCache) Get(context.Context, string) ([]byte, error) { return nil, errCacheDisabled }

func (noCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (noCache) Delete(context.Context, string) error { return nil }
