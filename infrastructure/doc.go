// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package.
//
// Organized by technical concern:
//
// - cache/memory: in-process cache on go-cache
// - cache/redis: shared cache on go-redis
// - channel/memory: in-process broadcast hub for the messaging channel
// - channel/redis: messaging channel over Redis Pub/Sub
// - http/standard: net/http client with retries and outbound rate limiting
// - logger/logrus: structured logging with optional rotating file output
// - discovery: youtube, googlecse, perplexity, and googlenews backends plus shared caching helpers
// - agenda/newsapi, agenda/yahoo: agenda headline sources
// - generator/gemini: direct script generation and relevance judging
// - snapshot: JSON file store for the agenda
//
// # Example
//
//	cache := memory.NewMemoryCache(10*time.Minute)
//	httpClient := standard.NewStandardHTTPClient(10*time.Second, standard.WithRateLimit(5, 10))
//	deps := interfaces.Dependencies{Cache: cache, HTTPClient: httpClient, Logger: logger}
//
//	yt := youtube.NewClient(deps, apiKey)
//	candidates, err := yt.Search(ctx, "pakistan floods")
package infrastructure
