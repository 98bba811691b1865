// Package core contains the business logic of the newsdesk service.
// It has no web framework dependencies; external concerns are injected
// through the contracts in core/interfaces.
//
// Sub-packages:
//
// - domain: models (Candidate, KeywordSet, InboundMessage, AgendaItem, Script, FallbackLevel)
// - correlation: request/reply matching on the shared messaging channel and the script attempt loop
// - keywords: relevance term extraction for Latin and Urdu text
// - relevance: tiered candidate validation against keywords
// - sources: discovery fan-out with the three-level fallback ladder
// - visuals: channel-first link lookup with discovery fallback
// - agenda: the current news agenda, its refresh, and its snapshot
// - services: existence checks and page inspection used by relevance
// - errors: sentinel and structured error types
// - interfaces: contracts for cache, HTTP, logging, channel, and backends
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Cache:      cache,
//	    HTTPClient: httpClient,
//	    Logger:     logger,
//	}
//
//	correlator := correlation.NewCorrelator(channel, "perplexity", deps.Logger)
//	scripts := correlation.NewScriptService(correlator, generator, deps.Logger)
//	script, err := scripts.Generate(ctx, correlation.TopicRequest("Floods in Sindh"))
package core
