// Package api provides the HTTP API layer for the newsdesk service.
// It uses the Huma framework on a chi router for OpenAPI documentation,
// request validation, and typed handlers.
//
// # Architecture
//
// - server.go: Huma API configuration, CORS, and the health check
// - handlers/: HTTP request handlers for scripts, visuals, agenda, keywords, and the inbound channel webhook
// - middleware/: request logging with request IDs and per-client rate limiting
//
// # Routes
//
//	POST /scripts            generate a script for a topic or an agenda headline
//	POST /visuals            find videos and articles for a topic or script
//	GET  /agenda             current agenda
//	POST /agenda/refresh     fetch fresh headlines
//	GET  /agenda/{index}     one headline, 1-based
//	POST /keywords           relevance terms for a text
//	POST /channel/messages   inbound gateway message (in-process channel only)
//	GET  /health             liveness
//
// The OpenAPI spec is served at /openapi.json and the docs UI at /docs.
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:     logger,
//	    RateLimit:  100,
//	    RateWindow: time.Minute,
//	})
//
//	handlers.NewAgendaHandler(store).RegisterRoutes(humaAPI)
//	http.ListenAndServe(":8080", router)
//
// # Error Handling
//
// Errors use the RFC 7807 problem format. Domain errors map to status codes:
// validation errors to 400, missing resources to 404, unavailable upstreams
// to 503, and deadlines to 504.
package api
