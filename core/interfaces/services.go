// ABOUTME: Service interfaces for the core business logic
// ABOUTME: Defines contracts for discovery backends, inspectors, generators, and agenda sources

package interfaces

import (
	"context"

	"newsdesk-api/core/domain"
)

// DiscoveryBackend is one external content-discovery service queried for raw candidates
type DiscoveryBackend interface {
	// Name identifies the backend in logs and on produced candidates
	Name() string

	// Search returns raw candidates for the query, best first
	Search(ctx context.Context, query string) ([]domain.Candidate, error)
}

// ExistenceChecker reports whether a candidate's resource is reachable.
// A non-nil error means the check itself could not be completed.
type ExistenceChecker interface {
	Exists(ctx context.Context, candidate domain.Candidate) (bool, error)
}

// PageInspection holds the text sections of a candidate used for relevance scoring
type PageInspection struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Headings    []string `json:"headings,omitempty"`
	Domain      string   `json:"domain,omitempty"`
}

// PageInspector fetches a candidate's page or metadata record and extracts its text sections
type PageInspector interface {
	Inspect(ctx context.Context, candidate domain.Candidate) (*PageInspection, error)
}

// ScriptGenerator produces a script directly, without going through the messaging channel
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, prompt string) (string, error)
}

// RelevanceJudge decides whether a generated script actually covers the requested topic
type RelevanceJudge interface {
	IsRelevant(ctx context.Context, topic, script string) (bool, error)
}

// AgendaSource fetches candidate headlines for the news agenda
type AgendaSource interface {
	Name() string
	FetchAgenda(ctx context.Context) ([]domain.AgendaItem, error)
}

// AgendaSnapshotStore persists the current agenda between process restarts
type AgendaSnapshotStore interface {
	Save(ctx context.Context, items []domain.AgendaItem) error
	Load(ctx context.Context) ([]domain.AgendaItem, error)
}
