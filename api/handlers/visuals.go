// ABOUTME: Visuals handler finds video and article links for a topic or script
// ABOUTME: Returns the links with the origin and fallback level that produced them

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"newsdesk-api/core/visuals"
)

// VisualsFinder finds links for a topic and optional script
type VisualsFinder interface {
	Find(ctx context.Context, topic, script string) visuals.Visuals
}

// VisualsHandler handles visuals lookups
type VisualsHandler struct {
	finder VisualsFinder
}

// NewVisualsHandler creates a new visuals handler
func NewVisualsHandler(finder VisualsFinder) *VisualsHandler {
	return &VisualsHandler{finder: finder}
}

// RegisterRoutes registers visuals routes
func (h *VisualsHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "findVisuals",
		Method:      http.MethodPost,
		Path:        "/visuals",
		Summary:     "Find visuals for a script",
		Description: "Finds relevant YouTube videos and news articles for a topic, preferring the script text when given",
		Tags:        []string{"Visuals"},
	}, h.FindVisuals)
}

// FindVisualsInput defines the input for a visuals lookup
type FindVisualsInput struct {
	Body struct {
		Topic  string `json:"topic" minLength:"1" doc:"Topic the visuals should cover"`
		Script string `json:"script,omitempty" doc:"Script text; used as the search text when long enough"`
	}
}

// FindVisualsOutput defines the output for a visuals lookup
type FindVisualsOutput struct {
	Body visuals.Visuals
}

// FindVisuals handles the POST /visuals endpoint
func (h *VisualsHandler) FindVisuals(ctx context.Context, input *FindVisualsInput) (*FindVisualsOutput, error) {
	if strings.TrimSpace(input.Body.Topic) == "" {
		return nil, huma.Error400BadRequest("topic is required")
	}

	found := h.finder.Find(ctx, input.Body.Topic, input.Body.Script)
	if err := ctx.Err(); err != nil {
		return nil, toHumaError(err)
	}
	return &FindVisualsOutput{Body: found}, nil
}
