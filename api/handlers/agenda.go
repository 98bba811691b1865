// ABOUTME: Agenda handler exposes the current news agenda and its refresh
// ABOUTME: Headlines are addressed by 1-based index, matching what the operator sees

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"newsdesk-api/core/domain"
)

// AgendaStore is the agenda state the handler reads and refreshes
type AgendaStore interface {
	AgendaSelector
	Refresh(ctx context.Context) ([]domain.AgendaItem, error)
	Items() []domain.AgendaItem
	UpdatedAt() time.Time
}

// AgendaHandler handles agenda routes
type AgendaHandler struct {
	store AgendaStore
}

// NewAgendaHandler creates a new agenda handler
func NewAgendaHandler(store AgendaStore) *AgendaHandler {
	return &AgendaHandler{store: store}
}

// RegisterRoutes registers agenda routes
func (h *AgendaHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getAgenda",
		Method:      http.MethodGet,
		Path:        "/agenda",
		Summary:     "Get the current agenda",
		Tags:        []string{"Agenda"},
	}, h.GetAgenda)

	huma.Register(api, huma.Operation{
		OperationID: "refreshAgenda",
		Method:      http.MethodPost,
		Path:        "/agenda/refresh",
		Summary:     "Refresh the agenda",
		Description: "Fetches fresh headlines, applies the regional mix, and persists the snapshot",
		Tags:        []string{"Agenda"},
	}, h.RefreshAgenda)

	huma.Register(api, huma.Operation{
		OperationID: "getAgendaItem",
		Method:      http.MethodGet,
		Path:        "/agenda/{index}",
		Summary:     "Get one agenda headline",
		Tags:        []string{"Agenda"},
	}, h.GetAgendaItem)
}

// AgendaOutput lists agenda headlines
type AgendaOutput struct {
	Body struct {
		Items     []domain.AgendaItem `json:"items" doc:"Headlines in display order"`
		UpdatedAt *time.Time          `json:"updatedAt,omitempty" doc:"When the agenda was last refreshed"`
	}
}

// AgendaItemInput addresses one headline
type AgendaItemInput struct {
	Index int `path:"index" minimum:"1" doc:"1-based headline number"`
}

// AgendaItemOutput is one headline
type AgendaItemOutput struct {
	Body domain.AgendaItem
}

// GetAgenda handles the GET /agenda endpoint
func (h *AgendaHandler) GetAgenda(ctx context.Context, _ *struct{}) (*AgendaOutput, error) {
	return h.agendaOutput(h.store.Items()), nil
}

// RefreshAgenda handles the POST /agenda/refresh endpoint
func (h *AgendaHandler) RefreshAgenda(ctx context.Context, _ *struct{}) (*AgendaOutput, error) {
	items, err := h.store.Refresh(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	return h.agendaOutput(items), nil
}

// GetAgendaItem handles the GET /agenda/{index} endpoint
func (h *AgendaHandler) GetAgendaItem(ctx context.Context, input *AgendaItemInput) (*AgendaItemOutput, error) {
	item, err := h.store.Select(ctx, input.Index)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &AgendaItemOutput{Body: item}, nil
}

func (h *AgendaHandler) agendaOutput(items []domain.AgendaItem) *AgendaOutput {
	output := &AgendaOutput{}
	output.Body.Items = items
	if output.Body.Items == nil {
		output.Body.Items = []domain.AgendaItem{}
	}
	if updated := h.store.UpdatedAt(); !updated.IsZero() {
		output.Body.UpdatedAt = &updated
	}
	return output
}
