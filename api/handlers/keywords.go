// ABOUTME: Keywords handler exposes the relevance terms derived from a text
// ABOUTME: Lets operators see what discovery will search and validate against

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"newsdesk-api/core/domain"
)

// KeywordExtractor derives relevance terms from text
type KeywordExtractor interface {
	Extract(text string) domain.KeywordSet
}

// KeywordsHandler handles keyword extraction
type KeywordsHandler struct {
	extractor KeywordExtractor
}

// NewKeywordsHandler creates a new keywords handler
func NewKeywordsHandler(extractor KeywordExtractor) *KeywordsHandler {
	return &KeywordsHandler{extractor: extractor}
}

// RegisterRoutes registers keyword routes
func (h *KeywordsHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "extractKeywords",
		Method:      http.MethodPost,
		Path:        "/keywords",
		Summary:     "Extract relevance keywords",
		Tags:        []string{"Discovery"},
	}, h.ExtractKeywords)
}

// ExtractKeywordsInput defines the input for keyword extraction
type ExtractKeywordsInput struct {
	Body struct {
		Text string `json:"text" minLength:"1" doc:"Topic or script text"`
	}
}

// ExtractKeywordsOutput defines the output for keyword extraction
type ExtractKeywordsOutput struct {
	Body struct {
		Keywords []string `json:"keywords" doc:"Lowercase relevance terms in order"`
	}
}

// ExtractKeywords handles the POST /keywords endpoint
func (h *KeywordsHandler) ExtractKeywords(ctx context.Context, input *ExtractKeywordsInput) (*ExtractKeywordsOutput, error) {
	output := &ExtractKeywordsOutput{}
	output.Body.Keywords = []string(h.extractor.Extract(input.Body.Text))
	if output.Body.Keywords == nil {
		output.Body.Keywords = []string{}
	}
	return output, nil
}
