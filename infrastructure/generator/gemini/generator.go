// ABOUTME: Gemini-backed direct script generator and topic relevance judge
// ABOUTME: Used when the messaging channel cannot produce a script within its attempt budget

package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"
	"newsdesk-api/core/interfaces"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.5-flash"

const (
	judgeExcerptRunes = 1500

	scriptInstruction = `You are the script writer for a Pakistani television news bulletin.
Write the complete script in Urdu, ready for the anchor to read aloud, 5 to 10 minutes long.
Structure it as: an opening that states the news, the background, the views of experts and officials, what happens next, and a short closing line.
Keep a factual, analytical journalistic tone. Do not add headings in English, stage directions, or commentary about the script itself.`

	judgePromptTemplate = `You check whether a news script covers a requested topic.
Topic: %s

Script:
%s

Answer with a single word: YES if the script is about the topic, NO otherwise.`
)

// ErrEmptyResponse is returned when the model produced no text
var ErrEmptyResponse = errors.New("gemini returned no text")

// Generator calls the Gemini API through the genai SDK
type Generator struct {
	client *genai.Client
	model  string
	logger interfaces.Logger
}

type settings struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Generator
type Option func(*settings)

// WithModel overrides the model name
func WithModel(model string) Option {
	return func(s *settings) {
		if model != "" {
			s.model = model
		}
	}
}

// WithBaseURL points the SDK at a different endpoint
func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		s.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used by the SDK
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) {
		s.httpClient = c
	}
}

// NewGenerator creates a Gemini generator
func NewGenerator(ctx context.Context, apiKey string, logger interfaces.Logger, opts ...Option) (*Generator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	s := settings{model: DefaultModel}
	for _, opt := range opts {
		opt(&s)
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: s.httpClient,
	}
	if s.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: s.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Generator{client: client, model: s.model, logger: logger}, nil
}

// GenerateScript asks the model for a broadcast script about prompt.
// The script-writing instructions travel as the system instruction.
func (g *Generator) GenerateScript(ctx context.Context, prompt string) (string, error) {
	text, err := g.generate(ctx, prompt, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(scriptInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", err
	}

	if g.logger != nil {
		g.logger.Info("Direct script generated", map[string]interface{}{
			"model":  g.model,
			"length": utf8.RuneCountInString(text),
		})
	}
	return text, nil
}

// IsRelevant asks the model whether script covers topic
func (g *Generator) IsRelevant(ctx context.Context, topic, script string) (bool, error) {
	text, err := g.generate(ctx, JudgePrompt(topic, script), nil)
	if err != nil {
		return false, err
	}
	return ParseVerdict(text)
}

func (g *Generator) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// JudgePrompt builds the yes/no relevance question, trimming long scripts
func JudgePrompt(topic, script string) string {
	script = strings.TrimSpace(script)
	if utf8.RuneCountInString(script) > judgeExcerptRunes {
		script = string([]rune(script)[:judgeExcerptRunes])
	}
	return fmt.Sprintf(judgePromptTemplate, strings.TrimSpace(topic), script)
}

// ParseVerdict reads a YES/NO answer. Anything else is an error so the caller can decide.
func ParseVerdict(answer string) (bool, error) {
	word := strings.ToUpper(strings.TrimSpace(answer))
	word = strings.TrimLeft(word, "*\"'` ")
	switch {
	case strings.HasPrefix(word, "YES"):
		return true, nil
	case strings.HasPrefix(word, "NO"):
		return false, nil
	default:
		return false, fmt.Errorf("unrecognized relevance verdict %q", answer)
	}
}
