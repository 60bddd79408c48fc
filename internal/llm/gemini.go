package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GeminiEndpoint completes prompts with the Gemini API. Each instance owns a
// client bound to exactly one API key.
type GeminiEndpoint struct {
	name        string
	model       string
	temperature float32
	client      *genai.Client
}

// NewGeminiEndpoint binds a Gemini client to apiKey. cfg.Endpoint, when set,
// overrides the API base URL.
func NewGeminiEndpoint(ctx context.Context, name, apiKey string, cfg Config) (*GeminiEndpoint, error) {
	return newGeminiEndpoint(ctx, name, apiKey, cfg, nil)
}

func newGeminiEndpoint(ctx context.Context, name, apiKey string, cfg Config, httpClient *http.Client) (*GeminiEndpoint, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.Endpoint != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiEndpoint{
		name:        name,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		client:      client,
	}, nil
}

func (e *GeminiEndpoint) Name() string  { return e.name }
func (e *GeminiEndpoint) Model() string { return e.model }

func (e *GeminiEndpoint) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(e.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate: %v", ErrUnavailable, err)
	}
	return resp.Text(), nil
}
