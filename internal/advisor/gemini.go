package advisor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Gemini asks a Gemini model through the GenAI SDK.
type Gemini struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string
	Client  *http.Client
}

// NewGemini creates a Gemini advisor with optional proxy support.
func NewGemini(apiKey, model string, timeout time.Duration, proxyURL string) *Gemini {
	return &Gemini{
		APIKey: apiKey,
		Model:  model,
		Client: newHTTPClient(timeout, proxyURL),
	}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Advise(ctx context.Context, req Request) (string, error) {
	if g.APIKey == "" {
		return "", ErrNoAPIKey
	}
	model := g.Model
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}

	cc := &genai.ClientConfig{
		APIKey:     g.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.Client,
	}
	if g.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.4)),
	}
	result, err := client.Models.GenerateContent(ctx, model, genai.Text(BuildPrompt(req)), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return strings.TrimSpace(result.Text()), nil
}
