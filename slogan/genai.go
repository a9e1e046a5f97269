package slogan

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-3-flash-preview"

// GenAI generates slogans with Google's Gemini API.
type GenAI struct {
	client *genai.Client
	model  string
}

// NewGenAI creates a Gemini-backed Generator.
func NewGenAI(ctx context.Context, apiKey, model string) (*GenAI, error) {
	if apiKey == "" {
		return nil, errors.New("slogan: GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("slogan: create GenAI client: %w", err)
	}
	return &GenAI{client: client, model: model}, nil
}

// Generate sends the slogan prompt for company and title and returns the
// raw response text.
func (g *GenAI) Generate(ctx context.Context, company, title string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(company, title)), nil)
	if err != nil {
		return "", fmt.Errorf("slogan: generate content: %w", err)
	}
	if resp == nil {
		return "", errors.New("slogan: empty response")
	}
	return resp.Text(), nil
}

// Model returns the configured model name.
func (g *GenAI) Model() string {
	return g.model
}
