package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// generateContent is a seam for testing client.Models.GenerateContent.
var generateContent = func(ctx context.Context, c *genai.Client, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := c.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GeminiGenerator calls the Gemini API with a JSON response schema.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model, baseURL string) (*GeminiGenerator, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) GenerateJSON(ctx context.Context, req Request, out any) error {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiSchema(req.Fields),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}

	text, err := generateContent(ctx, g.client, g.model, contents, cfg)
	if err != nil {
		// The SDK does not expose a stable error type across versions, so
		// failures of the call itself are treated as transient.
		return NewTransientError(fmt.Errorf("gemini: %w", err))
	}

	return decode(text, out)
}

func geminiSchema(fields []Field) *genai.Schema {
	s := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(fields)),
	}
	for _, f := range fields {
		t := genai.TypeString
		if f.Type == FieldNumber {
			t = genai.TypeNumber
		}
		s.Properties[f.Name] = &genai.Schema{Type: t, Description: f.Description}
		s.Required = append(s.Required, f.Name)
	}
	return s
}
