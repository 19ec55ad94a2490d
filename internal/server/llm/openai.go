package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIGenerator calls an OpenAI-compatible chat completions endpoint in
// JSON object mode.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model, baseURL string) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{client: openai.NewClientWithConfig(cfg), model: model}
}

func (g *OpenAIGenerator) GenerateJSON(ctx context.Context, req Request, out any) error {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt + "\n\n" + describeFields(req.Fields),
	})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:          g.model,
		Messages:       messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return classifyStatus(apiErr.HTTPStatusCode, fmt.Errorf("openai: %w", err))
		}
		return NewTransientError(fmt.Errorf("openai: %w", err))
	}
	if len(resp.Choices) == 0 {
		return NewFatalError(ErrEmptyResponse)
	}

	return decode(resp.Choices[0].Message.Content, out)
}

// describeFields spells out the JSON shape, since JSON object mode does not
// take a schema.
func describeFields(fields []Field) string {
	var b strings.Builder
	b.WriteString("Respond with a JSON object with these fields:")
	for _, f := range fields {
		fmt.Fprintf(&b, "\n- %q (%s): %s", f.Name, f.Type, f.Description)
	}
	return b.String()
}
