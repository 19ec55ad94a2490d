// Package llm talks to generative-language providers and decodes their
// structured JSON answers.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// FieldType is the JSON type of an output field.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
)

// Field describes one property of the expected JSON object.
type Field struct {
	Name        string
	Type        FieldType
	Description string
}

// Request is a single structured-output call.
type Request struct {
	System string
	Prompt string
	// Fields lists the properties of the JSON object the model must return.
	// All of them are required.
	Fields []Field
}

// Generator produces a JSON object for req and decodes it into out.
type Generator interface {
	GenerateJSON(ctx context.Context, req Request, out any) error
}

// Disabled is the Generator used when no provider is configured.
type Disabled struct{}

func (Disabled) GenerateJSON(context.Context, Request, any) error {
	return NewFatalError(ErrNoProvider)
}

var jsonBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

// extractJSON returns the JSON object contained in text, tolerating a
// markdown code fence or chatter around it.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if m := jsonBlockPattern.FindStringSubmatch(text); len(m) > 1 {
		return m[1]
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}

// decode parses a model answer into out. Unparseable answers are fatal:
// asking again with the same prompt rarely helps.
func decode(text string, out any) error {
	raw := extractJSON(text)
	if raw == "" {
		return NewFatalError(ErrEmptyResponse)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return NewFatalError(fmt.Errorf("decode model output: %w", err))
	}
	return nil
}
