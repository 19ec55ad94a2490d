// Package prompts renders the instructions sent to the language model.
package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/dmitrijs2005/heartlink/internal/evasion"
	"github.com/dmitrijs2005/heartlink/internal/server/llm"
)

const letterText = `You are an expert romantic writer. Your task is to write a heartfelt, beautiful, and personalized marriage proposal letter.

The letter is for a person named {{.RecipientName}}.

Use the following keywords and themes to inspire the content and tone of the letter: {{.Keywords}}.

The letter should be deeply personal and romantic. End it with a question like "Will you marry me?". Do not sign the letter. The user will add their own name.
`

const persuasionText = `Someone is being asked "Will you marry me?" on a playful web page and keeps trying to press the "No" button.

They have tried {{.NoButtonClicks}} time(s) and have been on the page for {{printf "%.0f" .TimeOnPage}} second(s).
{{- if .PreviousText}}
The button currently says: "{{.PreviousText}}".
{{- end}}

Write new text for the "No" button: short, playful and affectionate, at most {{.MaxWords}} words, different from the current text. Also pick how fast the button should run away, as a multiplier between {{.MinSpeed}} and {{.MaxSpeed}}: lower when they seem hesitant, higher when they are persistent.
`

var (
	letterTmpl     = template.Must(template.New("letter").Parse(letterText))
	persuasionTmpl = template.Must(template.New("persuasion").Parse(persuasionText))
)

// LetterInput feeds the letter prompt.
type LetterInput struct {
	RecipientName string
	Keywords      string
}

// LetterOutput is the model's answer to the letter prompt.
type LetterOutput struct {
	Letter string `json:"letter"`
}

// LetterFields describes LetterOutput to the model.
var LetterFields = []llm.Field{
	{Name: "letter", Type: llm.FieldString, Description: "The generated proposal letter."},
}

// PersuasionInput feeds the persuasion prompt.
type PersuasionInput struct {
	NoButtonClicks int
	TimeOnPage     float64
	PreviousText   string
}

// PersuasionOutput is the model's answer to the persuasion prompt.
type PersuasionOutput struct {
	NewText                  string  `json:"newText"`
	AnimationSpeedMultiplier float64 `json:"animationSpeedMultiplier"`
}

// PersuasionFields describes PersuasionOutput to the model.
var PersuasionFields = []llm.Field{
	{Name: "newText", Type: llm.FieldString, Description: "The new text for the No button."},
	{Name: "animationSpeedMultiplier", Type: llm.FieldNumber, Description: fmt.Sprintf(
		"How fast the No button moves away, between %v and %v.", evasion.MinSpeedMultiplier, evasion.MaxSpeedMultiplier)},
}

// MaxPersuasionWords bounds the generated button text.
const MaxPersuasionWords = 6

// Letter builds the letter request.
func Letter(in LetterInput) (llm.Request, error) {
	prompt, err := render(letterTmpl, in)
	if err != nil {
		return llm.Request{}, err
	}
	return llm.Request{Prompt: prompt, Fields: LetterFields}, nil
}

// Persuasion builds the No-button request.
func Persuasion(in PersuasionInput) (llm.Request, error) {
	prompt, err := render(persuasionTmpl, struct {
		PersuasionInput
		MaxWords           int
		MinSpeed, MaxSpeed float64
	}{in, MaxPersuasionWords, evasion.MinSpeedMultiplier, evasion.MaxSpeedMultiplier})
	if err != nil {
		return llm.Request{}, err
	}
	return llm.Request{
		System: "You write tiny, kind, funny UI copy. Never be mean or pushy.",
		Prompt: prompt,
		Fields: PersuasionFields,
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}
