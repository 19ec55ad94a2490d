package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetter(t *testing.T) {
	req, err := Letter(LetterInput{RecipientName: "Juliet", Keywords: "balconies, roses"})
	require.NoError(t, err)

	assert.Contains(t, req.Prompt, "for a person named Juliet.")
	assert.Contains(t, req.Prompt, "tone of the letter: balconies, roses.")
	assert.Contains(t, req.Prompt, `"Will you marry me?"`)
	assert.Contains(t, req.Prompt, "Do not sign the letter.")
	assert.Empty(t, req.System)
	require.Len(t, req.Fields, 1)
	assert.Equal(t, "letter", req.Fields[0].Name)
}

func TestLetter_NoHTMLEscaping(t *testing.T) {
	req, err := Letter(LetterInput{RecipientName: "Ann & Bob", Keywords: `"us" <3`})
	require.NoError(t, err)

	assert.Contains(t, req.Prompt, "Ann & Bob")
	assert.Contains(t, req.Prompt, `"us" <3`)
}

func TestPersuasion(t *testing.T) {
	req, err := Persuasion(PersuasionInput{NoButtonClicks: 3, TimeOnPage: 12.6, PreviousText: "Really??"})
	require.NoError(t, err)

	assert.Contains(t, req.Prompt, "tried 3 time(s)")
	assert.Contains(t, req.Prompt, "13 second(s)")
	assert.Contains(t, req.Prompt, `currently says: "Really??"`)
	assert.Contains(t, req.Prompt, "at most 6 words")
	assert.Contains(t, req.Prompt, "between 0.5 and 1.5")
	assert.NotEmpty(t, req.System)
	require.Len(t, req.Fields, 2)
	assert.Equal(t, "animationSpeedMultiplier", req.Fields[1].Name)
}

func TestPersuasion_NoPreviousText(t *testing.T) {
	req, err := Persuasion(PersuasionInput{NoButtonClicks: 1})
	require.NoError(t, err)

	assert.NotContains(t, req.Prompt, "currently says")
}
