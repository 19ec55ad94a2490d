// Package evasion holds the state rules of the runaway "No" button: where it
// jumps to, how much the "Yes" button grows, when "No" gives up and what it
// says when no generated text is available.
package evasion

import (
	"math"
	"math/rand/v2"
)

const (
	// MaxNoClicks is the number of "No" clicks after which the button is gone.
	MaxNoClicks = 5

	// YesScaleStep is the factor the "Yes" button grows by per "No" click.
	YesScaleStep = 1.2

	MinSpeedMultiplier = 0.5
	MaxSpeedMultiplier = 1.5

	topMargin       = 50
	leftMargin      = 50
	verticalSlack   = 150
	horizontalSlack = 200
)

var fallbackTexts = []string{
	"Are you sure?",
	"Really??",
	"Think again!",
	"You're breaking my heart :(",
	"Last chance!",
}

// Viewport is the recipient's browser window size in CSS pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Position is the absolute placement of the "No" button.
type Position struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// InitialPosition places the button below and right of the centre.
func InitialPosition(v Viewport) Position {
	return Position{Top: v.Height * 0.6, Left: v.Width/2 + 100}
}

// NextPosition picks a uniformly random spot inside the viewport minus
// margins. Spans shrink to zero on viewports smaller than the margins.
func NextPosition(v Viewport, rnd *rand.Rand) Position {
	return Position{
		Top:  rnd.Float64()*math.Max(v.Height-verticalSlack, 0) + topMargin,
		Left: rnd.Float64()*math.Max(v.Width-horizontalSlack, 0) + leftMargin,
	}
}

// YesScale is the "Yes" button scale after clicks "No" clicks.
func YesScale(clicks int) float64 {
	if clicks <= 0 {
		return 1
	}
	return math.Pow(YesScaleStep, float64(clicks))
}

// NoVisible reports whether the "No" button is still shown after clicks.
func NoVisible(clicks int) bool {
	return clicks < MaxNoClicks
}

// FallbackText returns the canned text for the n-th (zero based) refusal.
func FallbackText(n int) string {
	if n < 0 {
		n = 0
	}
	return fallbackTexts[n%len(fallbackTexts)]
}

// FallbackTexts returns a copy of the canned texts, in order.
func FallbackTexts() []string {
	return append([]string(nil), fallbackTexts...)
}

// ClampSpeed bounds an animation speed multiplier to [0.5, 1.5].
// NaN becomes the neutral 1.
func ClampSpeed(m float64) float64 {
	if math.IsNaN(m) {
		return 1
	}
	return math.Min(math.Max(m, MinSpeedMultiplier), MaxSpeedMultiplier)
}
