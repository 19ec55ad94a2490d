package services

import (
	"context"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/evasion"
	"github.com/dmitrijs2005/heartlink/internal/logging"
	"github.com/dmitrijs2005/heartlink/internal/server/metrics"
	"github.com/dmitrijs2005/heartlink/internal/server/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testViewport = evasion.Viewport{Width: 1280, Height: 800}

func TestPersuasionService_Persuade_Generated(t *testing.T) {
	gen := &fakeGenerator{out: `{"newText":" Pretty please? ","animationSpeedMultiplier":1.2}`}
	limiter := &fakeLimiter{allow: true}
	svc := NewPersuasionService(gen, limiter, metrics.New(), logging.NopLogger{})

	res, err := svc.Persuade(context.Background(), "10.0.0.1", PersuadeInput{
		NoButtonClicks: 2,
		TimeOnPage:     12.5,
		PreviousText:   "Are you sure?",
		Viewport:       testViewport,
	})
	require.NoError(t, err)

	assert.Equal(t, "Pretty please?", res.NewText)
	assert.InDelta(t, 1.2, res.AnimationSpeedMultiplier, 1e-9)
	assert.False(t, res.Fallback)
	assert.InDelta(t, 1.44, res.YesScale, 1e-9)
	assert.True(t, res.NoVisible)
	assert.Equal(t, []string{"10.0.0.1"}, limiter.keys)

	require.Len(t, gen.calls, 1)
	assert.Contains(t, gen.calls[0].Prompt, "Are you sure?")
}

func TestPersuasionService_Persuade_ClampsSpeed(t *testing.T) {
	gen := &fakeGenerator{out: `{"newText":"Run!","animationSpeedMultiplier":9}`}
	svc := NewPersuasionService(gen, ratelimit.Nop{}, nil, logging.NopLogger{})

	res, err := svc.Persuade(context.Background(), "k", PersuadeInput{NoButtonClicks: 1, Viewport: testViewport})
	require.NoError(t, err)
	assert.Equal(t, evasion.MaxSpeedMultiplier, res.AnimationSpeedMultiplier)
}

func TestPersuasionService_Persuade_Fallback(t *testing.T) {
	tests := []struct {
		name    string
		gen     *fakeGenerator
		limiter *fakeLimiter
		calls   int
	}{
		{"model error", &fakeGenerator{err: errBoom}, &fakeLimiter{allow: true}, 1},
		{"empty text", &fakeGenerator{out: `{"newText":"  ","animationSpeedMultiplier":1.4}`}, &fakeLimiter{allow: true}, 1},
		{"rate limited", &fakeGenerator{out: `{"newText":"x"}`}, &fakeLimiter{allow: false}, 0},
		{"text too long", &fakeGenerator{out: `{"newText":"` + strings.Repeat("please ", 20) + `"}`}, &fakeLimiter{allow: true}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPersuasionService(tt.gen, tt.limiter, metrics.New(), logging.NopLogger{})

			res, err := svc.Persuade(context.Background(), "k", PersuadeInput{NoButtonClicks: 3, TimeOnPage: 4, Viewport: testViewport})
			require.NoError(t, err)
			assert.True(t, res.Fallback)
			assert.Equal(t, evasion.FallbackText(2), res.NewText)
			assert.Equal(t, 1.0, res.AnimationSpeedMultiplier)
			assert.Len(t, tt.gen.calls, tt.calls)
		})
	}
}

func TestPersuasionService_Persuade_LimiterDownStillGenerates(t *testing.T) {
	gen := &fakeGenerator{out: `{"newText":"Pretty please?","animationSpeedMultiplier":1.3}`}
	svc := NewPersuasionService(gen, &fakeLimiter{allow: true, err: errBoom}, metrics.New(), logging.NopLogger{})

	res, err := svc.Persuade(context.Background(), "k", PersuadeInput{NoButtonClicks: 1, Viewport: testViewport})
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, "Pretty please?", res.NewText)
	assert.Len(t, gen.calls, 1)
}

func TestPersuasionService_Persuade_MissingSpeedIsNeutral(t *testing.T) {
	gen := &fakeGenerator{out: `{"newText":"Hmm?"}`}
	svc := NewPersuasionService(gen, ratelimit.Nop{}, nil, logging.NopLogger{})

	res, err := svc.Persuade(context.Background(), "k", PersuadeInput{NoButtonClicks: 1, Viewport: testViewport})
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, 1.0, res.AnimationSpeedMultiplier)
}

func TestPersuasionService_Persuade_OutputIsAcceptedAsNextInput(t *testing.T) {
	long := strings.Repeat("please ", 20)
	gen := &fakeGenerator{out: `{"newText":"` + long + `","animationSpeedMultiplier":1}`}
	svc := NewPersuasionService(gen, ratelimit.Nop{}, nil, logging.NopLogger{})
	ctx := context.Background()

	first, err := svc.Persuade(ctx, "k", PersuadeInput{NoButtonClicks: 1, Viewport: testViewport})
	require.NoError(t, err)
	assert.True(t, first.Fallback)
	assert.LessOrEqual(t, utf8.RuneCountInString(first.NewText), MaxPreviousTextLength)

	_, err = svc.Persuade(ctx, "k", PersuadeInput{NoButtonClicks: 2, PreviousText: first.NewText, Viewport: testViewport})
	require.NoError(t, err)
}

func TestPersuasionService_Persuade_LastClickHidesNo(t *testing.T) {
	svc := NewPersuasionService(&fakeGenerator{err: errBoom}, ratelimit.Nop{}, nil, logging.NopLogger{})

	res, err := svc.Persuade(context.Background(), "k", PersuadeInput{NoButtonClicks: evasion.MaxNoClicks, Viewport: testViewport})
	require.NoError(t, err)
	assert.False(t, res.NoVisible)
	assert.Equal(t, evasion.FallbackText(evasion.MaxNoClicks-1), res.NewText)
}

func TestPersuasionService_Persuade_PositionInsideViewport(t *testing.T) {
	svc := NewPersuasionService(&fakeGenerator{err: errBoom}, ratelimit.Nop{}, nil, logging.NopLogger{})

	for i := 0; i < 50; i++ {
		res, err := svc.Persuade(context.Background(), "k", PersuadeInput{NoButtonClicks: 1, Viewport: testViewport})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Position.Top, 50.0)
		assert.LessOrEqual(t, res.Position.Top, testViewport.Height-100)
		assert.GreaterOrEqual(t, res.Position.Left, 50.0)
		assert.LessOrEqual(t, res.Position.Left, testViewport.Width-150)
	}
}

func TestPersuasionService_Persuade_Validation(t *testing.T) {
	gen := &fakeGenerator{}
	svc := NewPersuasionService(gen, ratelimit.Nop{}, nil, logging.NopLogger{})

	tests := []struct {
		name string
		in   PersuadeInput
	}{
		{"zero clicks", PersuadeInput{NoButtonClicks: 0}},
		{"negative time", PersuadeInput{NoButtonClicks: 1, TimeOnPage: -1}},
		{"nan time", PersuadeInput{NoButtonClicks: 1, TimeOnPage: math.NaN()}},
		{"long text", PersuadeInput{NoButtonClicks: 1, PreviousText: strings.Repeat("ж", MaxPreviousTextLength+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Persuade(context.Background(), "k", tt.in)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
	assert.Empty(t, gen.calls)
}
