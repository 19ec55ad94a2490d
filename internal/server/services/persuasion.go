package services

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/evasion"
	"github.com/dmitrijs2005/heartlink/internal/logging"
	"github.com/dmitrijs2005/heartlink/internal/server/llm"
	"github.com/dmitrijs2005/heartlink/internal/server/metrics"
	"github.com/dmitrijs2005/heartlink/internal/server/prompts"
	"github.com/dmitrijs2005/heartlink/internal/server/ratelimit"
)

// MaxPreviousTextLength bounds the No-button text a client may send back.
const MaxPreviousTextLength = 100

// PersuadeInput is the recipient's state after another No click.
type PersuadeInput struct {
	NoButtonClicks int
	TimeOnPage     float64
	PreviousText   string
	Viewport       evasion.Viewport
}

// PersuadeResult tells the page how the buttons look after the click.
type PersuadeResult struct {
	NewText                  string
	AnimationSpeedMultiplier float64
	// Fallback is true when NewText came from the canned list.
	Fallback  bool
	YesScale  float64
	NoVisible bool
	Position  evasion.Position
}

type PersuasionService struct {
	gen     llm.Generator
	limiter ratelimit.Limiter
	metrics *metrics.Metrics
	logger  logging.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewPersuasionService(gen llm.Generator, limiter ratelimit.Limiter, m *metrics.Metrics, logger logging.Logger) *PersuasionService {
	return &PersuasionService{
		gen:     gen,
		limiter: limiter,
		metrics: m,
		logger:  logger.With("module", "persuasion"),
		rnd:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Persuade computes the next No-button state. The text comes from the model
// when it is available and within the client's rate budget, and from the
// fallback list otherwise; only invalid input is an error.
func (s *PersuasionService) Persuade(ctx context.Context, clientKey string, in PersuadeInput) (*PersuadeResult, error) {
	if in.NoButtonClicks < 1 {
		return nil, fmt.Errorf("%w: noButtonClicks must be at least 1", common.ErrorValidation)
	}
	if in.TimeOnPage < 0 || math.IsNaN(in.TimeOnPage) || math.IsInf(in.TimeOnPage, 0) {
		return nil, fmt.Errorf("%w: timeOnPage must be a non-negative number", common.ErrorValidation)
	}
	if utf8.RuneCountInString(in.PreviousText) > MaxPreviousTextLength {
		return nil, fmt.Errorf("%w: previousText is too long", common.ErrorValidation)
	}

	res := &PersuadeResult{
		YesScale:  evasion.YesScale(in.NoButtonClicks),
		NoVisible: evasion.NoVisible(in.NoButtonClicks),
		Position:  s.nextPosition(in.Viewport),
	}

	text, speed, ok := s.generate(ctx, clientKey, in)
	if !ok {
		s.metrics.PersuasionFallback()
		text, speed = evasion.FallbackText(in.NoButtonClicks-1), 1
		res.Fallback = true
	}
	res.NewText = text
	res.AnimationSpeedMultiplier = evasion.ClampSpeed(speed)

	return res, nil
}

func (s *PersuasionService) generate(ctx context.Context, clientKey string, in PersuadeInput) (string, float64, bool) {
	allowed, err := s.limiter.Allow(ctx, clientKey)
	if err != nil {
		s.logger.Warn(ctx, "rate limiter unavailable", "error", err)
	}
	if !allowed {
		return "", 0, false
	}

	req, err := prompts.Persuasion(prompts.PersuasionInput{
		NoButtonClicks: in.NoButtonClicks,
		TimeOnPage:     in.TimeOnPage,
		PreviousText:   in.PreviousText,
	})
	if err != nil {
		s.logger.Error(ctx, "persuasion prompt", "error", err)
		return "", 0, false
	}

	var out prompts.PersuasionOutput
	err = s.gen.GenerateJSON(ctx, req, &out)
	s.metrics.LLMRequest(metrics.KindPersuasion, err)
	if err != nil {
		s.logger.Warn(ctx, "persuasion generation failed", "error", err)
		return "", 0, false
	}

	text := strings.TrimSpace(out.NewText)
	if text == "" {
		return "", 0, false
	}
	// The page echoes the text back as previousText on the next click.
	if utf8.RuneCountInString(text) > MaxPreviousTextLength {
		s.logger.Warn(ctx, "persuasion text too long", "runes", utf8.RuneCountInString(text))
		return "", 0, false
	}

	speed := out.AnimationSpeedMultiplier
	if speed == 0 {
		speed = 1
	}
	return text, speed, true
}

func (s *PersuasionService) nextPosition(v evasion.Viewport) evasion.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return evasion.NextPosition(v, s.rnd)
}
