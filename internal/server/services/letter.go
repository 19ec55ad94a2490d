package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/logging"
	"github.com/dmitrijs2005/heartlink/internal/server/llm"
	"github.com/dmitrijs2005/heartlink/internal/server/metrics"
	"github.com/dmitrijs2005/heartlink/internal/server/prompts"
)

// ErrLetterUnavailable is shown to users when no letter could be written.
var ErrLetterUnavailable = errors.New("failed to generate the letter, please try again")

// LetterWriter writes proposal letters.
type LetterWriter interface {
	Generate(ctx context.Context, recipientName, keywords string) (string, error)
}

type LetterService struct {
	gen     llm.Generator
	metrics *metrics.Metrics
	logger  logging.Logger
}

func NewLetterService(gen llm.Generator, m *metrics.Metrics, logger logging.Logger) *LetterService {
	return &LetterService{gen: gen, metrics: m, logger: logger.With("module", "letters")}
}

// Generate asks the model for a letter to recipientName inspired by keywords.
// Model failures are logged and reported as ErrLetterUnavailable.
func (s *LetterService) Generate(ctx context.Context, recipientName, keywords string) (string, error) {
	recipientName = strings.TrimSpace(recipientName)
	keywords = strings.TrimSpace(keywords)
	if recipientName == "" || keywords == "" {
		return "", fmt.Errorf("%w: recipient name and keywords are required", common.ErrorValidation)
	}

	req, err := prompts.Letter(prompts.LetterInput{RecipientName: recipientName, Keywords: keywords})
	if err != nil {
		return "", err
	}

	var out prompts.LetterOutput
	err = s.gen.GenerateJSON(ctx, req, &out)
	if err == nil && strings.TrimSpace(out.Letter) == "" {
		err = llm.ErrEmptyResponse
	}
	s.metrics.LLMRequest(metrics.KindLetter, err)
	if err != nil {
		s.logger.Error(ctx, "letter generation failed", "error", err)
		return "", ErrLetterUnavailable
	}

	return strings.TrimSpace(out.Letter), nil
}
