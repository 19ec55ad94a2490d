package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/logging"
)

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Options configures New.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	// Timeout bounds every call, retries included. Zero means no bound.
	Timeout time.Duration
	Retry   RetryConfig
}

// New builds the configured Generator wrapped in retries and a timeout.
// An empty provider or API key yields ErrNoProvider; callers then fall back
// to Disabled.
func New(ctx context.Context, opts Options, logger logging.Logger) (Generator, error) {
	if opts.Provider == "" || opts.APIKey == "" {
		return nil, ErrNoProvider
	}

	var base Generator
	switch strings.ToLower(opts.Provider) {
	case ProviderGemini:
		g, err := NewGeminiGenerator(ctx, opts.APIKey, opts.Model, opts.BaseURL)
		if err != nil {
			return nil, err
		}
		base = g
	case ProviderOpenAI:
		base = NewOpenAIGenerator(opts.APIKey, opts.Model, opts.BaseURL)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}

	var g Generator = NewRetrying(base, opts.Retry, logger.With("module", "llm"))
	if opts.Timeout > 0 {
		g = &timeoutGenerator{next: g, timeout: opts.Timeout}
	}
	return g, nil
}

type timeoutGenerator struct {
	next    Generator
	timeout time.Duration
}

func (t *timeoutGenerator) GenerateJSON(ctx context.Context, req Request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.GenerateJSON(ctx, req, out)
}
