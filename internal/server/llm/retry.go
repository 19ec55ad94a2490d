package llm

import (
	"context"
	"time"

	"github.com/dmitrijs2005/heartlink/internal/logging"
)

// RetryConfig holds retry configuration for LLM requests.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BackoffBase is the initial backoff duration.
	BackoffBase time.Duration

	// BackoffMultiplier is applied to backoff on each retry.
	BackoffMultiplier float64

	// MaxBackoff caps the maximum backoff duration.
	MaxBackoff time.Duration
}

// DefaultRetryConfig is tuned for interactive requests: a visitor is waiting.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       250 * time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        2 * time.Second,
	}
}

// Retrying retries transient failures of the wrapped Generator with
// exponential backoff. Fatal and unclassified errors are returned at once.
type Retrying struct {
	next   Generator
	cfg    RetryConfig
	logger logging.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRetrying(next Generator, cfg RetryConfig, logger logging.Logger) *Retrying {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Retrying{next: next, cfg: cfg, logger: logger, sleep: sleepCtx}
}

func (r *Retrying) GenerateJSON(ctx context.Context, req Request, out any) error {
	backoff := r.cfg.BackoffBase

	var err error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		err = r.next.GenerateJSON(ctx, req, out)
		if err == nil || !IsTransient(err) || attempt == r.cfg.MaxAttempts {
			return err
		}

		r.logger.Warn(ctx, "llm request failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
		if serr := r.sleep(ctx, backoff); serr != nil {
			return err
		}

		backoff = time.Duration(float64(backoff) * r.cfg.BackoffMultiplier)
		if r.cfg.MaxBackoff > 0 && backoff > r.cfg.MaxBackoff {
			backoff = r.cfg.MaxBackoff
		}
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
