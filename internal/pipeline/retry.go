package pipeline

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dgallion1/filingsight/internal/analysis"
)

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// MaxRetries is the default number of generation attempts.
const MaxRetries = 3

// retryOptions retries only transient generation errors, waiting per backoff.
func retryOptions(ctx context.Context, attempts int, backoff func(int) time.Duration, log *slog.Logger) []retry.Option {
	if attempts < 1 {
		attempts = 1
	}
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.RetryIf(analysis.IsRetryable),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return backoff(int(n))
		}),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("retryable generation error", "attempt", n, "error", err)
		}),
	}
}
