// Package retry provides bounded, randomized exponential backoff for remote
// calls to rate-limited services. Retry policy lives here at the transport
// boundary; pipeline logic never retries on its own.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

// Default retry constants, tuned for rate-limited model and index APIs.
const (
	DefaultMaxAttempts = 6
	DefaultBaseWait    = 1 * time.Second
	DefaultMaxWait     = 60 * time.Second
)

// Config defines the retry behavior.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first
	// (default: 6).
	MaxAttempts int

	// BaseWait is the backoff ceiling before the first retry; the ceiling
	// doubles each attempt (default: 1s).
	BaseWait time.Duration

	// MaxWait caps the backoff ceiling (default: 60s).
	MaxWait time.Duration
}

// DefaultConfig returns a Config with the default bounds.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: DefaultMaxAttempts,
		BaseWait:    DefaultBaseWait,
		MaxWait:     DefaultMaxWait,
	}
}

// wait computes the randomized wait before retry number attempt (0-based):
// a uniform draw from [0, ceiling] where the ceiling grows as BaseWait·2ⁿ
// capped at MaxWait.
func (c Config) wait(attempt int) time.Duration {
	ceiling := c.BaseWait
	for i := 0; i < attempt && ceiling < c.MaxWait; i++ {
		ceiling *= 2
	}
	if ceiling > c.MaxWait {
		ceiling = c.MaxWait
	}
	if ceiling <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(ceiling) + 1))
}

// Do runs fn until it succeeds, the attempt budget is exhausted, or the
// context is canceled. The last error is returned wrapped with the attempt
// count so callers can still classify it with errors.Is.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BaseWait <= 0 {
		cfg.BaseWait = DefaultBaseWait
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultMaxWait
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(cfg.wait(attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return fmt.Errorf("after %d attempts: %w", cfg.MaxAttempts, lastErr)
}
