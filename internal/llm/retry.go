package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with exponential backoff and
// ±20% jitter. Invalid responses get at most one extra attempt.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		lastErr     error
		sawInvalid  bool
		invalidResp *ErrInvalidResponse
	)

	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		resp, err := r.attempt(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !Retryable(err) {
			return nil, err
		}
		if errors.As(err, &invalidResp) {
			if sawInvalid {
				return nil, err
			}
			sawInvalid = true
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		timer := time.NewTimer(r.backoff(attempt, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}

// attempt runs one inner call under its own deadline. Running out of that
// deadline while ctx is still live counts as a transient outage.
func (r *RetryProvider) attempt(ctx context.Context, req Request) (*Response, error) {
	if r.config.AttemptTimeout <= 0 {
		return r.inner.Generate(ctx, req)
	}
	actx, cancel := context.WithTimeout(ctx, r.config.AttemptTimeout)
	defer cancel()

	resp, err := r.inner.Generate(actx, req)
	if err != nil && ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("no response within %s", r.config.AttemptTimeout)}
	}
	return resp, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.config.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}
