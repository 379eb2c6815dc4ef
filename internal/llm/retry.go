package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return retry(ctx, r, func() (*Response, error) {
		return r.inner.Generate(ctx, req)
	})
}

func (r *RetryProvider) GenerateImage(ctx context.Context, req ImageRequest) (*Media, error) {
	m := MediaOf(r.inner)
	if m == nil {
		return nil, unsupportedMedia(r.inner)
	}
	return retry(ctx, r, func() (*Media, error) {
		return m.GenerateImage(ctx, req)
	})
}

func (r *RetryProvider) GenerateSpeech(ctx context.Context, req SpeechRequest) (*Media, error) {
	m := MediaOf(r.inner)
	if m == nil {
		return nil, unsupportedMedia(r.inner)
	}
	return retry(ctx, r, func() (*Media, error) {
		return m.GenerateSpeech(ctx, req)
	})
}

// SupportsMedia reports whether the wrapped provider can generate media.
func (r *RetryProvider) SupportsMedia() bool { return supportsMedia(r.inner) }

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retry runs call until it succeeds, fails with a non-retryable error, or
// the attempt budget is spent.
func retry[T any](ctx context.Context, r *RetryProvider, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	invalidRetried := false

	for attempt := range max(r.config.MaxAttempts, 1) {
		out, err := call()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !r.shouldRetry(err, &invalidRetried) {
			return zero, err
		}

		// Last attempt: don't sleep, just return the error.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(wait):
		}
	}

	return zero, lastErr
}

// shouldRetry determines if an error is retryable.
func (r *RetryProvider) shouldRetry(err error, invalidRetried *bool) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Max tokens is a configuration issue, not transient.
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false
	}

	// So is asking a text-only model for media.
	var noMedia *ErrMediaUnsupported
	if errors.As(err, &noMedia) {
		return false
	}

	// A rejected key won't start working on the next attempt.
	var unauth *ErrUnauthorized
	if errors.As(err, &unauth) {
		return false
	}

	// Invalid response gets one retry.
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	// Rate limit and provider unavailable are retryable.
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}
	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		return true
	}

	// Other errors (network, etc.) are treated as transient.
	return true
}

// backoff computes the wait duration for the given attempt.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	// Respect RetryAfter for rate limits.
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
