package llm

import (
	"context"
	"time"
)

// TimeoutProvider bounds every call, retries included, by a fixed deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so each call is cancelled after d. A non-positive d
// returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) GenerateImage(ctx context.Context, req ImageRequest) (*Media, error) {
	m := MediaOf(t.inner)
	if m == nil {
		return nil, unsupportedMedia(t.inner)
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return m.GenerateImage(ctx, req)
}

func (t *TimeoutProvider) GenerateSpeech(ctx context.Context, req SpeechRequest) (*Media, error) {
	m := MediaOf(t.inner)
	if m == nil {
		return nil, unsupportedMedia(t.inner)
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return m.GenerateSpeech(ctx, req)
}

// SupportsMedia reports whether the wrapped provider can generate media.
func (t *TimeoutProvider) SupportsMedia() bool { return supportsMedia(t.inner) }

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
