package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/quizwise/internal/logger"
	"github.com/abhisek/quizwise/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event
// and mirrors a summary line to the structured logger.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	log       *logger.Logger
}

// WithLogging wraps a Provider with event logging. eventRepo may be nil,
// in which case only the structured log line is written.
func WithLogging(p Provider, providerName string, repo store.EventRepo, log *logger.Logger) Provider {
	return &LoggingProvider{
		inner:     p,
		provider:  providerName,
		eventRepo: repo,
		log:       logger.OrNop(log).With("component", "llm", "provider", providerName),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	l.record(ctx, data)
	return resp, err
}

func (l *LoggingProvider) GenerateImage(ctx context.Context, req ImageRequest) (*Media, error) {
	m := MediaOf(l.inner)
	if m == nil {
		return nil, unsupportedMedia(l.inner)
	}
	start := time.Now()
	media, err := m.GenerateImage(ctx, req)
	l.record(ctx, mediaEvent(ctx, l, "[image]\n"+req.Prompt, media, err, start))
	return media, err
}

func (l *LoggingProvider) GenerateSpeech(ctx context.Context, req SpeechRequest) (*Media, error) {
	m := MediaOf(l.inner)
	if m == nil {
		return nil, unsupportedMedia(l.inner)
	}
	start := time.Now()
	media, err := m.GenerateSpeech(ctx, req)
	l.record(ctx, mediaEvent(ctx, l, "[speech]\n"+req.Text, media, err, start))
	return media, err
}

// SupportsMedia reports whether the wrapped provider can generate media.
func (l *LoggingProvider) SupportsMedia() bool { return supportsMedia(l.inner) }

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) record(ctx context.Context, data store.LLMRequestEventData) {
	kv := []any{
		"purpose", data.Purpose,
		"model", data.Model,
		"latency_ms", data.LatencyMs,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
	}
	if data.Success {
		l.log.Debug("llm request", kv...)
	} else {
		l.log.Warn("llm request failed", append(kv, "error", data.ErrorMessage)...)
	}

	if l.eventRepo == nil {
		return
	}
	// Log the event but don't fail the request if logging fails. The
	// request context may already be cancelled, so use a fresh one.
	ctx = context.WithoutCancel(ctx)
	if err := l.eventRepo.AppendLLMRequest(ctx, data); err != nil {
		l.log.Warn("failed to record LLM request event", "error", err)
	}
}

func mediaEvent(ctx context.Context, l *LoggingProvider, request string, media *Media, err error, start time.Time) store.LLMRequestEventData {
	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: request,
	}
	if media != nil {
		if media.Model != "" {
			data.Model = media.Model
		}
		data.ResponseBody = fmt.Sprintf("[%s, %d bytes]", media.MIMEType, len(media.Data))
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	return data
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(schemaDef)
			b.WriteString("\n")
		}
	}

	return b.String()
}
