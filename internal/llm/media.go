package llm

import (
	"context"
	"fmt"
)

// PCMSampleRate is the sample rate of speech returned by every provider:
// 16-bit signed little-endian mono at 24 kHz.
const PCMSampleRate = 24000

// MIMETypePCM labels raw speech audio returned by GenerateSpeech.
var MIMETypePCM = fmt.Sprintf("audio/L16;rate=%d", PCMSampleRate)

// MediaProvider is implemented by providers that can synthesize images and
// speech in addition to text.
type MediaProvider interface {
	// GenerateImage returns a single image for the prompt.
	GenerateImage(ctx context.Context, req ImageRequest) (*Media, error)

	// GenerateSpeech returns raw PCM audio (see MIMETypePCM) for the text.
	GenerateSpeech(ctx context.Context, req SpeechRequest) (*Media, error)
}

// ImageRequest describes an image to generate.
type ImageRequest struct {
	Prompt string
}

// SpeechRequest describes speech to synthesize.
type SpeechRequest struct {
	Text string

	// Voice overrides the configured voice when set.
	Voice string
}

// Media is a binary payload produced by a model.
type Media struct {
	MIMEType string
	Data     []byte

	// Model is the model that produced the payload.
	Model string
}

// MediaOf returns p's media capability, or nil when p has none.
func MediaOf(p Provider) MediaProvider {
	m, ok := p.(MediaProvider)
	if !ok {
		return nil
	}
	if c, ok := p.(interface{ SupportsMedia() bool }); ok && !c.SupportsMedia() {
		return nil
	}
	return m
}

// supportsMedia reports whether p can serve media calls, looking through
// decorators.
func supportsMedia(p Provider) bool {
	return MediaOf(p) != nil
}

func unsupportedMedia(p Provider) error {
	return &ErrMediaUnsupported{Model: p.ModelID()}
}
