package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// maxSpeechBytes caps a synthesized clip. A minute of 24 kHz mono PCM is
// under 3 MiB.
const maxSpeechBytes = 32 << 20

// SupportsMedia is false for OpenAI-compatible endpoints that only serve
// chat completions.
func (p *OpenAIProvider) SupportsMedia() bool { return p.media }

func (p *OpenAIProvider) GenerateImage(ctx context.Context, req ImageRequest) (*Media, error) {
	if !p.media {
		return nil, unsupportedMedia(p)
	}

	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          p.imageModel,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no image in OpenAI response")}
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("decode image: %w", err)}
	}

	return &Media{MIMEType: "image/png", Data: data, Model: p.imageModel}, nil
}

func (p *OpenAIProvider) GenerateSpeech(ctx context.Context, req SpeechRequest) (*Media, error) {
	if !p.media {
		return nil, unsupportedMedia(p)
	}

	voice := p.voice
	if req.Voice != "" {
		voice = req.Voice
	}

	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.speechModel),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	defer resp.Close()

	data, err := io.ReadAll(io.LimitReader(resp, maxSpeechBytes))
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("read speech: %w", err)}
	}
	if len(data) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("empty speech response")}
	}

	return &Media{MIMEType: MIMETypePCM, Data: data, Model: p.speechModel}, nil
}
