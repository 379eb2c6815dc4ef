package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

func (p *GeminiProvider) GenerateImage(ctx context.Context, req ImageRequest) (*Media, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	result, err := p.client.Models.GenerateContent(ctx, p.imageModel, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	blob := firstInlineData(result, "image/")
	if blob == nil {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no image in Gemini response")}
	}

	return &Media{MIMEType: blob.MIMEType, Data: blob.Data, Model: p.imageModel}, nil
}

func (p *GeminiProvider) GenerateSpeech(ctx context.Context, req SpeechRequest) (*Media, error) {
	voice := p.voice
	if req.Voice != "" {
		voice = req.Voice
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	result, err := p.client.Models.GenerateContent(ctx, p.speechModel, genai.Text(req.Text), config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	blob := firstInlineData(result, "audio/")
	if blob == nil {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no audio in Gemini response")}
	}

	// Gemini TTS returns headerless 24 kHz s16le PCM.
	return &Media{MIMEType: MIMETypePCM, Data: blob.Data, Model: p.speechModel}, nil
}

// firstInlineData returns the first inline blob of the first candidate whose
// MIME type starts with prefix.
func firstInlineData(result *genai.GenerateContentResponse, prefix string) *genai.Blob {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		if strings.HasPrefix(part.InlineData.MIMEType, prefix) {
			return part.InlineData
		}
	}
	return nil
}
