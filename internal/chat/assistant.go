package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizwise/internal/llm"
	"github.com/abhisek/quizwise/internal/logger"
	"github.com/abhisek/quizwise/internal/media"
)

const systemPrompt = `You are an AI assistant helping users understand a quiz topic.

1. First, provide a helpful and informative text answer to the user's query.
2. Then, determine if an image is required. Only set imageRequired to true if the user explicitly asks for an image (e.g. "show me a picture of...", "can you generate an image of...") or if a visual aid is absolutely necessary to understand the answer. For most questions, this should be false.`

// Responder answers a single chat request.
type Responder interface {
	Respond(ctx context.Context, req Request) (*Reply, error)
}

// Assistant implements Responder with a text model and, when available,
// image and speech models.
type Assistant struct {
	provider llm.Provider
	media    llm.MediaProvider
	log      *logger.Logger

	maxTokens int
}

// NewAssistant creates an Assistant. Media stages degrade to warnings when
// the provider cannot produce media.
func NewAssistant(provider llm.Provider, log *logger.Logger) *Assistant {
	return &Assistant{
		provider:  provider,
		media:     llm.MediaOf(provider),
		log:       logger.OrNop(log).With("component", "chat"),
		maxTokens: 2048,
	}
}

type textOutput struct {
	Response      string `json:"response"`
	ImageRequired bool   `json:"imageRequired"`
}

// Respond runs the text stage, then the image and audio stages
// concurrently. Only a text stage failure is returned as an error.
func (a *Assistant) Respond(ctx context.Context, req Request) (*Reply, error) {
	text, err := a.text(ctx, req)
	if err != nil {
		return nil, &TextError{Err: err}
	}

	reply := &Reply{Response: text.Response}
	var imgErr, audioErr *MediaError

	var g errgroup.Group
	if text.ImageRequired {
		g.Go(func() error {
			reply.Image, imgErr = a.image(ctx, req)
			return nil
		})
	}
	if req.IncludeAudio {
		g.Go(func() error {
			reply.Audio, audioErr = a.audio(ctx, text.Response)
			return nil
		})
	}
	_ = g.Wait()

	for _, e := range []*MediaError{imgErr, audioErr} {
		if e != nil {
			a.log.Warn("chat media stage failed", "stage", e.Stage, "error", e.Err)
			reply.MediaErrors = append(reply.MediaErrors, e)
		}
	}
	return reply, nil
}

func (a *Assistant) text(ctx context.Context, req Request) (*textOutput, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeChat)

	resp, err := a.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("Topic: %s\n\nUser Query: %s", req.Topic, req.Query),
		}},
		Schema:      textResponseSchema,
		MaxTokens:   a.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	var out textOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return nil, errors.New("empty response")
	}
	return &out, nil
}

// ImagePrompt is the prompt sent to the image model for a query.
func ImagePrompt(topic, query string) string {
	return fmt.Sprintf("Generate an image that visually explains the following query about \"%s\": %s", topic, query)
}

func (a *Assistant) image(ctx context.Context, req Request) (string, *MediaError) {
	if a.media == nil {
		return "", &MediaError{Stage: StageImage, Err: &llm.ErrMediaUnsupported{Model: a.provider.ModelID()}}
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeChatImage)

	img, err := a.media.GenerateImage(ctx, llm.ImageRequest{Prompt: ImagePrompt(req.Topic, req.Query)})
	if err != nil {
		return "", &MediaError{Stage: StageImage, Err: err}
	}
	if img == nil || len(img.Data) == 0 {
		return "", &MediaError{Stage: StageImage, Err: errors.New("no image returned")}
	}
	return media.DataURI(img.MIMEType, img.Data), nil
}

func (a *Assistant) audio(ctx context.Context, text string) (string, *MediaError) {
	if a.media == nil {
		return "", &MediaError{Stage: StageAudio, Err: &llm.ErrMediaUnsupported{Model: a.provider.ModelID()}}
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeChatSpeech)

	clip, err := a.media.GenerateSpeech(ctx, llm.SpeechRequest{Text: text})
	if err != nil {
		return "", &MediaError{Stage: StageAudio, Err: err}
	}
	if clip == nil {
		return "", &MediaError{Stage: StageAudio, Err: errors.New("no audio returned")}
	}
	wav, err := media.SpeechToWAV(clip.Data)
	if err != nil {
		return "", &MediaError{Stage: StageAudio, Err: err}
	}
	return media.DataURI(media.MIMETypeWAV, wav), nil
}
