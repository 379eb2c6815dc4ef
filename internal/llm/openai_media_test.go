package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestOpenAIProvider_GenerateImage(t *testing.T) {
	png := []byte("\x89PNG fake")
	var got map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"created": 1,
			"data": []map[string]any{
				{"b64_json": base64.StdEncoding.EncodeToString(png)},
			},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	media, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "photosynthesis"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if media.MIMEType != "image/png" {
		t.Fatalf("mime = %q", media.MIMEType)
	}
	if string(media.Data) != string(png) {
		t.Fatalf("data = %q", media.Data)
	}
	if got["model"] != "dall-e-3" || got["response_format"] != "b64_json" || got["prompt"] != "photosynthesis" {
		t.Fatalf("unexpected request body: %v", got)
	}
}

func TestOpenAIProvider_GenerateImageEmpty(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"created": 1, "data": []any{}})
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "x"})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestOpenAIProvider_GenerateSpeech(t *testing.T) {
	pcm := []byte{0x01, 0x00, 0xff, 0x7f}
	var got map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(pcm)
	}

	p := newTestOpenAIProvider(t, handler)
	media, err := p.GenerateSpeech(context.Background(), SpeechRequest{Text: "hello", Voice: "nova"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if media.MIMEType != MIMETypePCM {
		t.Fatalf("mime = %q", media.MIMEType)
	}
	if string(media.Data) != string(pcm) {
		t.Fatalf("data = %v", media.Data)
	}
	if got["voice"] != "nova" || got["response_format"] != "pcm" || got["input"] != "hello" {
		t.Fatalf("unexpected request body: %v", got)
	}
}

func TestOpenAIProvider_GenerateSpeechRateLimit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "slow down", "type": "rate_limit"},
		})
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.GenerateSpeech(context.Background(), SpeechRequest{Text: "hi"})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
}
