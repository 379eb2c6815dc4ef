package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestWithTimeout_ZeroIsPassThrough(t *testing.T) {
	mock := NewMockProvider()
	if p := WithTimeout(mock, 0); p != Provider(mock) {
		t.Fatal("expected the provider back unchanged")
	}
}

func TestWithTimeout_CancelsSlowCall(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	mock.Block = make(chan struct{})
	defer close(mock.Block)

	p := WithTimeout(mock, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestWithTimeout_DelegatesMedia(t *testing.T) {
	mock := NewMockProvider()
	mock.AddSpeech(MockMedia{Media: &Media{MIMEType: MIMETypePCM, Data: []byte{0, 0}}})

	p := WithTimeout(mock, time.Second)
	m := MediaOf(p)
	if m == nil {
		t.Fatal("expected media capability")
	}
	clip, err := m.GenerateSpeech(context.Background(), SpeechRequest{Text: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clip.MIMEType != MIMETypePCM {
		t.Fatalf("mime = %q", clip.MIMEType)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("model = %q", p.ModelID())
	}
}

func TestMediaOf_TextOnlyProvider(t *testing.T) {
	p := WithTimeout(WithRetry(&AnthropicProvider{model: "claude"}, retryConfig()), time.Second)
	if MediaOf(p) != nil {
		t.Fatal("text-only chain should not expose media")
	}
	_, err := p.(MediaProvider).GenerateImage(context.Background(), ImageRequest{})
	var unsupported *ErrMediaUnsupported
	if !errors.As(err, &unsupported) || unsupported.Model != "claude" {
		t.Fatalf("expected ErrMediaUnsupported for claude, got %v", err)
	}
}
