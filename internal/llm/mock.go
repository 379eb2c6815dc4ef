package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockMedia is a canned image or speech result for the MockProvider.
type MockMedia struct {
	Media *Media
	Err   error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	images    []MockMedia
	speech    []MockMedia
	Calls     []Request

	ImageCalls  []ImageRequest
	SpeechCalls []SpeechRequest

	// Block, when non-nil, makes Generate wait until it is closed or the
	// context is done. Used to test cancellation.
	Block chan struct{}
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// GenerateImage returns the next canned image.
func (m *MockProvider) GenerateImage(_ context.Context, req ImageRequest) (*Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImageCalls = append(m.ImageCalls, req)
	return popMedia(&m.images)
}

// GenerateSpeech returns the next canned speech clip.
func (m *MockProvider) GenerateSpeech(_ context.Context, req SpeechRequest) (*Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SpeechCalls = append(m.SpeechCalls, req)
	return popMedia(&m.speech)
}

func popMedia(q *[]MockMedia) (*Media, error) {
	if len(*q) == 0 {
		return nil, &ErrProviderUnavailable{Err: nil}
	}
	next := (*q)[0]
	*q = (*q)[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return next.Media, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// AddImage appends a canned image result.
func (m *MockProvider) AddImage(res MockMedia) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images = append(m.images, res)
}

// AddSpeech appends a canned speech result.
func (m *MockProvider) AddSpeech(res MockMedia) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speech = append(m.speech, res)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MediaCallCount returns the number of image and speech calls made.
func (m *MockProvider) MediaCallCount() (images, speech int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ImageCalls), len(m.SpeechCalls)
}
