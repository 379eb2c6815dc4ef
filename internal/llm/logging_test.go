package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/quizwise/internal/store"
)

func openEventRepo(t *testing.T) store.EventRepo {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st.EventRepo()
}

func TestLogging_RecordsSuccess(t *testing.T) {
	repo := openEventRepo(t)
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"questions":[]}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 7},
	})
	p := WithLogging(mock, "mock", repo, nil)

	ctx := WithPurpose(context.Background(), PurposeQuestionGen)
	_, err := p.Generate(ctx, Request{
		System:   "sys prompt",
		Messages: []Message{{Role: RoleUser, Content: "Topic: rivers"}},
		Schema:   &Schema{Name: "quiz", Definition: map[string]any{"type": "object"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Purpose != PurposeQuestionGen || !ev.Success || ev.InputTokens != 12 || ev.OutputTokens != 7 {
		t.Fatalf("unexpected event: %+v", ev.LLMRequestEventData)
	}
	for _, want := range []string{"[system]", "sys prompt", "Topic: rivers", "[schema: quiz]"} {
		if !strings.Contains(ev.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, ev.RequestBody)
		}
	}
}

func TestLogging_RecordsFailure(t *testing.T) {
	repo := openEventRepo(t)
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("boom")}})
	p := WithLogging(mock, "mock", repo, nil)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 || events[0].Success || !strings.Contains(events[0].ErrorMessage, "boom") {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].Purpose != "unknown" {
		t.Fatalf("purpose = %q", events[0].Purpose)
	}
}

func TestLogging_RecordsMedia(t *testing.T) {
	repo := openEventRepo(t)
	mock := NewMockProvider()
	mock.AddImage(MockMedia{Media: &Media{MIMEType: "image/png", Data: []byte("12345"), Model: "img-model"}})
	p := WithLogging(mock, "mock", repo, nil)

	ctx := WithPurpose(context.Background(), PurposeChatImage)
	if _, err := MediaOf(p).GenerateImage(ctx, ImageRequest{Prompt: "draw"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	usage, err := repo.LLMUsageByPurpose(context.Background())
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 1 || usage[0].Purpose != PurposeChatImage || usage[0].Calls != 1 {
		t.Fatalf("unexpected usage: %+v", usage)
	}

	events, _ := repo.QueryLLMEvents(context.Background(), store.QueryOpts{Limit: 1})
	if events[0].Model != "img-model" || events[0].ResponseBody != "[image/png, 5 bytes]" {
		t.Fatalf("unexpected media event: %+v", events[0].LLMRequestEventData)
	}
}

func TestLogging_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
