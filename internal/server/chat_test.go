package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizwise/internal/llm"
	"github.com/abhisek/quizwise/internal/quizgen"
)

func chatResponse(text string, image bool) llm.MockResponse {
	b, _ := json.Marshal(map[string]any{"response": text, "imageRequired": image})
	return llm.MockResponse{Content: b}
}

func TestChatRequiresTopic(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/api/chat", chatRequest{Message: "hi"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatTurnWithAudio(t *testing.T) {
	h := newHarness(t)
	h.mock.AddResponse(chatResponse("Lava is molten rock.", false))
	h.mock.AddSpeech(llm.MockMedia{Media: &llm.Media{MIMEType: llm.MIMETypePCM, Data: []byte{0, 1, 0, 1}}})

	var reply chatReply
	rec := h.do(http.MethodPost, "/api/chat", chatRequest{Topic: "Volcanoes", Message: "What is lava?"}, &reply)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Lava is molten rock.", reply.Message.Content)
	require.True(t, strings.HasPrefix(reply.Message.Audio, "data:audio/wav;base64,"))
	require.Empty(t, reply.Message.Image)

	var view chatView
	h.do(http.MethodGet, "/api/chat", nil, &view)
	require.Equal(t, "Volcanoes", view.Topic)
	require.Len(t, view.Messages, 3)
	require.Equal(t, "Hello! How can I help you with Volcanoes?", view.Messages[0].Content)
}

func TestChatWithoutAudioAndMediaWarning(t *testing.T) {
	h := newHarness(t)
	h.mock.AddResponse(chatResponse("Here is a sketch.", true))
	h.mock.AddImage(llm.MockMedia{Err: &llm.ErrProviderUnavailable{}})
	off := false

	var reply chatReply
	rec := h.do(http.MethodPost, "/api/chat", chatRequest{Topic: "Cells", Message: "draw a cell", IncludeAudio: &off}, &reply)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Empty(t, reply.Message.Audio)
	require.Len(t, reply.Message.Warnings, 1)

	_, speech := h.mock.MediaCallCount()
	require.Zero(t, speech)
}

func TestChatTextFailureRollsBack(t *testing.T) {
	h := newHarness(t)
	h.mock.AddResponse(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})

	rec := h.do(http.MethodPost, "/api/chat", chatRequest{Topic: "Cells", Message: "hello"}, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "chat_failed", errorCode(t, rec))

	var view chatView
	h.do(http.MethodGet, "/api/chat", nil, &view)
	require.Len(t, view.Messages, 1)
}

func TestChatFollowsQuizTopicAndResetsOnChange(t *testing.T) {
	h := newHarness(t)
	h.mock.AddResponse(quizResponse(5))
	h.mock.AddResponse(chatResponse("one", false))
	h.mock.AddResponse(chatResponse("two", false))
	off := false

	rec := h.do(http.MethodPost, "/api/quiz", startRequest{Topic: "Rome", Count: 5}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var reply chatReply
	h.do(http.MethodPost, "/api/chat", chatRequest{Message: "q1", IncludeAudio: &off}, &reply)
	require.Equal(t, "Rome", reply.Topic)

	h.do(http.MethodPost, "/api/chat", chatRequest{Topic: "Greece", Message: "q2", IncludeAudio: &off}, &reply)
	require.Equal(t, "Greece", reply.Topic)

	var view chatView
	h.do(http.MethodGet, "/api/chat", nil, &view)
	require.Len(t, view.Messages, 3, "a topic change starts a new transcript")
}

func multipartFile(t *testing.T, name string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/api/context", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadContext(t *testing.T) {
	h := newHarness(t)

	var out struct {
		Name string `json:"name"`
		Text string `json:"text"`
	}
	rec := h.send(multipartFile(t, "notes.txt", []byte("Photosynthesis makes sugar.")), &out)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Photosynthesis makes sugar.", out.Text)

	rec = h.send(multipartFile(t, "notes.pdf", []byte("%PDF-1.4")), nil)
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	big := bytes.Repeat([]byte("a"), quizgen.MaxContextBytes+1)
	rec = h.send(multipartFile(t, "big.txt", big), nil)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = h.do(http.MethodPost, "/api/context", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluate(t *testing.T) {
	h := newHarness(t)
	h.mock.AddResponse(llm.MockResponse{Content: json.RawMessage(`{"isCorrect":false,"feedback":"Paris is the capital."}`)})

	var eval quizgen.Evaluation
	rec := h.do(http.MethodPost, "/api/evaluate", quizgen.EvaluateInput{
		Question:      "Capital of France?",
		Answer:        "Lyon",
		CorrectAnswer: "Paris",
		Topic:         "Geography",
		Image:         "https://example.com/map.png",
	}, &eval)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.False(t, eval.IsCorrect)
	require.Equal(t, "https://example.com/map.png", eval.Image)

	rec = h.do(http.MethodPost, "/api/evaluate", quizgen.EvaluateInput{Answer: "x"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
