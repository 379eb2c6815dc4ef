package server

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/quizwise/internal/chat"
)

type chatView struct {
	Topic    string         `json:"topic"`
	Busy     bool           `json:"busy"`
	Messages []chat.Message `json:"messages"`
}

func (s *Server) getChat(c *gin.Context) {
	b := s.browser(c)
	b.mu.Lock()
	cs := b.chat
	b.mu.Unlock()

	if cs == nil {
		respondOK(c, chatView{Messages: []chat.Message{}})
		return
	}
	respondOK(c, chatView{Topic: cs.Topic(), Busy: cs.Busy(), Messages: cs.Messages()})
}

type chatRequest struct {
	Topic        string `json:"topic"`
	Message      string `json:"message"`
	IncludeAudio *bool  `json:"includeAudio"`
}

type chatReply struct {
	Message *chat.Message `json:"message"`
	Topic   string        `json:"topic"`
}

// sendChat runs one chat turn. The chat follows the topic in the request,
// falling back to the current quiz topic. A topic change starts a fresh
// transcript.
func (s *Server) sendChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, badRequest(err))
		return
	}
	includeAudio := req.IncludeAudio == nil || *req.IncludeAudio

	b := s.browser(c)
	b.mu.Lock()
	topic := strings.TrimSpace(req.Topic)
	if topic == "" && b.chat != nil {
		topic = b.chat.Topic()
	}
	if topic == "" {
		topic = b.quiz.Topic
	}
	if topic == "" {
		b.mu.Unlock()
		respondError(c, badRequest(errors.New("a topic is required to chat")))
		return
	}
	switch {
	case b.chat == nil:
		b.chat = s.shell.NewChat(topic)
	case b.chat.Topic() != topic:
		b.chat.Reset(topic)
	}
	cs := b.chat
	b.mu.Unlock()

	msg, err := cs.Send(c.Request.Context(), req.Message, includeAudio)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, chatReply{Message: msg, Topic: topic})
}
