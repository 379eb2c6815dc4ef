// Package shell wires the quiz session, the generation gateway and the
// store into the flows both user interfaces drive.
package shell

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/quizwise/internal/chat"
	"github.com/abhisek/quizwise/internal/logger"
	"github.com/abhisek/quizwise/internal/quizgen"
	"github.com/abhisek/quizwise/internal/session"
	"github.com/abhisek/quizwise/internal/store"
)

// ErrUnauthenticated is returned by account-scoped operations called
// without a user.
var ErrUnauthenticated = errors.New("sign in required")

// Deps are the collaborators of a Shell. Topics and Results may be nil, in
// which case nothing is persisted.
type Deps struct {
	Generator quizgen.Generator
	Evaluator quizgen.Evaluator
	Responder chat.Responder
	Topics    store.TopicRepo
	Results   store.ResultRepo
	Log       *logger.Logger

	// QueueSize is the capacity of the background write queue.
	QueueSize int
}

// Shell coordinates quiz, chat and sidebar flows for one process. A user
// id of "" means an anonymous player: quizzes work, nothing is saved.
type Shell struct {
	gen       quizgen.Generator
	eval      quizgen.Evaluator
	responder chat.Responder
	topics    store.TopicRepo
	results   store.ResultRepo
	writer    *Writer
	log       *logger.Logger
}

// New creates a Shell and starts its background writer.
func New(d Deps) *Shell {
	log := logger.OrNop(d.Log).With("component", "shell")
	return &Shell{
		gen:       d.Generator,
		eval:      d.Evaluator,
		responder: d.Responder,
		topics:    d.Topics,
		results:   d.Results,
		writer:    NewWriter(d.QueueSize, log),
		log:       log,
	}
}

// Close drains pending background writes.
func (s *Shell) Close() {
	s.writer.Close()
}

func (s *Shell) persists(user string) bool {
	return user != "" && s.topics != nil && s.results != nil
}

// NewChat starts a chat session for topic.
func (s *Shell) NewChat(topic string) *chat.Session {
	return chat.NewSession(s.responder, topic)
}

// Evaluate delegates free-answer grading to the model.
func (s *Shell) Evaluate(ctx context.Context, in quizgen.EvaluateInput) (*quizgen.Evaluation, error) {
	if s.eval == nil {
		return nil, &quizgen.EvaluationError{Err: errors.New("no evaluator configured")}
	}
	return s.eval.EvaluateAnswer(ctx, in)
}

// ToggleFavourite sets the favourite flag of one of the user's topics.
func (s *Shell) ToggleFavourite(ctx context.Context, user, topicID string, favourite bool) error {
	if !s.persists(user) {
		return ErrUnauthenticated
	}
	return s.topics.SetFavourite(ctx, user, topicID, favourite)
}

// SelectTopic returns the name of the user's topic so it can be pre-filled
// into a new quiz. It never starts generation.
func (s *Shell) SelectTopic(ctx context.Context, user, topicID string) (string, error) {
	if !s.persists(user) {
		return "", ErrUnauthenticated
	}
	topics, err := s.topics.ForUser(ctx, user)
	if err != nil {
		return "", err
	}
	for _, t := range topics {
		if t.ID == topicID {
			return t.Name, nil
		}
	}
	return "", fmt.Errorf("topic %s: %w", topicID, store.ErrNotFound)
}

// Advance moves past the answered question. When a quiz begun by a
// signed-in user finishes, the result is saved for that user in the
// background; notify, if
// non-nil, receives the outcome of that save.
func (s *Shell) Advance(st *session.State, notify func(error)) (*session.Result, error) {
	res, err := session.Advance(st)
	if err != nil || res == nil {
		return res, err
	}
	if !s.persists(st.User) {
		return res, nil
	}

	record := store.QuizResult{
		UserID:         st.User,
		TopicName:      res.Topic,
		Score:          res.Score,
		TotalQuestions: res.TotalQuestions,
	}
	queued := s.writer.Enqueue("save-result", func(ctx context.Context) error {
		_, err := s.results.Save(ctx, record)
		return err
	}, notify)
	if !queued && notify != nil {
		notify(errors.New("result was not saved: write queue unavailable"))
	}
	return res, nil
}
