package shell

import (
	"context"
	"fmt"

	"github.com/abhisek/quizwise/internal/quizgen"
	"github.com/abhisek/quizwise/internal/session"
)

// Generation is a quiz generation started by Begin. It carries what the
// blocking Generate call needs, so the caller can release the session
// state while the model runs.
type Generation struct {
	Attempt session.Attempt
	User    string
	Topic   string
	Count   int

	// Prompt is the topic sent to the model, with any context appended.
	Prompt string
}

// Begin starts a quiz on st. The returned Generation is passed to Generate
// and then to Complete.
func (s *Shell) Begin(st *session.State, user, topic string, count int, contextText string) (*Generation, error) {
	attempt, err := session.Begin(st, topic, count)
	if err != nil {
		return nil, err
	}
	return s.generation(st, attempt, user, contextText), nil
}

// Restart is Begin for a player who may already have a quiz on screen. A
// rejected topic or count leaves that quiz in place.
func (s *Shell) Restart(st *session.State, user, topic string, count int, contextText string) (*Generation, error) {
	attempt, err := session.Restart(st, topic, count)
	if err != nil {
		return nil, err
	}
	return s.generation(st, attempt, user, contextText), nil
}

func (s *Shell) generation(st *session.State, attempt session.Attempt, user, contextText string) *Generation {
	st.User = user
	return &Generation{
		Attempt: attempt,
		User:    user,
		Topic:   st.Topic,
		Count:   st.Count,
		Prompt:  quizgen.ComposeTopic(st.Topic, contextText),
	}
}

// Generate looks up the user's topic history, asks the model for
// questions and records their texts against the topic in the background.
// It does not touch the session state.
func (s *Shell) Generate(ctx context.Context, g *Generation) ([]quizgen.Question, error) {
	var topicID string
	var history []string

	if s.persists(g.User) {
		existing, err := s.topics.ByName(ctx, g.User, g.Topic)
		if err != nil {
			return nil, fmt.Errorf("look up topic: %w", err)
		}
		if existing != nil {
			topicID = existing.ID
			history = existing.Questions
		} else {
			id, err := s.topics.Save(ctx, g.User, g.Topic)
			if err != nil {
				return nil, fmt.Errorf("save topic: %w", err)
			}
			topicID = id
		}
	}

	questions, err := s.gen.GenerateQuestions(ctx, quizgen.GenerateInput{
		Topic:             g.Prompt,
		Count:             g.Count,
		PreviousQuestions: quizgen.RecentQuestions(history, quizgen.DefaultConfig().MaxPriorQuestions),
	})
	if err != nil {
		return nil, err
	}

	if topicID != "" && len(questions) > 0 {
		texts := quizgen.Texts(questions)
		s.writer.Enqueue("append-questions", func(ctx context.Context) error {
			return s.topics.AddQuestions(ctx, g.User, topicID, texts)
		}, nil)
	}
	return questions, nil
}

// Complete reports the outcome of Generate to st. A result for an aborted
// or superseded attempt returns session.ErrStaleAttempt and leaves st
// untouched.
func (s *Shell) Complete(st *session.State, g *Generation, questions []quizgen.Question, genErr error) error {
	if genErr != nil {
		s.log.Warn("quiz generation failed", "topic", g.Topic, "error", genErr)
		if err := session.Failed(st, g.Attempt, genErr); err != nil {
			return err
		}
		return genErr
	}
	return session.Loaded(st, g.Attempt, questions)
}

// StartQuiz runs Begin, Generate and Complete in one call. The caller must
// own st for the duration.
func (s *Shell) StartQuiz(ctx context.Context, user string, st *session.State, topic string, count int, contextText string) error {
	g, err := s.Begin(st, user, topic, count, contextText)
	if err != nil {
		return err
	}
	questions, genErr := s.Generate(ctx, g)
	return s.Complete(st, g, questions, genErr)
}
