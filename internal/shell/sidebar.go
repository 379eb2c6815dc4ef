package shell

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizwise/internal/store"
)

// Sidebar is the account summary shown next to the quiz.
type Sidebar struct {
	Topics  []store.Topic      `json:"topics"`
	Results []store.QuizResult `json:"results"`
}

// Topics returns the user's recent topics, newest first.
func (s *Shell) Topics(ctx context.Context, user string) ([]store.Topic, error) {
	if !s.persists(user) {
		return []store.Topic{}, nil
	}
	topics, err := s.topics.ForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	if topics == nil {
		topics = []store.Topic{}
	}
	return topics, nil
}

// Results returns the user's recent quiz results, newest first.
func (s *Shell) Results(ctx context.Context, user string) ([]store.QuizResult, error) {
	if !s.persists(user) {
		return []store.QuizResult{}, nil
	}
	results, err := s.results.ForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []store.QuizResult{}
	}
	return results, nil
}

// Sidebar loads the user's topics and results in parallel. Anonymous
// users get an empty sidebar.
func (s *Shell) Sidebar(ctx context.Context, user string) (*Sidebar, error) {
	out := &Sidebar{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Topics, err = s.Topics(ctx, user)
		return err
	})
	g.Go(func() error {
		var err error
		out.Results, err = s.Results(ctx, user)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
