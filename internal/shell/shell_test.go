package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizwise/internal/quizgen"
	"github.com/abhisek/quizwise/internal/session"
	"github.com/abhisek/quizwise/internal/store"
)

type fakeGenerator struct {
	mu     sync.Mutex
	inputs []quizgen.GenerateInput
	err    error
}

func (f *fakeGenerator) GenerateQuestions(_ context.Context, in quizgen.GenerateInput) ([]quizgen.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	qs := make([]quizgen.Question, in.Count)
	for i := range qs {
		qs[i] = quizgen.Question{
			Question:      fmt.Sprintf("Q%d-%d", len(f.inputs), i),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "a",
			Explanation:   "because",
		}
	}
	return qs, nil
}

var dbCounter atomic.Int64

func newTestShell(t *testing.T, gen quizgen.Generator) (*Shell, *store.Store) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbCounter.Add(1)))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	sh := New(Deps{
		Generator: gen,
		Topics:    st.TopicRepo(),
		Results:   st.ResultRepo(),
	})
	t.Cleanup(sh.Close)
	return sh, st
}

func TestStartQuiz_SavesTopicAndHistory(t *testing.T) {
	gen := &fakeGenerator{}
	sh, st := newTestShell(t, gen)
	ctx := context.Background()

	s := session.New()
	require.NoError(t, sh.StartQuiz(ctx, "alice", s, "Roman Empire", 5, "Augustus ruled first."))
	assert.Equal(t, session.PhaseActive, s.Phase)
	assert.Len(t, s.Questions, 5)
	assert.Equal(t, "Roman Empire", s.Topic)
	assert.Equal(t, "Roman Empire\n\nContext:\nAugustus ruled first.", gen.inputs[0].Topic)
	assert.Empty(t, gen.inputs[0].PreviousQuestions)

	sh.Close() // drain the history append

	topic, err := st.TopicRepo().ByName(ctx, "alice", "Roman Empire")
	require.NoError(t, err)
	require.NotNil(t, topic)
	assert.Equal(t, quizgen.Texts(s.Questions), topic.Questions)
}

func TestStartQuiz_SendsHistoryToModel(t *testing.T) {
	gen := &fakeGenerator{}
	sh, st := newTestShell(t, gen)
	ctx := context.Background()

	id, err := st.TopicRepo().Save(ctx, "alice", "Go")
	require.NoError(t, err)
	var prior []string
	for i := range 25 {
		prior = append(prior, fmt.Sprintf("old %d", i))
	}
	require.NoError(t, st.TopicRepo().AddQuestions(ctx, "alice", id, prior))

	require.NoError(t, sh.StartQuiz(ctx, "alice", session.New(), "Go", 5, ""))
	assert.Equal(t, prior[5:], gen.inputs[0].PreviousQuestions)
	assert.Equal(t, "Go", gen.inputs[0].Topic)
}

func TestStartQuiz_AnonymousPersistsNothing(t *testing.T) {
	gen := &fakeGenerator{}
	sh, st := newTestShell(t, gen)
	ctx := context.Background()

	s := session.New()
	require.NoError(t, sh.StartQuiz(ctx, "", s, "Go", 5, ""))
	for !isFinished(s) {
		_, err := session.Select(s, "a")
		require.NoError(t, err)
		_, err = sh.Advance(s, func(error) { t.Error("anonymous result must not be saved") })
		require.NoError(t, err)
	}
	sh.Close()

	topics, err := st.TopicRepo().ForUser(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, topics)
	results, err := st.ResultRepo().ForUser(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStartQuiz_GenerationFailure(t *testing.T) {
	cause := &quizgen.GenerationError{Topic: "Go", Err: errors.New("model down")}
	sh, _ := newTestShell(t, &fakeGenerator{err: cause})

	s := session.New()
	err := sh.StartQuiz(context.Background(), "alice", s, "Go", 10, "")
	require.ErrorIs(t, err, cause)
	assert.Equal(t, session.PhaseAwaitingTopic, s.Phase)
	assert.Equal(t, cause, s.Err)
	assert.Empty(t, s.Questions)
}

func TestStartQuiz_PersistenceFailureFailsGeneration(t *testing.T) {
	gen := &fakeGenerator{}
	sh, st := newTestShell(t, gen)
	require.NoError(t, st.Close())

	s := session.New()
	err := sh.StartQuiz(context.Background(), "alice", s, "Go", 5, "")
	var perr *store.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, session.PhaseAwaitingTopic, s.Phase)
	assert.Empty(t, gen.inputs, "model must not be called when the topic lookup fails")
}

func TestComplete_StaleAfterAbort(t *testing.T) {
	gen := &fakeGenerator{}
	sh, _ := newTestShell(t, gen)

	s := session.New()
	g, err := sh.Begin(s, "", "Go", 5, "")
	require.NoError(t, err)
	qs, err := sh.Generate(context.Background(), g)
	require.NoError(t, err)

	session.Abort(s)
	require.ErrorIs(t, sh.Complete(s, g, qs, nil), session.ErrStaleAttempt)
	assert.Equal(t, session.PhaseAwaitingTopic, s.Phase)
	assert.Empty(t, s.Questions)
}

func TestRestart_KeepsQuizOnRejectedInput(t *testing.T) {
	sh, _ := newTestShell(t, &fakeGenerator{})
	ctx := context.Background()

	s := session.New()
	require.NoError(t, sh.StartQuiz(ctx, "alice", s, "Go", 5, ""))
	_, err := session.Select(s, "a")
	require.NoError(t, err)

	_, err = sh.Restart(s, "bob", "Rust", 7, "")
	require.ErrorIs(t, err, session.ErrInvalidCount)
	assert.Equal(t, session.PhaseActive, s.Phase)
	assert.Equal(t, "Go", s.Topic)
	assert.Equal(t, "alice", s.User)
	assert.Len(t, s.Questions, 5)

	g, err := sh.Restart(s, "bob", "Rust", 10, "")
	require.NoError(t, err)
	assert.Equal(t, "bob", g.User)
	assert.Equal(t, "bob", s.User)
	assert.Equal(t, session.PhaseGenerating, s.Phase)
}

func TestAdvance_SavesForUserWhoBegan(t *testing.T) {
	sh, st := newTestShell(t, &fakeGenerator{})
	ctx := context.Background()

	s := session.New()
	require.NoError(t, sh.StartQuiz(ctx, "alice", s, "Go", 5, ""))

	saved := make(chan error, 1)
	for !isFinished(s) {
		_, err := session.Select(s, "a")
		require.NoError(t, err)
		_, err = sh.Advance(s, func(err error) { saved <- err })
		require.NoError(t, err)
	}
	require.NoError(t, <-saved)

	results, err := st.ResultRepo().ForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	session.Abort(s)
	assert.Empty(t, s.User)
}

func TestAdvance_SavesResult(t *testing.T) {
	sh, st := newTestShell(t, &fakeGenerator{})
	ctx := context.Background()

	s := session.New()
	require.NoError(t, sh.StartQuiz(ctx, "alice", s, "Go", 5, ""))

	saved := make(chan error, 1)
	var res *session.Result
	for i := 0; !isFinished(s); i++ {
		option := "a"
		if i%2 == 1 {
			option = "b"
		}
		_, err := session.Select(s, option)
		require.NoError(t, err)
		res, err = sh.Advance(s, func(err error) { saved <- err })
		require.NoError(t, err)
	}
	require.NotNil(t, res)
	assert.Equal(t, 3, res.Score)
	require.NoError(t, <-saved)

	results, err := st.ResultRepo().ForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Score)
	assert.Equal(t, 5, results[0].TotalQuestions)
	assert.Equal(t, "Go", results[0].TopicName)
}

func TestAdvance_SaveFailureIsNotified(t *testing.T) {
	sh, st := newTestShell(t, &fakeGenerator{})
	s := session.New()
	require.NoError(t, sh.StartQuiz(context.Background(), "alice", s, "Go", 5, ""))
	sh.Close() // wait for the history append before closing the database
	require.NoError(t, st.Close())

	sh.writer = NewWriter(4, nil)
	t.Cleanup(sh.writer.Close)

	saved := make(chan error, 1)
	for !isFinished(s) {
		_, err := session.Select(s, "a")
		require.NoError(t, err)
		_, err = sh.Advance(s, func(err error) { saved <- err })
		require.NoError(t, err, "a failed save must not fail the quiz")
	}
	assert.Error(t, <-saved)
	assert.Equal(t, session.PhaseFinished, s.Phase)
}

func TestSidebar(t *testing.T) {
	sh, st := newTestShell(t, &fakeGenerator{})
	ctx := context.Background()

	empty, err := sh.Sidebar(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, empty.Topics)
	assert.Empty(t, empty.Results)

	_, err = st.TopicRepo().Save(ctx, "alice", "Go")
	require.NoError(t, err)
	_, err = st.ResultRepo().Save(ctx, store.QuizResult{UserID: "alice", TopicName: "Go", Score: 4, TotalQuestions: 5})
	require.NoError(t, err)

	sb, err := sh.Sidebar(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, sb.Topics, 1)
	require.Len(t, sb.Results, 1)
	assert.Equal(t, "Go", sb.Topics[0].Name)
	assert.Equal(t, 4, sb.Results[0].Score)
}

func TestToggleFavouriteAndSelectTopic(t *testing.T) {
	sh, st := newTestShell(t, &fakeGenerator{})
	ctx := context.Background()

	id, err := st.TopicRepo().Save(ctx, "alice", "Volcanoes")
	require.NoError(t, err)

	require.ErrorIs(t, sh.ToggleFavourite(ctx, "", id, true), ErrUnauthenticated)
	require.NoError(t, sh.ToggleFavourite(ctx, "alice", id, true))
	require.ErrorIs(t, sh.ToggleFavourite(ctx, "bob", id, true), store.ErrNotFound)

	topic, err := st.TopicRepo().ByName(ctx, "alice", "Volcanoes")
	require.NoError(t, err)
	assert.True(t, topic.IsFavourite)

	name, err := sh.SelectTopic(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "Volcanoes", name)

	_, err = sh.SelectTopic(ctx, "bob", id)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEvaluateWithoutEvaluator(t *testing.T) {
	sh, _ := newTestShell(t, &fakeGenerator{})
	_, err := sh.Evaluate(context.Background(), quizgen.EvaluateInput{})
	var evalErr *quizgen.EvaluationError
	require.ErrorAs(t, err, &evalErr)
}

func isFinished(s *session.State) bool { return s.Phase == session.PhaseFinished }
