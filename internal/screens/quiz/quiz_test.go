package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizwise/internal/llm"
	"github.com/abhisek/quizwise/internal/router"
	"github.com/abhisek/quizwise/internal/screens/screentest"
	"github.com/abhisek/quizwise/internal/session"
	"github.com/abhisek/quizwise/internal/ui/components"
)

// feed delivers msg and then the quiz messages its command produces.
// Spinner ticks and cursor blinks are dropped.
func feed(t *testing.T, q *QuizScreen, msg tea.Msg) *QuizScreen {
	t.Helper()
	scr, cmd := q.Update(msg)
	q = scr.(*QuizScreen)
	if cmd == nil {
		return q
	}
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		if _, isChoice := msg.(components.ChoiceMsg); !isChoice {
			return q
		}
	}
	for _, m := range screentest.Run(cmd) {
		switch m.(type) {
		case questionsReadyMsg, components.ChoiceMsg, resultSavedMsg:
			q = feed(t, q, m)
		}
	}
	return q
}

func finish(t *testing.T, q *QuizScreen) *QuizScreen {
	t.Helper()
	for range q.state.Questions {
		q = feed(t, q, screentest.KeyPress('a'))
		q = feed(t, q, screentest.SpecialKey(tea.KeyEnter))
	}
	require.Equal(t, session.PhaseFinished, q.state.Phase)
	return q
}

func TestQuizScreen_FullRound(t *testing.T) {
	gen := &screentest.Generator{}
	sh, st := screentest.Shell(t, gen, nil)

	q := New(sh, "local", "Volcanoes")
	q = feed(t, q, screentest.SpecialKey(tea.KeyLeft)) // 10 → 5
	assert.Equal(t, 5, q.count())

	q = feed(t, q, screentest.SpecialKey(tea.KeyEnter))
	require.Equal(t, session.PhaseActive, q.state.Phase)
	require.Len(t, q.state.Questions, 5)
	assert.Equal(t, "Volcanoes", gen.Inputs[0].Topic)
	assert.Contains(t, q.View(100, 30), "Question 1?")

	for i := 0; i < 5; i++ {
		answer := 'a'
		if i == 4 {
			answer = 'b'
		}
		q = feed(t, q, screentest.KeyPress(answer))
		require.NotNil(t, q.state.CurrentAnswer(), "question %d", i)
		assert.True(t, q.choice.Revealed())
		q = feed(t, q, screentest.SpecialKey(tea.KeyEnter))
	}

	require.Equal(t, session.PhaseFinished, q.state.Phase)
	require.NotNil(t, q.result)
	assert.Equal(t, 4, q.result.Score)
	assert.Equal(t, "Result saved.", q.notice)
	assert.Contains(t, q.View(100, 30), "4 / 5")

	results, err := st.ResultRepo().ForUser(context.Background(), "local")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Volcanoes", results[0].TopicName)
	assert.Equal(t, 4, results[0].Score)
}

func TestQuizScreen_EmptyTopic(t *testing.T) {
	gen := &screentest.Generator{}
	sh, _ := screentest.Shell(t, gen, nil)

	q := feed(t, New(sh, "local", ""), screentest.SpecialKey(tea.KeyEnter))
	assert.Equal(t, session.PhaseAwaitingTopic, q.state.Phase)
	assert.Zero(t, gen.Calls())
	assert.Contains(t, q.View(100, 30), "Please enter a topic.")
}

func TestQuizScreen_GenerationFailure(t *testing.T) {
	gen := &screentest.Generator{Err: errors.New("model offline")}
	sh, _ := screentest.Shell(t, gen, nil)

	q := feed(t, New(sh, "local", "Jazz"), screentest.SpecialKey(tea.KeyEnter))
	assert.Equal(t, session.PhaseAwaitingTopic, q.state.Phase)
	assert.Contains(t, q.errMsg, "model offline")
	assert.Equal(t, "Jazz", q.input.Value())
}

func TestQuizScreen_EscCancelsGeneration(t *testing.T) {
	gen := &screentest.Generator{Block: make(chan struct{})}
	sh, _ := screentest.Shell(t, gen, nil)

	q := New(sh, "local", "Tides")
	scr, cmd := q.Update(screentest.SpecialKey(tea.KeyEnter))
	q = scr.(*QuizScreen)
	require.Equal(t, session.PhaseGenerating, q.state.Phase)

	done := make(chan []tea.Msg, 1)
	go func() { done <- screentest.Run(cmd) }()

	back := q.Back()
	require.NotNil(t, back)
	assert.Equal(t, router.PopScreenMsg{}, back())
	assert.Equal(t, session.PhaseAwaitingTopic, q.state.Phase)

	var msgs []tea.Msg
	select {
	case msgs = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("generation was not cancelled")
	}

	for _, m := range msgs {
		if ready, ok := m.(questionsReadyMsg); ok {
			assert.ErrorIs(t, ready.Err, context.Canceled)
			q = feed(t, q, m)
		}
	}
	assert.Equal(t, session.PhaseAwaitingTopic, q.state.Phase)
	assert.Empty(t, q.errMsg, "a stale result must not surface")
}

func TestQuizScreen_SpinnerAnimatesWhileGenerating(t *testing.T) {
	gen := &screentest.Generator{Block: make(chan struct{})}
	sh, _ := screentest.Shell(t, gen, nil)

	q := New(sh, "local", "Tides")
	scr, _ := q.Update(screentest.SpecialKey(tea.KeyEnter))
	q = scr.(*QuizScreen)
	require.Equal(t, session.PhaseGenerating, q.state.Phase)
	assert.Contains(t, q.View(100, 30), "⣾")

	scr, next := q.Update(q.spinner.Tick())
	q = scr.(*QuizScreen)
	require.NotNil(t, next, "spinner must keep ticking while generating")
	assert.Contains(t, q.View(100, 30), "⣽")

	tick, ok := next().(spinner.TickMsg)
	require.True(t, ok)
	q.abort()
	close(gen.Block)
	_, cmd := q.Update(tick)
	assert.Nil(t, cmd, "spinner stops once generation is over")
}

func TestQuizScreen_FirstAnswerSticks(t *testing.T) {
	sh, _ := screentest.Shell(t, &screentest.Generator{}, nil)

	q := New(sh, "local", "Owls")
	q.countIdx = 0
	q = feed(t, q, screentest.SpecialKey(tea.KeyEnter))
	require.Equal(t, session.PhaseActive, q.state.Phase)

	q = feed(t, q, screentest.KeyPress('c'))
	q = feed(t, q, screentest.KeyPress('a'))

	ans := q.state.CurrentAnswer()
	require.NotNil(t, ans)
	assert.Equal(t, "C", ans.Selected)
	assert.False(t, ans.Correct)
	assert.Zero(t, q.state.Score)
	assert.Contains(t, q.View(100, 30), "The answer was A")
}

func TestQuizScreen_RetryAndNewTopic(t *testing.T) {
	gen := &screentest.Generator{}
	sh, _ := screentest.Shell(t, gen, nil)

	q := New(sh, "local", "Bees")
	q.countIdx = 0
	q = feed(t, q, screentest.SpecialKey(tea.KeyEnter))
	q = finish(t, q)

	q = feed(t, q, screentest.KeyPress('r'))
	require.Equal(t, session.PhaseActive, q.state.Phase)
	assert.Equal(t, 2, gen.Calls())
	assert.Equal(t, 5, gen.Inputs[1].Count)
	assert.Equal(t, "Bees", q.state.Topic)

	q = finish(t, q)
	q = feed(t, q, screentest.KeyPress('n'))
	assert.Equal(t, session.PhaseAwaitingTopic, q.state.Phase)
	assert.Equal(t, "Bees", q.input.Value())
}

func TestQuizScreen_ContextIsSentWithTopic(t *testing.T) {
	gen := &screentest.Generator{}
	sh, _ := screentest.Shell(t, gen, nil)

	q := New(sh, "local", "Rust").WithContext("Ownership and borrowing.")
	assert.Contains(t, q.View(100, 30), "Context attached")

	feed(t, q, screentest.SpecialKey(tea.KeyEnter))
	require.Equal(t, 1, gen.Calls())
	assert.True(t, strings.HasPrefix(gen.Inputs[0].Topic, "Rust"))
	assert.Contains(t, gen.Inputs[0].Topic, "Ownership and borrowing.")
}

func TestQuizScreen_KeyHintsFollowPhase(t *testing.T) {
	sh, _ := screentest.Shell(t, &screentest.Generator{}, nil)
	q := New(sh, "local", "")

	assert.Equal(t, "Start", q.KeyHints()[0].Description)
	q.state.Phase = session.PhaseGenerating
	assert.Equal(t, "Cancel", q.KeyHints()[0].Description)
	q.state.Phase = session.PhaseFinished
	assert.Equal(t, "Retry", q.KeyHints()[0].Description)
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "Please enter a topic.", errorText(session.ErrEmptyTopic))
	assert.Contains(t, errorText(&llm.ErrUnauthorized{Provider: "gemini", Err: errors.New("401")}), "API key")
	assert.Contains(t, errorText(fmt.Errorf("wrap: %w", context.DeadlineExceeded)), "too long")
	assert.Contains(t, errorText(errors.New("boom")), "boom")
}
