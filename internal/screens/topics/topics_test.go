package topics

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizwise/internal/router"
	"github.com/abhisek/quizwise/internal/screens/screentest"
)

func step(t *testing.T, s *TopicsScreen, msg tea.Msg) (*TopicsScreen, []tea.Msg) {
	t.Helper()
	scr, cmd := s.Update(msg)
	return scr.(*TopicsScreen), screentest.Run(cmd)
}

func loaded(t *testing.T, s *TopicsScreen) *TopicsScreen {
	t.Helper()
	msgs := screentest.Run(s.Init())
	require.Len(t, msgs, 1)
	s, _ = step(t, s, msgs[0])
	return s
}

func TestTopicsScreen_Empty(t *testing.T) {
	sh, _ := screentest.Shell(t, &screentest.Generator{}, nil)

	s := loaded(t, New(sh, "local"))
	assert.Empty(t, s.topics)
	assert.Contains(t, s.View(100, 30), "No topics yet")
}

func TestTopicsScreen_ToggleFavourite(t *testing.T) {
	sh, st := screentest.Shell(t, &screentest.Generator{}, nil)
	ctx := context.Background()
	_, err := st.TopicRepo().Save(ctx, "local", "Mars")
	require.NoError(t, err)
	_, err = st.TopicRepo().Save(ctx, "someone-else", "Venus")
	require.NoError(t, err)

	s := loaded(t, New(sh, "local"))
	require.Len(t, s.topics, 1)
	assert.Contains(t, s.View(100, 30), "Mars")
	assert.NotContains(t, s.View(100, 30), "Venus")

	s, msgs := step(t, s, screentest.KeyPress('f'))
	require.Len(t, msgs, 1)
	s, _ = step(t, s, msgs[0])
	assert.True(t, s.topics[0].IsFavourite)

	stored, err := st.TopicRepo().ByName(ctx, "local", "Mars")
	require.NoError(t, err)
	assert.True(t, stored.IsFavourite)
}

func TestTopicsScreen_EnterOpensPrefilledQuiz(t *testing.T) {
	gen := &screentest.Generator{}
	sh, st := screentest.Shell(t, gen, nil)
	_, err := st.TopicRepo().Save(context.Background(), "local", "Jupiter")
	require.NoError(t, err)

	s := loaded(t, New(sh, "local"))
	s, msgs := step(t, s, screentest.SpecialKey(tea.KeyEnter))
	require.Len(t, msgs, 1)

	_, msgs = step(t, s, msgs[0])
	require.Len(t, msgs, 1)
	replace, ok := msgs[0].(router.ReplaceScreenMsg)
	require.True(t, ok, "expected ReplaceScreenMsg, got %T", msgs[0])
	assert.Equal(t, "Quiz", replace.Screen.Title())
	assert.Contains(t, replace.Screen.View(100, 30), "Jupiter")
	assert.Zero(t, gen.Calls(), "selecting a topic must not start generation")
}

func TestTopicsScreen_Navigation(t *testing.T) {
	sh, st := screentest.Shell(t, &screentest.Generator{}, nil)
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C"} {
		_, err := st.TopicRepo().Save(ctx, "local", name)
		require.NoError(t, err)
	}

	s := loaded(t, New(sh, "local"))
	s, _ = step(t, s, screentest.SpecialKey(tea.KeyDown))
	s, _ = step(t, s, screentest.SpecialKey(tea.KeyDown))
	s, _ = step(t, s, screentest.SpecialKey(tea.KeyDown))
	assert.Equal(t, 2, s.selected)
	s, _ = step(t, s, screentest.KeyPress('k'))
	assert.Equal(t, 1, s.selected)
}
