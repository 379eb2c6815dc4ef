package history

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizwise/internal/router"
	"github.com/abhisek/quizwise/internal/screens/screentest"
	"github.com/abhisek/quizwise/internal/store"
)

func TestHistoryScreen_ShowsRecentResults(t *testing.T) {
	sh, st := screentest.Shell(t, &screentest.Generator{}, nil)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		_, err := st.ResultRepo().Save(ctx, store.QuizResult{
			UserID: "local", TopicName: "Comets", Score: i % 6, TotalQuestions: 5,
		})
		require.NoError(t, err)
	}

	s := New(sh, "local")
	assert.Contains(t, s.View(100, 30), "Loading history")

	msgs := screentest.Run(s.Init())
	require.Len(t, msgs, 1)
	scr, _ := s.Update(msgs[0])
	s = scr.(*HistoryScreen)

	assert.Len(t, s.results, store.MaxResultsPerUser)
	assert.Contains(t, s.View(100, 30), "Comets")
}

func TestHistoryScreen_Empty(t *testing.T) {
	sh, _ := screentest.Shell(t, &screentest.Generator{}, nil)

	s := New(sh, "local")
	scr, _ := s.Update(screentest.Run(s.Init())[0])
	assert.Contains(t, scr.View(100, 30), "No quizzes yet")
}

func TestHistoryScreen_EnterRetakesTopic(t *testing.T) {
	sh, st := screentest.Shell(t, &screentest.Generator{}, nil)
	_, err := st.ResultRepo().Save(context.Background(), store.QuizResult{
		UserID: "local", TopicName: "Glaciers", Score: 3, TotalQuestions: 5,
	})
	require.NoError(t, err)

	s := New(sh, "local")
	scr, _ := s.Update(screentest.Run(s.Init())[0])

	_, cmd := scr.Update(screentest.SpecialKey(tea.KeyEnter))
	msgs := screentest.Run(cmd)
	require.Len(t, msgs, 1)
	replace, ok := msgs[0].(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Quiz", replace.Screen.Title())
}
