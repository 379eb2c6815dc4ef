package home

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizwise/internal/router"
	"github.com/abhisek/quizwise/internal/screen"
	chatscreen "github.com/abhisek/quizwise/internal/screens/chat"
	"github.com/abhisek/quizwise/internal/screens/history"
	"github.com/abhisek/quizwise/internal/screens/quiz"
	"github.com/abhisek/quizwise/internal/screens/topics"
	"github.com/abhisek/quizwise/internal/shell"
	"github.com/abhisek/quizwise/internal/store"
	"github.com/abhisek/quizwise/internal/ui/components"
)

const loadTimeout = 5 * time.Second

var (
	menuLabels = []string{"NEW QUIZ", "TOPICS", "HISTORY", "CHAT", "QUIT"}
	menuKeys   = []string{"n", "t", "h", "c", "q"}
)

type statsLoadedMsg struct {
	Sidebar *shell.Sidebar
	Err     error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	shell *shell.Shell
	user  string
	menu  components.Menu

	topicCount int
	favourites int
	last       *store.QuizResult
	errMsg     string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ router.Resumer = (*HomeScreen)(nil)

// New creates the home screen for user.
func New(sh *shell.Shell, user string) *HomeScreen {
	push := func(s func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s()} }
		}
	}

	items := []components.MenuItem{
		{Label: menuLabels[0], Key: menuKeys[0], Action: push(func() screen.Screen { return quiz.New(sh, user, "") })},
		{Label: menuLabels[1], Key: menuKeys[1], Action: push(func() screen.Screen { return topics.New(sh, user) })},
		{Label: menuLabels[2], Key: menuKeys[2], Action: push(func() screen.Screen { return history.New(sh, user) })},
		{Label: menuLabels[3], Key: menuKeys[3], Action: push(func() screen.Screen { return chatscreen.New(sh, "") })},
		{Label: menuLabels[4], Key: menuKeys[4], Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		shell: sh,
		user:  user,
		menu:  components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

// Resume refreshes the stats after a quiz or topic change.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	sh, user := h.shell, h.user
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		sb, err := sh.Sidebar(ctx, user)
		return statsLoadedMsg{Sidebar: sb, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		if msg.Err != nil {
			h.errMsg = "Could not load your stats."
			return h, nil
		}
		h.errMsg = ""
		h.topicCount = len(msg.Sidebar.Topics)
		h.favourites = 0
		for _, t := range msg.Sidebar.Topics {
			if t.IsFavourite {
				h.favourites++
			}
		}
		h.last = nil
		if len(msg.Sidebar.Results) > 0 {
			r := msg.Sidebar.Results[0]
			h.last = &r
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}
