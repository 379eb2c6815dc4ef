package topics

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizwise/internal/router"
	"github.com/abhisek/quizwise/internal/screen"
	"github.com/abhisek/quizwise/internal/screens/quiz"
	"github.com/abhisek/quizwise/internal/shell"
	"github.com/abhisek/quizwise/internal/store"
	"github.com/abhisek/quizwise/internal/ui/components"
	"github.com/abhisek/quizwise/internal/ui/layout"
	"github.com/abhisek/quizwise/internal/ui/theme"
)

const requestTimeout = 5 * time.Second

type topicsLoadedMsg struct {
	Topics []store.Topic
	Err    error
}

type favouriteSetMsg struct {
	ID        string
	Favourite bool
	Err       error
}

type topicSelectedMsg struct {
	Name string
	Err  error
}

// TopicsScreen lists the user's topics.
type TopicsScreen struct {
	shell    *shell.Shell
	user     string
	topics   []store.Topic
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*TopicsScreen)(nil)
var _ screen.KeyHintProvider = (*TopicsScreen)(nil)

// New creates a TopicsScreen.
func New(sh *shell.Shell, user string) *TopicsScreen {
	return &TopicsScreen{shell: sh, user: user}
}

func (s *TopicsScreen) Init() tea.Cmd {
	sh, user := s.shell, s.user
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		topics, err := sh.Topics(ctx, user)
		return topicsLoadedMsg{Topics: topics, Err: err}
	}
}

func (s *TopicsScreen) Title() string {
	return "Topics"
}

func (s *TopicsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Quiz me"},
		{Key: "F", Description: "Favourite"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case topicsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = "Could not load topics: " + msg.Err.Error()
			return s, nil
		}
		s.topics = msg.Topics
		if s.selected >= len(s.topics) {
			s.selected = max(len(s.topics)-1, 0)
		}
		return s, nil

	case favouriteSetMsg:
		if msg.Err != nil {
			s.errMsg = "Could not update favourite: " + msg.Err.Error()
			return s, nil
		}
		for i := range s.topics {
			if s.topics[i].ID == msg.ID {
				s.topics[i].IsFavourite = msg.Favourite
			}
		}
		return s, nil

	case topicSelectedMsg:
		if msg.Err != nil {
			s.errMsg = "Could not open topic: " + msg.Err.Error()
			return s, nil
		}
		next := quiz.New(s.shell, s.user, msg.Name)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.topics)-1 {
				s.selected++
			}
		case "f", "F", "space":
			return s, s.toggle()
		case "enter":
			return s, s.choose()
		}
	}
	return s, nil
}

func (s *TopicsScreen) current() *store.Topic {
	if s.selected < 0 || s.selected >= len(s.topics) {
		return nil
	}
	return &s.topics[s.selected]
}

func (s *TopicsScreen) toggle() tea.Cmd {
	t := s.current()
	if t == nil {
		return nil
	}
	sh, user, id, fav := s.shell, s.user, t.ID, !t.IsFavourite
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := sh.ToggleFavourite(ctx, user, id, fav)
		return favouriteSetMsg{ID: id, Favourite: fav, Err: err}
	}
}

func (s *TopicsScreen) choose() tea.Cmd {
	t := s.current()
	if t == nil {
		return nil
	}
	sh, user, id := s.shell, s.user, t.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		name, err := sh.SelectTopic(ctx, user, id)
		return topicSelectedMsg{Name: name, Err: err}
	}
}

func (s *TopicsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if !s.loaded {
		return components.CabinetFrame(theme.Hint.Render("Loading topics..."), width, height)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Your topics"))
	b.WriteString("\n\n")

	if len(s.topics) == 0 {
		b.WriteString(theme.Subtitle.Width(cw).Render("No topics yet. Start a quiz and it will show up here."))
	}

	// Keep the cursor visible when the list is taller than the screen.
	visible := max(height-10, 3)
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := min(start+visible, len(s.topics))

	for i := start; i < end; i++ {
		t := s.topics[i]
		star := lipgloss.NewStyle().Foreground(theme.TextDim).Render("☆")
		if t.IsFavourite {
			star = lipgloss.NewStyle().Foreground(theme.Highlight).Render("★")
		}
		line := fmt.Sprintf("%s %s", star, t.Name)
		meta := lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d questions · %s", len(t.Questions), t.CreatedAt.Local().Format("Jan 2")))
		if i == s.selected {
			b.WriteString(theme.Selected.Render("▸ ") + theme.Selected.Render(line) + meta)
		} else {
			b.WriteString("  " + theme.Unselected.Render(line) + meta)
		}
		b.WriteString("\n")
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	return components.CabinetFrame(lipgloss.NewStyle().Width(cw).Render(b.String()), width, height)
}
