package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizwise/internal/router"
	"github.com/abhisek/quizwise/internal/screen"
	"github.com/abhisek/quizwise/internal/screens/quiz"
	"github.com/abhisek/quizwise/internal/shell"
	"github.com/abhisek/quizwise/internal/store"
	"github.com/abhisek/quizwise/internal/ui/layout"
	"github.com/abhisek/quizwise/internal/ui/theme"
)

type historyLoadedMsg struct {
	Results []store.QuizResult
	Err     error
}

// HistoryScreen displays the most recent quiz results.
type HistoryScreen struct {
	shell    *shell.Shell
	user     string
	results  []store.QuizResult
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(sh *shell.Shell, user string) *HistoryScreen {
	return &HistoryScreen{shell: sh, user: user}
}

func (s *HistoryScreen) Init() tea.Cmd {
	sh, user := s.shell, s.user
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		results, err := sh.Results(ctx, user)
		return historyLoadedMsg{Results: results, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Quiz again"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected >= len(s.results) {
				return s, nil
			}
			next := quiz.New(s.shell, s.user, s.results[s.selected].TopicName)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Pick a topic and start!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, r := range s.results {
		var accuracy float64
		if r.TotalQuestions > 0 {
			accuracy = float64(r.Score) / float64(r.TotalQuestions) * 100
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-28s  %2d/%-2d  %3.0f%%",
			prefix, r.CreatedAt.Local().Format("Jan 02, 2006"), truncate(r.TopicName, 28),
			r.Score, r.TotalQuestions, accuracy)

		style := lipgloss.NewStyle().Foreground(accuracyColor(accuracy))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func accuracyColor(pct float64) color.Color {
	switch {
	case pct >= 80:
		return theme.Success
	case pct >= 50:
		return theme.Text
	default:
		return theme.Accent
	}
}
