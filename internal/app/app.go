package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizwise/internal/logger"
	"github.com/abhisek/quizwise/internal/router"
	"github.com/abhisek/quizwise/internal/screen"
	"github.com/abhisek/quizwise/internal/screens/home"
	"github.com/abhisek/quizwise/internal/screens/quiz"
	"github.com/abhisek/quizwise/internal/shell"
	"github.com/abhisek/quizwise/internal/ui/layout"
)

// LocalUser is the account the terminal UI plays as, so topics and
// results persist between runs.
const LocalUser = "local"

// Options configures the terminal UI.
type Options struct {
	Shell *shell.Shell
	User  string
	Log   *logger.Logger

	// Topic and Context, when set, open a pre-filled quiz on start.
	Topic   string
	Context string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	user    string
	initial screen.Screen
	width   int
	height  int
}

func newAppModel(opts Options) AppModel {
	if opts.User == "" {
		opts.User = LocalUser
	}
	m := AppModel{
		router: router.New(home.New(opts.Shell, opts.User)),
		user:   opts.User,
	}
	if opts.Topic != "" || opts.Context != "" {
		m.initial = quiz.New(opts.Shell, opts.User, opts.Topic).WithContext(opts.Context)
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init()}
	if m.initial != nil {
		initial := m.initial
		cmds = append(cmds, func() tea.Msg { return router.PushScreenMsg{Screen: initial} })
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if b, ok := m.router.Active().(screen.BackHandler); ok {
				b.Back()
			}
			return m, tea.Quit
		case "esc":
			if b, ok := m.router.Active().(screen.BackHandler); ok {
				return m, b.Back()
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the whole frame for the current window size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.user, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the terminal UI and blocks until the user quits.
func Run(opts Options) error {
	if opts.Shell == nil {
		return fmt.Errorf("app: shell is required")
	}
	log := logger.OrNop(opts.Log)
	log.Info("terminal ui starting", "user", opts.User)
	defer log.Info("terminal ui stopped")

	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
