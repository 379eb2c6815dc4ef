package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizwise/internal/ui/layout"
)

// Screen is one page of the terminal UI.
type Screen interface {
	// Init returns an initial command when the screen is pushed.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackHandler is implemented by screens that must release work before
// they are popped. Back is called when the user presses Esc; the screen
// returns the command that pops it, or nil to stay.
type BackHandler interface {
	Back() tea.Cmd
}
