package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizwise/internal/ui/theme"
)

// ChoiceMsg is emitted when the player picks an option.
type ChoiceMsg struct {
	Option string
}

// MultiChoice is a multiple-choice selector. It only reports the pick;
// grading happens elsewhere and is shown with Reveal.
type MultiChoice struct {
	Question string
	Options  []string
	Selected int

	revealed bool
	chosen   string
	correct  string
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question: question,
		Options:  options,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles navigation. Enter picks the highlighted option; a letter
// or digit picks that option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.revealed {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
		return m, nil
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
		return m, nil
	case "enter":
		return m, m.pick(m.Selected)
	}

	if len(key) == 1 {
		switch c := key[0]; {
		case c >= 'a' && c <= 'z':
			return m, m.pick(int(c - 'a'))
		case c >= 'A' && c <= 'Z':
			return m, m.pick(int(c - 'A'))
		case c >= '1' && c <= '9':
			return m, m.pick(int(c - '1'))
		}
	}
	return m, nil
}

func (m *MultiChoice) pick(i int) tea.Cmd {
	if i < 0 || i >= len(m.Options) {
		return nil
	}
	m.Selected = i
	opt := m.Options[i]
	return func() tea.Msg { return ChoiceMsg{Option: opt} }
}

// Reveal locks the selector and highlights the chosen and correct options.
func (m *MultiChoice) Reveal(chosen, correct string) {
	m.revealed = true
	m.chosen = chosen
	m.correct = correct
}

// Revealed reports whether Reveal was called.
func (m MultiChoice) Revealed() bool {
	return m.revealed
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+rune(i), opt)

		var style lipgloss.Style
		switch {
		case m.revealed && opt == m.correct:
			style = theme.Correct
		case m.revealed && opt == m.chosen:
			style = theme.Incorrect
		case m.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		s += style.Render(line) + "\n"
	}

	return s
}
