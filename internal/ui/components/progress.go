package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizwise/internal/ui/theme"
)

// Mark is the state of one question on an AnswerTrack.
type Mark int

const (
	MarkPending Mark = iota
	MarkCurrent
	MarkCorrect
	MarkIncorrect
)

// AnswerTrack draws one cell per question so a player can see at a glance
// which questions they got right.
type AnswerTrack struct {
	Marks []Mark
	Width int
}

// NewAnswerTrack creates a track for the given marks, fitted into width
// columns.
func NewAnswerTrack(marks []Mark, width int) AnswerTrack {
	return AnswerTrack{Marks: marks, Width: width}
}

// Done returns how many questions have been answered.
func (a AnswerTrack) Done() int {
	n := 0
	for _, m := range a.Marks {
		if m == MarkCorrect || m == MarkIncorrect {
			n++
		}
	}
	return n
}

// View renders the track followed by an answered/total counter. Cells
// shrink to a single column when the quiz is too long for the width.
func (a AnswerTrack) View() string {
	if len(a.Marks) == 0 {
		return ""
	}

	counter := fmt.Sprintf("  %d/%d", a.Done(), len(a.Marks))
	avail := a.Width - len(counter)
	cell := 3
	if len(a.Marks)*(cell+1) > avail {
		cell = 1
	}

	cells := make([]string, len(a.Marks))
	for i, m := range a.Marks {
		cells[i] = lipgloss.NewStyle().
			Background(markColor(m)).
			Render(strings.Repeat(" ", cell))
	}

	sep := " "
	if cell == 1 {
		sep = ""
	}
	return strings.Join(cells, sep) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(counter)
}

func markColor(m Mark) color.Color {
	switch m {
	case MarkCurrent:
		return theme.Highlight
	case MarkCorrect:
		return theme.Success
	case MarkIncorrect:
		return theme.Error
	}
	return theme.Border
}
