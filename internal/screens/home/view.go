package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizwise/internal/ui/components"
	"github.com/abhisek/quizwise/internal/ui/theme"
)

const titleFull = ` ___        _    __        ___
/ _ \ _   _(_)___\ \      / (_)___  ___
| | | | | | | |_  /\ \ /\ / /| / __|/ _ \
| |_| | |_| | |/ /  \ V  V / | \__ \  __/
 \__\_\\__,_|_/___|  \_/\_/  |_|___/\___|`

const titleCompact = "Q · U · I · Z · W · I · S · E"

func (h *HomeScreen) View(width, height int) string {
	compact := height < 22 || width < 100
	cw := components.ContentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		h.renderStats(cw),
		renderMenu(h.menu.Selected, cw),
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func renderTitle(cw int, compact bool) string {
	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).Render(art))
}

func (h *HomeScreen) renderStats(cw int) string {
	accent := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	switch {
	case h.errMsg != "":
		stats = lipgloss.NewStyle().Foreground(theme.Error).Render(h.errMsg)
	default:
		stats = fmt.Sprintf("%s  %s",
			accent.Render(fmt.Sprintf("▤ %d TOPICS", h.topicCount)),
			accent.Render(fmt.Sprintf("★ %d FAVOURITES", h.favourites)),
		)
		if h.last != nil {
			stats += "\n" + dim.Render(fmt.Sprintf("Last quiz: %s  %d/%d",
				h.last.TopicName, h.last.Score, h.last.TotalQuestions))
		} else {
			stats += "\n" + dim.Render("No quizzes yet. Pick a topic to start!")
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Render(stats)
}

func renderMenu(selected, cw int) string {
	buttons := make([]string, len(menuLabels))
	for i, label := range menuLabels {
		buttons[i] = components.ArcadeButton(label+"  ("+menuKeys[i]+")", i == selected, cw-4)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}
