package chat

import (
	"strings"

	"charm.land/lipgloss/v2"

	chatsvc "github.com/abhisek/quizwise/internal/chat"
	"github.com/abhisek/quizwise/internal/ui/theme"
)

func (c *ChatScreen) View(width, height int) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	if c.session == nil {
		body := theme.Title.Width(inner).Render("Chat with your tutor") + "\n\n" +
			theme.Subtitle.Width(inner).Render("Enter a topic to begin.") + "\n\n" +
			c.input.View()
		return lipgloss.NewStyle().Padding(1, 2).Render(body)
	}

	var lines []string
	for _, m := range c.session.Messages() {
		label := theme.AssistantBubble.Render(roleLabel(m.Role))
		if m.Role == chatsvc.RoleUser {
			label = theme.UserBubble.Render(roleLabel(m.Role))
		}
		stamp := lipgloss.NewStyle().Foreground(theme.TextDim).Render(formatTime(m.CreatedAt))
		lines = append(lines, label+" "+stamp)
		lines = append(lines, theme.Body.Width(inner).Render(m.Content))
		if att := attachmentSummary(m); att != "" {
			lines = append(lines, theme.Attachment.Render(att))
		}
		for _, w := range m.Warnings {
			lines = append(lines, theme.Warning.Render("! "+w))
		}
		lines = append(lines, "")
	}
	if c.session.Busy() {
		lines = append(lines, theme.Hint.Render("Tutor is thinking..."), "")
	}

	transcript := strings.Join(lines, "\n")

	var footer []string
	if c.errMsg != "" {
		footer = append(footer, lipgloss.NewStyle().Foreground(theme.Error).Render(c.errMsg))
	}
	if c.notice != "" {
		footer = append(footer, theme.Hint.Render(c.notice))
	}
	footer = append(footer, c.input.View())
	bottom := strings.Join(footer, "\n")

	// Show the tail of the transcript that fits above the input.
	avail := height - lipgloss.Height(bottom) - 3
	if avail < 1 {
		avail = 1
	}
	rendered := strings.Split(transcript, "\n")
	if len(rendered) > avail {
		rendered = rendered[len(rendered)-avail:]
	}

	return lipgloss.NewStyle().Padding(1, 2).
		Render(strings.Join(rendered, "\n") + "\n" + bottom)
}
