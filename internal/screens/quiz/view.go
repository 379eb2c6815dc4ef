package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizwise/internal/session"
	"github.com/abhisek/quizwise/internal/ui/components"
	"github.com/abhisek/quizwise/internal/ui/theme"
)

func (q *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var content string
	switch q.state.Phase {
	case session.PhaseGenerating:
		content = q.renderGenerating(cw)
	case session.PhaseActive:
		content = q.renderQuestion(cw)
	case session.PhaseFinished:
		content = q.renderSummary(cw)
	default:
		content = q.renderSetup(cw)
	}
	return components.CabinetFrame(content, width, height)
}

func (q *QuizScreen) renderSetup(cw int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(cw).Render("What do you want to be quizzed on?"))
	b.WriteString("\n\n")
	b.WriteString(q.input.View())
	b.WriteString("\n\n")

	counts := make([]string, len(session.AllowedCounts))
	for i, c := range session.AllowedCounts {
		label := fmt.Sprintf(" %d ", c)
		if i == q.countIdx {
			counts[i] = lipgloss.NewStyle().
				Background(theme.Highlight).
				Foreground(theme.BgDark).
				Bold(true).
				Render(label)
		} else {
			counts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
		}
	}
	b.WriteString(theme.Body.Render("Questions: ") + strings.Join(counts, " "))

	if q.contextText != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Context attached (%d characters)", len(q.contextText))))
	}

	if q.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Width(cw).Render(q.errMsg))
	}

	return components.ArcadeCard(b.String(), cw)
}

func (q *QuizScreen) renderGenerating(cw int) string {
	text := fmt.Sprintf("%s  Writing %d questions about %s...",
		q.spinner.View(),
		q.state.Count,
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(q.state.Topic))
	return components.ArcadeCard(text+"\n\n"+theme.Hint.Render("Press Esc to cancel"), cw)
}

func (q *QuizScreen) renderQuestion(cw int) string {
	var b strings.Builder

	info := fmt.Sprintf("%s   Q %d/%d   Score %d",
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(q.state.Topic),
		q.state.Index+1, len(q.state.Questions), q.state.Score)
	b.WriteString(info)
	b.WriteString("\n")
	b.WriteString(components.NewAnswerTrack(answerMarks(q.state), cw-4).View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(cw - 4).Render(q.choice.View()))

	if ans := q.state.CurrentAnswer(); ans != nil {
		b.WriteString("\n")
		if ans.Correct {
			b.WriteString(theme.Correct.Render("✓ Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("✗ Not quite. The answer was " + q.state.Current().CorrectAnswer))
		}
		if ans.Explanation != "" {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw - 4).Render(ans.Explanation))
		}
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Press Enter for the next question"))
	}

	return lipgloss.NewStyle().Width(cw).Render(b.String())
}

func (q *QuizScreen) renderSummary(cw int) string {
	res := q.result
	if res == nil {
		res = session.BuildResult(q.state)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw - 6).Render("Quiz complete!"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(res.Topic))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).
		Render(fmt.Sprintf("%d / %d", res.Score, res.TotalQuestions)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("  (%d%%)", int(res.Accuracy*100+0.5))))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(verdict(res.Accuracy)))

	if q.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Warning.Render(q.notice))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("[R] Retry   [N] New topic   [Esc] Home"))
	return components.ArcadeCard(b.String(), cw)
}

func verdict(accuracy float64) string {
	switch {
	case accuracy >= 0.9:
		return "Outstanding!"
	case accuracy >= 0.7:
		return "Great job!"
	case accuracy >= 0.5:
		return "Good effort. Keep practising!"
	}
	return "Keep at it, every quiz helps."
}

// answerMarks maps the state's answers onto track cells.
func answerMarks(st *session.State) []components.Mark {
	marks := make([]components.Mark, len(st.Questions))
	for i := range marks {
		switch {
		case i < len(st.Answers) && st.Answers[i] != nil && st.Answers[i].Correct:
			marks[i] = components.MarkCorrect
		case i < len(st.Answers) && st.Answers[i] != nil:
			marks[i] = components.MarkIncorrect
		case i == st.Index:
			marks[i] = components.MarkCurrent
		}
	}
	return marks
}
