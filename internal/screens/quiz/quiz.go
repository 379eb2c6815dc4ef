package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizwise/internal/llm"
	"github.com/abhisek/quizwise/internal/router"
	"github.com/abhisek/quizwise/internal/screen"
	"github.com/abhisek/quizwise/internal/session"
	"github.com/abhisek/quizwise/internal/shell"
	"github.com/abhisek/quizwise/internal/ui/components"
	"github.com/abhisek/quizwise/internal/ui/layout"
	"github.com/abhisek/quizwise/internal/ui/theme"
)

const (
	generateTimeout = 2 * time.Minute
	saveWait        = 15 * time.Second
)

// QuizScreen runs one quiz at a time: topic entry, generation, questions
// and the final summary.
type QuizScreen struct {
	shell *shell.Shell
	user  string
	state *session.State

	input       components.TextInput
	countIdx    int
	contextText string

	cancel  context.CancelFunc
	spinner spinner.Model

	choice components.MultiChoice
	result *session.Result
	notice string
	errMsg string

	lastTopic string
	lastCount int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.BackHandler = (*QuizScreen)(nil)

// New creates a quiz screen. topic, when non-empty, is pre-filled.
func New(sh *shell.Shell, user, topic string) *QuizScreen {
	input := components.NewTextInput("e.g. The French Revolution", 120)
	input.SetValue(topic)
	return &QuizScreen{
		shell:    sh,
		user:     user,
		state:    session.New(),
		input:    input,
		countIdx: countIndex(session.DefaultCount),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Highlight)),
		),
	}
}

// WithContext attaches reference text that is sent along with the topic.
func (q *QuizScreen) WithContext(text string) *QuizScreen {
	q.contextText = text
	return q
}

func countIndex(n int) int {
	for i, c := range session.AllowedCounts {
		if c == n {
			return i
		}
	}
	return 0
}

func (q *QuizScreen) count() int {
	return session.AllowedCounts[q.countIdx]
}

func (q *QuizScreen) Init() tea.Cmd {
	return q.input.Init()
}

func (q *QuizScreen) Title() string {
	return "Quiz"
}

// Back aborts the quiz, cancelling any generation in flight.
func (q *QuizScreen) Back() tea.Cmd {
	q.abort()
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (q *QuizScreen) abort() {
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	session.Abort(q.state)
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch q.state.Phase {
	case session.PhaseGenerating:
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	case session.PhaseActive:
		if q.state.CurrentAnswer() != nil {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Next"},
				{Key: "Esc", Description: "Quit quiz"},
			}
		}
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "A-D", Description: "Answer"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit quiz"},
		}
	case session.PhaseFinished:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "N", Description: "New topic"},
			{Key: "Esc", Description: "Home"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start"},
		{Key: "Tab", Description: "Questions"},
		{Key: "Esc", Description: "Back"},
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsReadyMsg:
		return q.handleQuestions(msg)

	case spinner.TickMsg:
		if q.state.Phase != session.PhaseGenerating {
			return q, nil
		}
		var cmd tea.Cmd
		q.spinner, cmd = q.spinner.Update(msg)
		return q, cmd

	case components.ChoiceMsg:
		return q.handleChoice(msg)

	case resultSavedMsg:
		switch {
		case msg.Err != nil:
			q.notice = "Your result could not be saved."
		case msg.TimedOut:
			q.notice = ""
		default:
			q.notice = "Result saved."
		}
		return q, nil

	case tea.KeyMsg:
		return q.handleKey(msg)
	}

	if q.state.Phase == session.PhaseAwaitingTopic {
		var cmd tea.Cmd
		q.input, cmd = q.input.Update(msg)
		return q, cmd
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch q.state.Phase {
	case session.PhaseAwaitingTopic:
		switch key {
		case "tab", "right":
			q.countIdx = (q.countIdx + 1) % len(session.AllowedCounts)
			return q, nil
		case "shift+tab", "left":
			q.countIdx = (q.countIdx + len(session.AllowedCounts) - 1) % len(session.AllowedCounts)
			return q, nil
		case "enter":
			return q, q.start(q.input.Value(), q.count())
		}
		var cmd tea.Cmd
		q.input, cmd = q.input.Update(msg)
		return q, cmd

	case session.PhaseActive:
		if q.state.CurrentAnswer() == nil {
			var cmd tea.Cmd
			q.choice, cmd = q.choice.Update(msg)
			return q, cmd
		}
		switch key {
		case "enter", "space", " ", "n":
			return q.advance()
		}

	case session.PhaseFinished:
		switch key {
		case "r", "R":
			topic, count := q.lastTopic, q.lastCount
			session.Abort(q.state)
			return q, q.start(topic, count)
		case "n", "N":
			session.Abort(q.state)
			q.result = nil
			q.notice = ""
			q.input.SetValue(q.lastTopic)
			return q, q.input.Init()
		case "enter":
			return q, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return q, nil
}

// start begins generation for topic. The model call runs in a command
// under a cancellable context; Back cancels it.
func (q *QuizScreen) start(topic string, count int) tea.Cmd {
	g, err := q.shell.Begin(q.state, q.user, topic, count, q.contextText)
	if err != nil {
		q.input.SetError(errorText(err))
		return nil
	}

	q.errMsg = ""
	q.notice = ""
	q.result = nil
	q.lastTopic = g.Topic
	q.lastCount = g.Count

	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	q.cancel = cancel

	sh := q.shell
	generate := func() tea.Msg {
		qs, err := sh.Generate(ctx, g)
		return questionsReadyMsg{Gen: g, Questions: qs, Err: err}
	}
	return tea.Batch(generate, q.spinner.Tick)
}

func (q *QuizScreen) handleQuestions(msg questionsReadyMsg) (screen.Screen, tea.Cmd) {
	err := q.shell.Complete(q.state, msg.Gen, msg.Questions, msg.Err)
	if errors.Is(err, session.ErrStaleAttempt) {
		return q, nil
	}
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	if err != nil {
		q.errMsg = errorText(err)
		q.input.SetValue(q.lastTopic)
		return q, q.input.Init()
	}
	q.loadQuestion()
	return q, nil
}

func (q *QuizScreen) loadQuestion() {
	cur := q.state.Current()
	if cur == nil {
		return
	}
	q.choice = components.NewMultiChoice(cur.Question, cur.Options)
}

func (q *QuizScreen) handleChoice(msg components.ChoiceMsg) (screen.Screen, tea.Cmd) {
	cur := q.state.Current()
	if cur == nil {
		return q, nil
	}
	ans, err := session.Select(q.state, msg.Option)
	if err != nil {
		return q, nil
	}
	q.choice.Reveal(ans.Selected, cur.CorrectAnswer)
	return q, nil
}

func (q *QuizScreen) advance() (screen.Screen, tea.Cmd) {
	saved := make(chan error, 1)
	res, err := q.shell.Advance(q.state, func(err error) { saved <- err })
	if err != nil {
		return q, nil
	}
	if res == nil {
		q.loadQuestion()
		return q, nil
	}
	q.result = res
	return q, waitSaved(saved)
}

func waitSaved(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		select {
		case err := <-ch:
			return resultSavedMsg{Err: err}
		case <-time.After(saveWait):
			return resultSavedMsg{TimedOut: true}
		}
	}
}

func errorText(err error) string {
	var unauth *llm.ErrUnauthorized
	switch {
	case errors.As(err, &unauth):
		return "The AI provider rejected the API key. Check your configuration."
	case errors.Is(err, session.ErrEmptyTopic):
		return "Please enter a topic."
	case errors.Is(err, session.ErrInvalidCount):
		return "Pick 5, 10 or 20 questions."
	case errors.Is(err, context.Canceled):
		return "Generation was cancelled."
	case errors.Is(err, context.DeadlineExceeded):
		return "The model took too long. Please try again."
	}
	return fmt.Sprintf("Could not create the quiz: %v", err)
}
