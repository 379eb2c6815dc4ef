package quiz

import (
	"github.com/abhisek/quizwise/internal/quizgen"
	"github.com/abhisek/quizwise/internal/shell"
)

// questionsReadyMsg carries the outcome of a generation started by Begin.
type questionsReadyMsg struct {
	Gen       *shell.Generation
	Questions []quizgen.Question
	Err       error
}

// resultSavedMsg reports the background save of a finished quiz.
type resultSavedMsg struct {
	Err      error
	TimedOut bool
}
