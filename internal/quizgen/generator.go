package quizgen

import "context"

// Generator produces multiple-choice quizzes.
type Generator interface {
	// GenerateQuestions returns exactly input.Count validated questions or
	// a *GenerationError.
	GenerateQuestions(ctx context.Context, input GenerateInput) ([]Question, error)
}

// Evaluator grades a free answer against the expected one.
type Evaluator interface {
	// EvaluateAnswer returns the verdict or an *EvaluationError.
	EvaluateAnswer(ctx context.Context, input EvaluateInput) (*Evaluation, error)
}
