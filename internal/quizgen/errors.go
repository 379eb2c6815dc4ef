package quizgen

import (
	"errors"
	"fmt"
)

// ErrNoQuestions is returned when the model produced an empty quiz.
var ErrNoQuestions = errors.New("no questions were generated")

// GenerationError wraps every failure of question generation: provider
// errors, schema mismatches, validator rejections and empty output.
type GenerationError struct {
	Topic string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate quiz: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// EvaluationError wraps every failure of answer evaluation.
type EvaluationError struct {
	Err error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate answer: %v", e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
