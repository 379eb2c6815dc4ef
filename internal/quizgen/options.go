package quizgen

import (
	"fmt"
	"slices"
)

// OptionsValidator enforces the multiple-choice shape: exactly Want
// distinct options, one of which is the correct answer verbatim.
type OptionsValidator struct {
	Want int
}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *Question) *ValidationError {
	if v.Want > 0 && len(q.Options) != v.Want {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d options, got %d", v.Want, len(q.Options)),
		}
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		if _, dup := seen[o]; dup {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("duplicate option %q", o),
			}
		}
		seen[o] = struct{}{}
	}

	if !slices.Contains(q.Options, q.CorrectAnswer) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("correctAnswer %q is not one of the options", q.CorrectAnswer),
		}
	}
	return nil
}
