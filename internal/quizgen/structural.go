package quizgen

import "strings"

const (
	maxQuestionLen    = 1000
	maxOptionLen      = 300
	maxExplanationLen = 2000
)

// StructuralValidator checks that required fields are present and within
// length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	switch {
	case strings.TrimSpace(q.Question) == "":
		return v.fail("question is empty")
	case len(q.Question) > maxQuestionLen:
		return v.fail("question exceeds 1000 characters")
	case strings.TrimSpace(q.Explanation) == "":
		return v.fail("explanation is empty")
	case len(q.Explanation) > maxExplanationLen:
		return v.fail("explanation exceeds 2000 characters")
	case strings.TrimSpace(q.CorrectAnswer) == "":
		return v.fail("correctAnswer is empty")
	}
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return v.fail("option is empty")
		}
		if len(o) > maxOptionLen {
			return v.fail("option exceeds 300 characters")
		}
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *ValidationError {
	return &ValidationError{Validator: v.Name(), Message: msg}
}
