package quizgen

// Question is a generated multiple-choice question.
type Question struct {
	// Question is the prompt shown to the player.
	Question string `json:"question"`

	// Options are the choices in display order. Always unique.
	Options []string `json:"options"`

	// CorrectAnswer equals exactly one entry of Options (case-sensitive).
	CorrectAnswer string `json:"correctAnswer"`

	// Explanation says why the correct answer is correct. Shown after the
	// player answers.
	Explanation string `json:"explanation"`
}

// GenerateInput holds everything needed to generate a quiz.
type GenerateInput struct {
	// Topic is the subject, possibly followed by a "Context:" section.
	Topic string

	// Count is the number of questions wanted.
	Count int

	// PreviousQuestions are question texts already asked on this topic,
	// oldest first. Only the most recent ones reach the prompt.
	PreviousQuestions []string
}

// EvaluateInput describes a single answer to grade.
type EvaluateInput struct {
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correctAnswer"`
	Topic         string `json:"topic"`

	// Image and Video are optional media references, passed through.
	Image string `json:"image,omitempty"`
	Video string `json:"video,omitempty"`
}

// Evaluation is the model's verdict on an answer.
type Evaluation struct {
	IsCorrect bool   `json:"isCorrect"`
	Feedback  string `json:"feedback"`
	Image     string `json:"image,omitempty"`
	Video     string `json:"video,omitempty"`
}

// Texts returns the question texts of qs in order.
func Texts(qs []Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Question
	}
	return out
}
