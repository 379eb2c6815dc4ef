package session

// Result is the outcome of a finished quiz.
type Result struct {
	Topic          string  `json:"topicName"`
	Score          int     `json:"score"`
	TotalQuestions int     `json:"totalQuestions"`
	Accuracy       float64 `json:"accuracy"`
}

// BuildResult creates a Result from the current session state. Score is
// recounted from the answers so it always matches them.
func BuildResult(s *State) *Result {
	score := 0
	for _, a := range s.Answers {
		if a != nil && a.Correct {
			score++
		}
	}

	total := len(s.Questions)
	var accuracy float64
	if total > 0 {
		accuracy = float64(score) / float64(total)
	}

	return &Result{
		Topic:          s.Topic,
		Score:          score,
		TotalQuestions: total,
		Accuracy:       accuracy,
	}
}
