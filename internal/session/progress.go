package session

// Progress is the fraction of the quiz behind the displayed question:
// Index / len(Questions), 0 when there are no questions.
func Progress(s *State) float64 {
	if len(s.Questions) == 0 {
		return 0
	}
	return float64(s.Index) / float64(len(s.Questions))
}

// Answered returns how many questions have an answer.
func Answered(s *State) int {
	n := 0
	for _, a := range s.Answers {
		if a != nil {
			n++
		}
	}
	return n
}
