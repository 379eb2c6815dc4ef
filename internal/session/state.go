package session

import "github.com/abhisek/quizwise/internal/quizgen"

// Phase represents the lifecycle phase of a quiz attempt.
type Phase int

const (
	PhaseAwaitingTopic Phase = iota // Waiting for a topic submission
	PhaseGenerating                 // Questions are being generated
	PhaseActive                     // Serving questions
	PhaseFinished                   // All questions answered
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingTopic:
		return "awaiting_topic"
	case PhaseGenerating:
		return "generating"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// Attempt identifies one generation request. A result carrying an older
// attempt than the state's is stale and dropped.
type Attempt uint64

// Answer is the write-once record of a player's choice on one question.
type Answer struct {
	Selected    string `json:"selected"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

// State tracks one quiz attempt. The zero value is ready to use and sits
// in PhaseAwaitingTopic.
type State struct {
	// Phase is the current lifecycle phase.
	Phase Phase

	// Topic is the name the quiz was started with, without context.
	Topic string

	// Count is the number of questions requested.
	Count int

	// User owns the attempt. Results are recorded against it even if the
	// caller signs in or out before the quiz finishes. Empty is anonymous.
	User string

	// Questions are the generated questions, fixed once Active.
	Questions []quizgen.Question

	// Index is the position of the displayed question. It equals
	// len(Questions) once Finished.
	Index int

	// Answers has one slot per question, nil until answered.
	Answers []*Answer

	// Score is the number of correct answers so far.
	Score int

	// Err is the last generation failure, cleared by the next Begin.
	Err error

	attempt Attempt
}

// New returns a fresh state awaiting a topic.
func New() *State {
	return &State{}
}

// Attempt returns the id of the current generation attempt.
func (s *State) Attempt() Attempt { return s.attempt }

// Current returns the displayed question, or nil outside PhaseActive.
func (s *State) Current() *quizgen.Question {
	if s.Phase != PhaseActive || s.Index >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Index]
}

// CurrentAnswer returns the answer recorded for the displayed question,
// or nil if it is still pending.
func (s *State) CurrentAnswer() *Answer {
	if s.Phase != PhaseActive || s.Index >= len(s.Answers) {
		return nil
	}
	return s.Answers[s.Index]
}

// reset discards all transient state and invalidates in-flight attempts.
func (s *State) reset() {
	s.Phase = PhaseAwaitingTopic
	s.Topic = ""
	s.Count = 0
	s.User = ""
	s.Questions = nil
	s.Index = 0
	s.Answers = nil
	s.Score = 0
	s.attempt++
}
