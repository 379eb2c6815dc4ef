package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/quizwise/internal/quizgen"
)

// DefaultCount is used when Begin is called with a zero count.
const DefaultCount = 10

// AllowedCounts are the selectable quiz lengths.
var AllowedCounts = []int{5, 10, 20}

var (
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current phase.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrNotAnswered is returned by Advance before the current question
	// has an answer.
	ErrNotAnswered = errors.New("current question has not been answered")

	// ErrUnknownOption is returned by Select for an option that is not on
	// the current question.
	ErrUnknownOption = errors.New("option is not one of the choices")

	// ErrEmptyTopic is returned by Begin for a blank topic.
	ErrEmptyTopic = errors.New("topic is empty")

	// ErrInvalidCount is returned by Begin for a count outside AllowedCounts.
	ErrInvalidCount = errors.New("question count must be 5, 10 or 20")

	// ErrStaleAttempt is returned when a generation result arrives for an
	// attempt that was aborted or superseded.
	ErrStaleAttempt = errors.New("generation result is stale")
)

func invalid(op string, p Phase) error {
	return fmt.Errorf("%s in phase %s: %w", op, p, ErrInvalidTransition)
}

// Begin moves AwaitingTopic → Generating and returns the attempt id the
// generation result must be reported with. A zero count means DefaultCount.
func Begin(s *State, topic string, count int) (Attempt, error) {
	if s.Phase != PhaseAwaitingTopic {
		return 0, invalid("begin", s.Phase)
	}
	return start(s, topic, count)
}

// Restart is Begin from any phase but Generating. The quiz on screen is
// only discarded once topic and count have been accepted.
func Restart(s *State, topic string, count int) (Attempt, error) {
	if s.Phase == PhaseGenerating {
		return 0, invalid("restart", s.Phase)
	}
	return start(s, topic, count)
}

func start(s *State, topic string, count int) (Attempt, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return 0, ErrEmptyTopic
	}
	if count == 0 {
		count = DefaultCount
	}
	if !slices.Contains(AllowedCounts, count) {
		return 0, ErrInvalidCount
	}

	s.reset()
	s.Phase = PhaseGenerating
	s.Topic = topic
	s.Count = count
	s.Err = nil
	return s.attempt, nil
}

// Loaded moves Generating → Active with the generated questions. An empty
// list is treated as a generation failure.
func Loaded(s *State, a Attempt, questions []quizgen.Question) error {
	if a != s.attempt {
		return ErrStaleAttempt
	}
	if s.Phase != PhaseGenerating {
		return invalid("loaded", s.Phase)
	}
	if len(questions) == 0 {
		err := &quizgen.GenerationError{Topic: s.Topic, Err: quizgen.ErrNoQuestions}
		_ = Failed(s, a, err)
		return err
	}

	s.Phase = PhaseActive
	s.Questions = questions
	s.Answers = make([]*Answer, len(questions))
	s.Index = 0
	s.Score = 0
	return nil
}

// Failed moves Generating → AwaitingTopic, recording err and discarding
// everything else.
func Failed(s *State, a Attempt, err error) error {
	if a != s.attempt {
		return ErrStaleAttempt
	}
	if s.Phase != PhaseGenerating {
		return invalid("failed", s.Phase)
	}
	s.reset()
	s.Err = err
	return nil
}

// Select records option as the answer to the current question. Only the
// first selection counts; later ones return the original answer unchanged.
func Select(s *State, option string) (*Answer, error) {
	q := s.Current()
	if q == nil {
		return nil, invalid("select", s.Phase)
	}
	if ans := s.Answers[s.Index]; ans != nil {
		return ans, nil
	}
	if !slices.Contains(q.Options, option) {
		return nil, ErrUnknownOption
	}

	ans := &Answer{
		Selected:    option,
		Correct:     option == q.CorrectAnswer,
		Explanation: q.Explanation,
	}
	s.Answers[s.Index] = ans
	if ans.Correct {
		s.Score++
	}
	return ans, nil
}

// Advance moves to the next question. Past the last one the state becomes
// Finished and the returned Result is non-nil.
func Advance(s *State) (*Result, error) {
	if s.Phase != PhaseActive {
		return nil, invalid("advance", s.Phase)
	}
	if s.Answers[s.Index] == nil {
		return nil, ErrNotAnswered
	}

	s.Index++
	if s.Index < len(s.Questions) {
		return nil, nil
	}

	s.Phase = PhaseFinished
	return BuildResult(s), nil
}

// Abort returns to AwaitingTopic from any phase. Nothing is persisted and
// any in-flight generation becomes stale.
func Abort(s *State) {
	s.reset()
	s.Err = nil
}
