package quizgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run on every generated question, in order. The first
	// failure rejects the whole batch.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions is the maximum number of prior questions
	// to include in the prompt for deduplication.
	MaxPriorQuestions int

	// OptionCount is the number of options every question must carry. New
	// applies it to every OptionsValidator in Validators.
	OptionCount int
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&OptionsValidator{},
		},
		MaxTokens:         8192,
		Temperature:       0.7,
		MaxPriorQuestions: 20,
		OptionCount:       4,
	}
}
