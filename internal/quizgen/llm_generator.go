package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/quizwise/internal/llm"
)

// LLMGenerator implements Generator and Evaluator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.OptionCount <= 0 {
		cfg.OptionCount = 4
	}
	validators := make([]Validator, len(cfg.Validators))
	for i, v := range cfg.Validators {
		if _, ok := v.(*OptionsValidator); ok {
			v = &OptionsValidator{Want: cfg.OptionCount}
		}
		validators[i] = v
	}
	cfg.Validators = validators
	return &LLMGenerator{provider: provider, config: cfg}
}

// quizOutput is the raw LLM response before validation.
type quizOutput struct {
	Questions []Question `json:"questions"`
}

// GenerateQuestions produces input.Count questions about input.Topic.
// Extra questions are dropped; fewer than requested is an error.
func (g *LLMGenerator) GenerateQuestions(ctx context.Context, input GenerateInput) ([]Question, error) {
	fail := func(err error) ([]Question, error) {
		return nil, &GenerationError{Topic: input.Topic, Err: err}
	}

	if strings.TrimSpace(input.Topic) == "" {
		return fail(errors.New("topic is empty"))
	}
	if input.Count <= 0 {
		return fail(fmt.Errorf("invalid question count %d", input.Count))
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)

	req := llm.Request{
		System: buildSystemPrompt(g.config),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return fail(fmt.Errorf("LLM generation failed: %w", err))
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return fail(fmt.Errorf("failed to parse LLM response: %w", err))
	}

	if len(raw.Questions) == 0 {
		return fail(ErrNoQuestions)
	}
	if len(raw.Questions) < input.Count {
		return fail(fmt.Errorf("expected %d questions, got %d", input.Count, len(raw.Questions)))
	}
	questions := raw.Questions[:input.Count]

	// Run validators in order on every question.
	for i := range questions {
		for _, v := range g.config.Validators {
			if verr := v.Validate(&questions[i]); verr != nil {
				verr.Index = i
				return fail(verr)
			}
		}
	}

	return questions, nil
}
