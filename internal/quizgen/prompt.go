package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert quiz generator writing multiple-choice questions.

Rules:
- Each question must have exactly %d options, one of which is the correct answer.
- Options within a question must be distinct.
- correctAnswer must be copied character for character from options.
- For each question, provide a brief explanation for why the correct answer is correct.
- Questions must be answerable from general knowledge of the topic, or from the context when one is given.
- Do not repeat or closely paraphrase any previously asked question.
- Return only JSON matching the schema.`

const exampleOutput = `{
  "questions": [
    {
      "question": "What is the capital of France?",
      "options": ["Berlin", "Madrid", "Paris", "Rome"],
      "correctAnswer": "Paris",
      "explanation": "Paris is the capital of France and its largest city."
    }
  ]
}`

func buildSystemPrompt(cfg Config) string {
	return fmt.Sprintf(systemPrompt, cfg.OptionCount)
}

// buildUserMessage constructs the user message from GenerateInput and Config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d multiple-choice questions about the following topic: %s\n", input.Count, input.Topic)
	fmt.Fprintf(&b, "\nEach question should have %d options, one of which is the correct answer.\n", cfg.OptionCount)

	if dedup := buildDedup(input.PreviousQuestions, cfg.MaxPriorQuestions); dedup != "" {
		b.WriteString("\nImportant: Avoid generating questions that are similar to the following previously asked questions:\n")
		b.WriteString(dedup)
		b.WriteString("\n")
	}

	b.WriteString("\nExample:\n")
	b.WriteString(exampleOutput)

	return b.String()
}
