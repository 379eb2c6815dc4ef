package quizgen

import "github.com/abhisek/quizwise/internal/llm"

// QuizSchema defines the JSON schema for quiz generation responses.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A list of multiple-choice quiz questions with answers and explanations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "The generated quiz questions",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The quiz question",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Distinct answer options, as many as the prompt asks for",
						},
						"correctAnswer": map[string]any{
							"type":        "string",
							"description": "The correct answer, copied verbatim from options",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "A brief explanation of why the correct answer is correct",
						},
					},
					"required":             []any{"question", "options", "correctAnswer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// EvaluationSchema defines the JSON schema for answer evaluation responses.
var EvaluationSchema = &llm.Schema{
	Name:        "answer-evaluation",
	Description: "Whether an answer is correct, with feedback for the player",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"isCorrect": map[string]any{
				"type":        "boolean",
				"description": "Whether the user answer is correct",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Why the answer is correct or incorrect",
			},
		},
		"required":             []any{"isCorrect", "feedback"},
		"additionalProperties": false,
	},
}
