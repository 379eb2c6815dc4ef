package chat

import "github.com/abhisek/quizwise/internal/llm"

// textResponseSchema is the output of the text stage.
var textResponseSchema = &llm.Schema{
	Name:        "chat-response",
	Description: "A text answer plus whether an image is essential",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"response": map[string]any{
				"type":        "string",
				"description": "The text-based answer to the user's query",
			},
			"imageRequired": map[string]any{
				"type":        "boolean",
				"description": "True only if the user explicitly asks for an image or an image is essential for the explanation",
			},
		},
		"required":             []any{"response", "imageRequired"},
		"additionalProperties": false,
	},
}
