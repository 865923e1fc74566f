package questiongen

import "github.com/abhisek/quizcard/internal/llm"

// ItemsSchema is the structured output requested from the model.
var ItemsSchema = &llm.Schema{
	Name:        "quiz-items",
	Description: "A batch of multiple-choice quiz questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "The question shown to the player",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Answer options in display order; exactly one is correct",
						},
						"correct": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "0-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One or two sentences on why the answer is right",
						},
					},
					"required":             []any{"text", "options", "correct", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"items"},
		"additionalProperties": false,
	},
}
