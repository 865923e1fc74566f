package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const bankSchemaURL = "schema://quiz-bank.json"

// bankSchema is the structural contract for bank files. Semantic checks
// (index ranges, duplicates) live in Normalize.
var bankSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"version":     map[string]any{"type": "string", "minLength": 1},
		"title":       map[string]any{"type": "string", "minLength": 1},
		"description": map[string]any{"type": "string"},
		"items": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":   map[string]any{"type": "string"},
					"text": map[string]any{"type": "string", "minLength": 1},
					"options": map[string]any{
						"type":     "array",
						"minItems": 2,
						"maxItems": 8,
						"items":    map[string]any{"type": "string", "minLength": 1},
					},
					"correct":     map[string]any{"type": "integer", "minimum": 0},
					"explanation": map[string]any{"type": "string"},
					"category":    map[string]any{"type": "string"},
				},
				"required":             []any{"text", "options", "correct"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"version", "title", "items"},
	"additionalProperties": false,
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledBankSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// Round-trip through JSON so the compiler sees plain JSON values.
		raw, err := json.Marshal(bankSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal bank schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			compileErr = fmt.Errorf("parse bank schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(bankSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add bank schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(bankSchemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks a decoded document (JSON values only) against the
// bank schema.
func validateDocument(doc any) error {
	sch, err := compiledBankSchema()
	if err != nil {
		return err
	}
	return sch.Validate(doc)
}
