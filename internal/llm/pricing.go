package llm

import "strings"

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost is the USD price of a request with the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1_000_000
}

// modelCosts holds list prices (models.dev, 2026-02). Keys are model IDs or
// family prefixes; dated snapshots resolve through the longest prefix.
var modelCosts = map[string]ModelCost{
	"claude-3-5-haiku":  {0.8, 4},
	"claude-3-7-sonnet": {3, 15},
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4":   {3, 15},
	"claude-opus-4-5":   {5, 25},
	"claude-opus-4":     {15, 75},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-pro":        {1.25, 10},

	"google/gemini-2.0-flash-exp": {0, 0},
}

// LookupCost returns pricing for a model ID, or nil when unknown. OpenRouter
// IDs ("openai/gpt-4o") fall back to the bare model name.
func LookupCost(modelID string) *ModelCost {
	for _, id := range []string{modelID, modelID[strings.LastIndex(modelID, "/")+1:]} {
		best := ""
		for key := range modelCosts {
			if strings.HasPrefix(id, key) && len(key) > len(best) {
				best = key
			}
		}
		if best != "" {
			c := modelCosts[best]
			return &c
		}
	}
	return nil
}
