// Package questiongen writes multiple-choice quiz items on a topic with an
// LLM and checks them before they reach a bank.
package questiongen

// Input describes the items to generate.
type Input struct {
	Topic   string
	Count   int      // number of items wanted
	Options int      // options per item
	Prior   []string // question texts that must not be repeated
}

// Config controls the behaviour of LLMGenerator.
type Config struct {
	// Validators run in order on every item; the first failure rejects it.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// MaxPrior caps how many prior questions are quoted in the prompt.
	MaxPrior int

	// MaxAttempts bounds the LLM calls made to fill Count items.
	MaxAttempts int
}

// DefaultConfig returns the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&OptionsValidator{},
			&DedupValidator{},
		},
		MaxTokens:   2048,
		Temperature: 0.7,
		MaxPrior:    20,
		MaxAttempts: 3,
	}
}

const (
	MinOptions = 2
	MaxOptions = 8
	MaxCount   = 25
)
