package quiz

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Builtin returns the bank bundled with the binary.
func Builtin() *Bank {
	b, err := Parse(builtinYAML, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("quiz: built-in bank is invalid: %v", err))
	}
	return b
}

// Resolve loads the bank at path, falling back to QUIZCARD_BANK and then the
// built-in bank.
func Resolve(path string) (*Bank, error) {
	if path == "" {
		path = os.Getenv("QUIZCARD_BANK")
	}
	if path == "" {
		return Builtin(), nil
	}
	return LoadFile(path)
}
