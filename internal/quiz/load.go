package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Format is a bank file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the encoding from a file extension. Anything that is not
// .json is read as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile reads, parses and validates a bank file.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	bank, err := Parse(data, FormatFor(path))
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) && verr.Path == "" {
			verr.Path = path
		}
		return nil, err
	}
	return bank, nil
}

// Parse decodes and validates a bank in the given format.
func Parse(data []byte, format Format) (*Bank, error) {
	doc, err := decodeDocument(data, format)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(doc); err != nil {
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}

	var bank Bank
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&bank); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&bank); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	return Normalize(bank)
}

// decodeDocument turns a single-document file into plain JSON values for
// schema validation.
func decodeDocument(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			if err == nil {
				return nil, fmt.Errorf("parse json: multiple documents are not supported")
			}
			return nil, fmt.Errorf("parse json: %w", err)
		}
		return doc, nil
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("parse yaml: empty document")
			}
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			if err == nil {
				return nil, fmt.Errorf("parse yaml: multiple documents are not supported")
			}
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		out, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		return out, nil
	}
}

// Normalize trims text, assigns missing IDs and runs the semantic checks the
// schema cannot express. All problems are reported together.
func Normalize(b Bank) (*Bank, error) {
	var problems []string

	b.Version = strings.TrimSpace(b.Version)
	b.Title = strings.TrimSpace(b.Title)
	switch {
	case !semver.IsValid(b.Version):
		problems = append(problems, fmt.Sprintf("version %q is not a semantic version (want e.g. v1.0.0)", b.Version))
	case semver.Major(b.Version) != SupportedMajor:
		problems = append(problems, fmt.Sprintf("version %s is not supported (want %s.x.y)", b.Version, SupportedMajor))
	}
	if b.Title == "" {
		problems = append(problems, "title is empty")
	}
	if len(b.Items) == 0 {
		problems = append(problems, "bank has no items")
	}

	seen := make(map[string]int, len(b.Items))
	items := make([]Item, len(b.Items))
	for i, it := range b.Items {
		it.ID = strings.TrimSpace(it.ID)
		if it.ID == "" {
			it.ID = fmt.Sprintf("q%d", i+1)
		}
		it.Text = strings.TrimSpace(it.Text)
		opts := make([]string, len(it.Options))
		for j, o := range it.Options {
			opts[j] = strings.TrimSpace(o)
		}
		it.Options = opts

		where := fmt.Sprintf("item %d (%s)", i+1, it.ID)
		if prev, dup := seen[it.ID]; dup {
			problems = append(problems, fmt.Sprintf("%s: duplicate id, first used by item %d", where, prev+1))
		} else {
			seen[it.ID] = i
		}
		problems = append(problems, checkItem(where, it)...)
		items[i] = it
	}
	b.Items = items

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return &b, nil
}

// checkItem returns the semantic problems of a single item.
func checkItem(where string, it Item) []string {
	var problems []string
	if it.Text == "" {
		problems = append(problems, where+": text is empty")
	}
	if len(it.Options) < 2 {
		problems = append(problems, fmt.Sprintf("%s: need at least 2 options, got %d", where, len(it.Options)))
	}
	if it.Correct < 0 || it.Correct >= len(it.Options) {
		problems = append(problems, fmt.Sprintf("%s: correct index %d out of range [0,%d)", where, it.Correct, len(it.Options)))
	}
	dup := make(map[string]bool, len(it.Options))
	for j, o := range it.Options {
		if o == "" {
			problems = append(problems, fmt.Sprintf("%s: option %d is empty", where, j+1))
			continue
		}
		key := strings.ToLower(o)
		if dup[key] {
			problems = append(problems, fmt.Sprintf("%s: option %q appears more than once", where, o))
		}
		dup[key] = true
	}
	return problems
}

// Write encodes the bank in the given format.
func Write(w io.Writer, b *Bank, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return err
		}
		return enc.Close()
	}
}
