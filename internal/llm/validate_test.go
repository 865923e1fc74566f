package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-object",
		Description: "A test object",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"age":   map[string]any{"type": "integer", "minimum": 0},
				"grade": map[string]any{"type": "string", "enum": []any{"A", "B", "C"}},
			},
			"required": []any{"name", "age"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"name":"Alice","age":10,"grade":"A"}`, false},
		{"optional omitted", `{"name":"Bob","age":8}`, false},
		{"missing required", `{"name":"Charlie"}`, true},
		{"wrong type", `{"name":"Dave","age":"ten"}`, true},
		{"below minimum", `{"name":"Eve","age":-1}`, true},
		{"bad enum", `{"name":"Fay","age":3,"grade":"Z"}`, true},
		{"not json", `here you go: {"name":"x"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
				if string(inv.Content) != tt.raw {
					t.Errorf("content = %s, want original payload", inv.Content)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not json`)); err != nil {
		t.Fatalf("nil schema should accept anything, got %v", err)
	}
}

func TestCompileSchema_Cached(t *testing.T) {
	s := testSchema()
	s.Name = "cache-check"
	a, err := compileSchema(s)
	if err != nil {
		t.Fatal(err)
	}
	b, err := compileSchema(s)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("expected the cached compiled schema to be reused")
	}
}
