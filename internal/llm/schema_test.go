package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testSchema = &Schema{
	Name: "test-widget",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"count": map[string]any{"type": "integer"},
		},
		"required": []any{"name", "count"},
	},
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid payload", `{"name":"a","count":2}`, false},
		{"missing required", `{"name":"a"}`, true},
		{"wrong type", `{"name":"a","count":"two"}`, true},
		{"extra fields allowed", `{"name":"a","count":2,"extra":true}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := testSchema.Validate(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSchemaValidate_NilSchemaAcceptsEverything(t *testing.T) {
	var s *Schema
	assert.NoError(t, s.Validate(json.RawMessage(`{"anything":"goes"}`)))
}
