package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"puntuacion_general\": 8}\n```",
			expected: `{"puntuacion_general": 8}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"año\": \"2024\"}\n```",
			expected: `{"año": "2024"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "preamble before object",
			input:    "Aquí está el análisis:\n{\"fortalezas\": [\"Liderazgo\"]}",
			expected: `{"fortalezas": ["Liderazgo"]}`,
		},
		{
			name:     "preamble before array",
			input:    "Objetivos:\n[{\"objetivo\": \"Delegar\"}]",
			expected: `[{"objetivo": "Delegar"}]`,
		},
		{
			name:     "trailing text",
			input:    "{\"key\": \"value\"}\n\n¿Necesitas algo más?",
			expected: `{"key": "value"}`,
		},
		{
			name:     "braces inside strings",
			input:    `{"template": "Hola {nombre}!"}`,
			expected: `{"template": "Hola {nombre}!"}`,
		},
		{
			name:     "escaped quotes",
			input:    "Resultado: {\"message\": \"Dijo \\\"hola\\\"\"}",
			expected: `{"message": "Dijo \"hola\""}`,
		},
		{
			name:     "no JSON at all",
			input:    "  sin datos  ",
			expected: "sin datos",
		},
		{
			name:     "unbalanced object kept as is",
			input:    `{"key": "value"`,
			expected: `{"key": "value"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestTrimLeadingModelTurns(t *testing.T) {
	history := []Message{
		{Role: RoleModel, Content: "Hola, soy tu asistente"},
		{Role: RoleUser, Content: "¿Fortalezas?"},
		{Role: RoleModel, Content: "Comunicación"},
	}

	trimmed := trimLeadingModelTurns(history)
	assert.Len(t, trimmed, 2)
	assert.Equal(t, RoleUser, trimmed[0].Role)

	assert.Empty(t, trimLeadingModelTurns([]Message{{Role: RoleModel, Content: "x"}}))
	assert.Empty(t, trimLeadingModelTurns(nil))
}

func TestResponseSchema_String(t *testing.T) {
	schema := &ResponseSchema{
		Type:       TypeObject,
		Properties: map[string]*ResponseSchema{"objetivo": StringSchema("El objetivo")},
		Required:   []string{"objetivo"},
	}

	out := schema.String()
	assert.Contains(t, out, `"type": "object"`)
	assert.Contains(t, out, `"objetivo"`)
	assert.Contains(t, out, `"required"`)
}

func TestResponseSchema_ToGenai(t *testing.T) {
	schema := &ResponseSchema{
		Type:  TypeArray,
		Items: &ResponseSchema{Type: TypeObject, Properties: map[string]*ResponseSchema{"n": {Type: TypeNumber}}},
	}

	g := schema.toGenai()
	assert.NotNil(t, g.Items)
	assert.Contains(t, g.Items.Properties, "n")

	var nilSchema *ResponseSchema
	assert.Nil(t, nilSchema.toGenai())
}
