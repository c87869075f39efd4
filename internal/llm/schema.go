package llm

import (
	"encoding/json"

	"github.com/google/generative-ai-go/genai"
)

// SchemaType is a JSON type name used in response schemas
type SchemaType string

// Supported schema types
const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
)

// ResponseSchema constrains the shape of a structured response.
// It is provider neutral; each client translates it to its native form.
type ResponseSchema struct {
	Type        SchemaType                 `json:"type"`
	Description string                     `json:"description,omitempty"`
	Properties  map[string]*ResponseSchema `json:"properties,omitempty"`
	Required    []string                   `json:"required,omitempty"`
	Items       *ResponseSchema            `json:"items,omitempty"`
	Nullable    bool                       `json:"nullable,omitempty"`
}

// String renders the schema as indented JSON, for prompt-level constraints
func (s *ResponseSchema) String() string {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// StringSchema is a shorthand for a described string property
func StringSchema(description string) *ResponseSchema {
	return &ResponseSchema{Type: TypeString, Description: description}
}

// StringListSchema is a shorthand for a described list of strings
func StringListSchema(description string) *ResponseSchema {
	return &ResponseSchema{Type: TypeArray, Description: description, Items: &ResponseSchema{Type: TypeString}}
}

// toGenai converts the schema into the Gemini representation
func (s *ResponseSchema) toGenai() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
		Nullable:    s.Nullable,
		Items:       s.Items.toGenai(),
	}
	switch s.Type {
	case TypeString:
		out.Type = genai.TypeString
	case TypeNumber:
		out.Type = genai.TypeNumber
	case TypeInteger:
		out.Type = genai.TypeInteger
	case TypeBoolean:
		out.Type = genai.TypeBoolean
	case TypeArray:
		out.Type = genai.TypeArray
	default:
		out.Type = genai.TypeObject
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.toGenai()
		}
	}
	return out
}
