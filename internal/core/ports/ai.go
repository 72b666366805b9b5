package ports

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/turfworks/greenmaster/internal/core/domain"
)

// FieldType enumerates the value types a declared output shape may use.
type FieldType string

const (
	FieldString     FieldType = "string"
	FieldNumber     FieldType = "number"
	FieldBool       FieldType = "bool"
	FieldStringList FieldType = "string_list"
)

// ShapeField declares one field of a structured-extraction output.
type ShapeField struct {
	Name     string
	Type     FieldType
	Required bool
	// Enum, when non-empty, restricts a string field to the listed values.
	Enum []string
	// Default fills the field when the model omits it and it is optional.
	Default any
}

// Shape declares the expected JSON output of a structured generation call.
type Shape struct {
	Fields []ShapeField
}

// GenerateRequest is a text prompt plus optional serialized context records
// and, for structured extraction, a declared output shape.
type GenerateRequest struct {
	Prompt  string
	Context string
	Shape   *Shape
}

// Generator is the abstracted "generate text or structured data from prompt"
// capability. Retry policy is the implementation's concern, not the caller's.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Parse validates raw model output against the shape. Optional missing fields
// are filled with their defaults; a missing required field, an unparseable
// body, a type mismatch, or an enum violation is a hard failure wrapping
// domain.ErrBadAIResponse.
func (s *Shape) Parse(raw string) (map[string]any, error) {
	body := stripFences(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadAIResponse, err)
	}

	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		v, ok := parsed[f.Name]
		if !ok || v == nil {
			if f.Required {
				return nil, fmt.Errorf("%w: missing required field %q", domain.ErrBadAIResponse, f.Name)
			}
			out[f.Name] = f.defaultValue()
			continue
		}
		coerced, err := f.coerce(v)
		if err != nil {
			return nil, err
		}
		out[f.Name] = coerced
	}
	return out, nil
}

func (f ShapeField) defaultValue() any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Type {
	case FieldNumber:
		return float64(0)
	case FieldBool:
		return false
	case FieldStringList:
		return []string{}
	default:
		return ""
	}
}

func (f ShapeField) coerce(v any) (any, error) {
	switch f.Type {
	case FieldString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not a string", domain.ErrBadAIResponse, f.Name)
		}
		if len(f.Enum) > 0 && !contains(f.Enum, s) {
			return nil, fmt.Errorf("%w: field %q value %q not in enum", domain.ErrBadAIResponse, f.Name, s)
		}
		return s, nil
	case FieldNumber:
		n, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not a number", domain.ErrBadAIResponse, f.Name)
		}
		return n, nil
	case FieldBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not a bool", domain.ErrBadAIResponse, f.Name)
		}
		return b, nil
	case FieldStringList:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: field %q is not a list", domain.ErrBadAIResponse, f.Name)
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			s, ok := it.(string)
			if !ok {
				return nil, fmt.Errorf("%w: field %q contains a non-string item", domain.ErrBadAIResponse, f.Name)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: field %q has unknown type %q", domain.ErrBadAIResponse, f.Name, f.Type)
	}
}

// stripFences removes a surrounding markdown code fence, which models add
// even when told not to.
func stripFences(raw string) string {
	body := strings.TrimSpace(raw)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	body = strings.TrimPrefix(body, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}

func contains(list []string, s string) bool {
	for _, it := range list {
		if it == s {
			return true
		}
	}
	return false
}
