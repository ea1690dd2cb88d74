package tools

import (
	"fmt"
	"strings"
)

// ValidationKind classifies parameter validation failures.
type ValidationKind int

const (
	// MissingField: a required parameter is absent or empty.
	MissingField ValidationKind = iota
	// TypeMismatch: a parameter has the wrong JSON type.
	TypeMismatch
	// InvalidValue: a parameter is outside its enumerated domain.
	InvalidValue
)

// ValidationError is a local, pre-network parameter failure.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Want    string   // expected type, for TypeMismatch
	Got     string   // actual type, for TypeMismatch
	Allowed []string // allowed values, for InvalidValue
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("missing required parameter: %s", e.Field)
	case TypeMismatch:
		return fmt.Sprintf("parameter %q: expected %s, got %s", e.Field, e.Want, e.Got)
	default:
		return fmt.Sprintf("parameter %q: must be one of: %s", e.Field, strings.Join(e.Allowed, ", "))
	}
}

// ValidateParams checks params against an InputSchema.
//   - Required fields: the first absent/empty one (in schema order) fails
//     with MissingField.
//   - Type check: provided values must match their declared property type.
//   - Enum check: values with an enumerated domain must be inside it.
//   - Defaults: absent optional fields take the documented default.
//
// Validation is pure: the returned map is a shallow copy and no I/O
// happens here. Extra params not in the schema pass through unchecked.
func ValidateParams(schema InputSchema, params map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(params)+2)
	for k, v := range params {
		out[k] = v
	}

	// Required fields, reported in declared order for stable messages.
	for _, key := range schema.Required {
		val, exists := out[key]
		if !exists || val == nil {
			return nil, &ValidationError{Kind: MissingField, Field: key}
		}
		if s, ok := val.(string); ok && s == "" {
			return nil, &ValidationError{Kind: MissingField, Field: key}
		}
	}

	for key, val := range out {
		prop, declared := schema.Properties[key]
		if !declared || val == nil {
			continue
		}
		if err := checkType(key, val, prop.Type); err != nil {
			return nil, err
		}
		if len(prop.Enum) > 0 {
			s, ok := val.(string)
			if !ok || !contains(prop.Enum, s) {
				return nil, &ValidationError{Kind: InvalidValue, Field: key, Allowed: prop.Enum}
			}
		}
	}

	// Substitute documented defaults for absent optional fields.
	for key, prop := range schema.Properties {
		if prop.Default == nil {
			continue
		}
		if v, exists := out[key]; !exists || v == nil {
			out[key] = prop.Default
		}
	}

	return out, nil
}

// checkType verifies that val matches the expected JSON Schema type.
func checkType(key string, val any, expectedType string) error {
	switch expectedType {
	case "string":
		if _, ok := val.(string); !ok {
			return &ValidationError{Kind: TypeMismatch, Field: key, Want: "string", Got: typeName(val)}
		}
	case "number", "integer":
		// JSON numbers arrive as float64; defaults may be Go ints.
		switch val.(type) {
		case float64, int, int64:
		default:
			return &ValidationError{Kind: TypeMismatch, Field: key, Want: "number", Got: typeName(val)}
		}
	case "boolean":
		if _, ok := val.(bool); !ok {
			return &ValidationError{Kind: TypeMismatch, Field: key, Want: "boolean", Got: typeName(val)}
		}
	case "array":
		if _, ok := val.([]any); !ok {
			return &ValidationError{Kind: TypeMismatch, Field: key, Want: "array", Got: typeName(val)}
		}
	case "object":
		if _, ok := val.(map[string]any); !ok {
			return &ValidationError{Kind: TypeMismatch, Field: key, Want: "object", Got: typeName(val)}
		}
		// "" or unknown types: skip check (lenient)
	}
	return nil
}

func typeName(val any) string {
	switch val.(type) {
	case string:
		return "string"
	case float64, int, int64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", val)
	}
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
