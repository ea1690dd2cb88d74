package tools

import (
	"errors"
	"testing"
)

func TestValidateParamsRequired(t *testing.T) {
	schema := objectSchema(map[string]Property{
		"title": {Type: "string"},
		"body":  {Type: "string"},
	}, "title")

	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
	}{
		{"present", map[string]any{"title": "hello"}, false},
		{"absent", map[string]any{"body": "x"}, true},
		{"nil value", map[string]any{"title": nil}, true},
		{"empty string", map[string]any{"title": ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateParams(schema, tt.params)
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if verr.Kind != MissingField {
					t.Errorf("kind = %d, want MissingField", verr.Kind)
				}
				if verr.Field != "title" {
					t.Errorf("field = %q, want title", verr.Field)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateParamsTypes(t *testing.T) {
	schema := objectSchema(map[string]Property{
		"name":   {Type: "string"},
		"count":  {Type: "number"},
		"flag":   {Type: "boolean"},
		"items":  {Type: "array"},
		"untyped": {},
	})

	tests := []struct {
		name    string
		params  map[string]any
		wantErr bool
	}{
		{"all correct", map[string]any{"name": "a", "count": float64(3), "flag": true, "items": []any{"x"}}, false},
		{"number as int default", map[string]any{"count": 5}, false},
		{"string for number", map[string]any{"count": "5"}, true},
		{"number for string", map[string]any{"name": float64(1)}, true},
		{"string for boolean", map[string]any{"flag": "true"}, true},
		{"object for array", map[string]any{"items": map[string]any{}}, true},
		{"undeclared passes through", map[string]any{"extra": []any{1, 2}}, false},
		{"untyped is lenient", map[string]any{"untyped": []any{1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateParams(schema, tt.params)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) || verr.Kind != TypeMismatch {
					t.Errorf("expected TypeMismatch, got %v", err)
				}
			}
		})
	}
}

func TestValidateParamsEnum(t *testing.T) {
	schema := objectSchema(map[string]Property{
		"state": {Type: "string", Enum: []string{"open", "closed", "all"}},
	})

	if _, err := ValidateParams(schema, map[string]any{"state": "open"}); err != nil {
		t.Errorf("unexpected error for valid enum value: %v", err)
	}

	_, err := ValidateParams(schema, map[string]any{"state": "pending"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Kind != InvalidValue {
		t.Errorf("kind = %d, want InvalidValue", verr.Kind)
	}
	if len(verr.Allowed) != 3 {
		t.Errorf("allowed = %v, want 3 values", verr.Allowed)
	}
}

func TestValidateParamsDefaults(t *testing.T) {
	schema := objectSchema(merged(pageProps(), map[string]Property{
		"state": {Type: "string", Enum: []string{"open", "closed", "all"}, Default: "open"},
	}))

	out, err := ValidateParams(schema, map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["state"] != "open" {
		t.Errorf("state default = %v, want open", out["state"])
	}
	if out["page"] == nil || out["limit"] == nil {
		t.Error("expected page and limit defaults to be filled in")
	}

	// An explicit value wins over the default.
	out, err = ValidateParams(schema, map[string]any{"state": "closed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["state"] != "closed" {
		t.Errorf("state = %v, want closed", out["state"])
	}
}

func TestValidateParamsDoesNotMutateInput(t *testing.T) {
	schema := objectSchema(map[string]Property{
		"limit": {Type: "number", Default: 20},
	})

	params := map[string]any{}
	if _, err := ValidateParams(schema, params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, exists := params["limit"]; exists {
		t.Error("input map was mutated with defaults")
	}
}

// Every advertised required field must actually be enforced. Sweep the full
// registry so a descriptor typo cannot slip through.
func TestRequiredFieldsEnforcedAcrossRegistry(t *testing.T) {
	registry := newTestRegistry(t)

	for _, tool := range registry.Tools() {
		for _, field := range tool.InputSchema.Required {
			t.Run(tool.Name+"/"+field, func(t *testing.T) {
				// Fill every other required field with a plausible value.
				params := map[string]any{}
				for _, other := range tool.InputSchema.Required {
					if other == field {
						continue
					}
					params[other] = sampleValue(tool.InputSchema.Properties[other])
				}

				_, err := ValidateParams(tool.InputSchema, params)
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError for missing %q, got %v", field, err)
				}
				if verr.Kind != MissingField || verr.Field != field {
					t.Errorf("got %v, want MissingField on %q", verr, field)
				}
			})
		}
	}
}

func sampleValue(prop Property) any {
	switch prop.Type {
	case "number", "integer":
		return float64(1)
	case "boolean":
		return true
	case "array":
		return []any{"x"}
	default:
		if len(prop.Enum) > 0 {
			return prop.Enum[0]
		}
		return "value"
	}
}
