package lexicon

import (
	"fmt"
	"math"
)

// SchemaViolation reports the first field of a record that fails its
// schema check.
type SchemaViolation struct {
	Field  string
	Reason string
}

func (v SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation on %q: %s", v.Field, v.Reason)
}

// Validator checks record payloads against loaded lexicon documents.
type Validator struct {
	registry Registry
}

func NewValidator(registry Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate checks record against the schema registered under schemaID.
// An unknown schemaID is treated as "no schema available" and passes.
// The input record is never mutated.
func (v *Validator) Validate(schemaID string, record map[string]any) error {
	doc, ok := v.registry.Get(schemaID)
	if !ok {
		return nil
	}

	schema := doc.RecordSchema()
	if schema == nil {
		return nil
	}

	return validateObject(schema, record)
}

func validateObject(schema *Object, record map[string]any) error {
	for _, name := range schema.Required {
		if _, ok := record[name]; !ok {
			return SchemaViolation{Field: name, Reason: "required field missing"}
		}
	}

	for name, prop := range schema.Properties {
		value, ok := record[name]
		if !ok || value == nil {
			continue
		}
		if !typeCompatible(prop.Type, value) {
			return SchemaViolation{
				Field:  name,
				Reason: fmt.Sprintf("expected %s", prop.Type),
			}
		}
	}

	return nil
}

func typeCompatible(schemaType string, value any) bool {
	switch schemaType {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		// JSON numbers decode as float64
		f, ok := value.(float64)
		return ok && f == math.Trunc(f)
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	default:
		return true
	}
}
