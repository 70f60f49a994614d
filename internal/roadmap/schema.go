package roadmap

import (
	"fmt"
	"strings"
)

// FieldKind is the coarse type a validated field must carry. Validation is
// deliberately shallow: nested object shapes beyond one level are not
// checked.
type FieldKind int

const (
	KindAny FieldKind = iota
	KindString
	KindList
	KindInt
	KindNumber
	KindObject
)

func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindInt:
		return "int"
	case KindNumber:
		return "number"
	case KindObject:
		return "object"
	default:
		return "any"
	}
}

// FieldSpec declares one required field: its name, coarse kind, and an
// optional enum of allowed string values.
type FieldSpec struct {
	Name string
	Kind FieldKind
	Enum []string
}

// Schema is the per-stage required-field set.
type Schema struct {
	Name   string
	Fields []FieldSpec
}

// Validate checks obj against the schema: every field present, kind matched,
// enum respected. The first violation wins.
func Validate(obj map[string]any, schema Schema) error {
	for _, f := range schema.Fields {
		val, ok := obj[f.Name]
		if !ok {
			return &SchemaViolationError{Schema: schema.Name, Field: f.Name, Reason: "is missing"}
		}
		if err := checkKind(schema.Name, f, val); err != nil {
			return err
		}
	}
	return nil
}

func checkKind(schemaName string, f FieldSpec, val any) error {
	switch f.Kind {
	case KindAny:
		return nil
	case KindString:
		s, ok := val.(string)
		if !ok {
			return &SchemaViolationError{Schema: schemaName, Field: f.Name, Reason: "must be a string"}
		}
		if len(f.Enum) > 0 && !enumContains(f.Enum, s) {
			return &SchemaViolationError{
				Schema: schemaName,
				Field:  f.Name,
				Reason: fmt.Sprintf("must be one of {%s}", strings.Join(f.Enum, ", ")),
			}
		}
		return nil
	case KindList:
		if _, ok := val.([]any); !ok {
			return &SchemaViolationError{Schema: schemaName, Field: f.Name, Reason: "must be a list"}
		}
		return nil
	case KindInt:
		// JSON numbers decode as float64; an int field must be whole.
		n, ok := val.(float64)
		if !ok || n != float64(int64(n)) {
			return &SchemaViolationError{Schema: schemaName, Field: f.Name, Reason: "must be an integer"}
		}
		return nil
	case KindNumber:
		if _, ok := val.(float64); !ok {
			return &SchemaViolationError{Schema: schemaName, Field: f.Name, Reason: "must be a number"}
		}
		return nil
	case KindObject:
		if _, ok := val.(map[string]any); !ok {
			return &SchemaViolationError{Schema: schemaName, Field: f.Name, Reason: "must be an object"}
		}
		return nil
	default:
		return nil
	}
}

func enumContains(enum []string, v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, e := range enum {
		if strings.ToLower(e) == v {
			return true
		}
	}
	return false
}
