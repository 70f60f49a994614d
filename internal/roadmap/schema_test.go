package roadmap

import (
	"errors"
	"testing"
)

func TestValidate_MissingField(t *testing.T) {
	schema := Schema{Name: "test", Fields: []FieldSpec{
		{Name: "title", Kind: KindString},
		{Name: "items", Kind: KindList},
	}}
	err := Validate(map[string]any{"title": "x"}, schema)
	var violation *SchemaViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected SchemaViolationError, got %v", err)
	}
	if violation.Field != "items" {
		t.Fatalf("unexpected field: %q", violation.Field)
	}
}

func TestValidate_KindMismatches(t *testing.T) {
	cases := []struct {
		name  string
		field FieldSpec
		value any
	}{
		{"string gets number", FieldSpec{Name: "f", Kind: KindString}, float64(3)},
		{"list gets string", FieldSpec{Name: "f", Kind: KindList}, "nope"},
		{"int gets fraction", FieldSpec{Name: "f", Kind: KindInt}, 1.5},
		{"int gets string", FieldSpec{Name: "f", Kind: KindInt}, "2"},
		{"number gets bool", FieldSpec{Name: "f", Kind: KindNumber}, true},
		{"object gets list", FieldSpec{Name: "f", Kind: KindObject}, []any{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			schema := Schema{Name: "test", Fields: []FieldSpec{tc.field}}
			err := Validate(map[string]any{"f": tc.value}, schema)
			var violation *SchemaViolationError
			if !errors.As(err, &violation) {
				t.Fatalf("expected SchemaViolationError, got %v", err)
			}
		})
	}
}

func TestValidate_WholeFloatPassesIntField(t *testing.T) {
	schema := Schema{Name: "test", Fields: []FieldSpec{{Name: "n", Kind: KindInt}}}
	if err := Validate(map[string]any{"n": float64(4)}, schema); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_EnumIsCaseInsensitive(t *testing.T) {
	schema := Schema{Name: "test", Fields: []FieldSpec{
		{Name: "level", Kind: KindString, Enum: []string{"beginner", "intermediate", "advanced"}},
	}}
	if err := Validate(map[string]any{"level": "Intermediate"}, schema); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := Validate(map[string]any{"level": "expert"}, schema)
	var violation *SchemaViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected SchemaViolationError, got %v", err)
	}
}

func TestValidate_FirstViolationWins(t *testing.T) {
	schema := Schema{Name: "test", Fields: []FieldSpec{
		{Name: "a", Kind: KindString},
		{Name: "b", Kind: KindString},
	}}
	err := Validate(map[string]any{"a": 1, "b": 2}, schema)
	var violation *SchemaViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected SchemaViolationError, got %v", err)
	}
	if violation.Field != "a" {
		t.Fatalf("expected first declared field to be reported, got %q", violation.Field)
	}
}

func TestStageSchemas_AcceptCanonicalShapes(t *testing.T) {
	cases := []struct {
		schema Schema
		obj    map[string]any
	}{
		{interviewSchema, map[string]any{"questions": []any{}}},
		{skillEvalSchema, map[string]any{
			"skill_level": "beginner", "strengths": []any{}, "weaknesses": []any{}, "analysis_notes": []any{},
		}},
		{gapDetectSchema, map[string]any{
			"gaps": []any{"x"}, "prerequisites_needed": []any{}, "num_gaps": float64(1),
		}},
		{graphSchema, map[string]any{
			"nodes": []any{}, "edges": []any{}, "learning_phases": []any{},
		}},
		{difficultySchema, map[string]any{
			"phase_difficulties": map[string]any{}, "adaptive_factors": []any{},
		}},
		{projectSchema, map[string]any{
			"title": "t", "description": "d", "deliverables": []any{}, "estimated_hours": 12.5,
		}},
		{scheduleSchema, map[string]any{
			"total_weeks": float64(8), "hours_per_week": 6.0, "weekly_plan": []any{},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.schema.Name, func(t *testing.T) {
			if err := Validate(tc.obj, tc.schema); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
