package roadmap

import "fmt"

// The stage error taxonomy. The orchestrator treats every kind the same way
// (record, mark failed, halt) but callers and tests distinguish them with
// errors.As.

// MalformedResponseError means the model text could not be coerced into
// parseable JSON after fence stripping and brace slicing. Snippet holds a
// truncated prefix of the raw text for diagnostics.
type MalformedResponseError struct {
	Snippet string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %q", e.Snippet)
}

// SchemaViolationError means parsed JSON is missing a required field, has a
// field of the wrong kind, or an enum value outside its allowed set.
type SchemaViolationError struct {
	Schema string
	Field  string
	Reason string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema %s: field %q %s", e.Schema, e.Field, e.Reason)
}

// MissingPrerequisiteError means a stage ran before its upstream output was
// present.
type MissingPrerequisiteError struct {
	Stage string
	Key   string
}

func (e *MissingPrerequisiteError) Error() string {
	return fmt.Sprintf("stage %s: missing upstream %q", e.Stage, e.Key)
}

// CountMismatchError means a stage-specific cardinality rule was violated.
type CountMismatchError struct {
	Stage string
	Want  int
	Got   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("stage %s: want %d items, got %d", e.Stage, e.Want, e.Got)
}
