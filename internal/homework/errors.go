package homework

import "fmt"

// ShapeError reports a payload whose container structure is not what the API documents.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string { return "unexpected response shape: " + e.Reason }

// MissingFieldError reports a record without a required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("homework record has no %q", e.Field)
}

// UnknownVerdictError reports a status code that has no verdict text.
type UnknownVerdictError struct {
	Status string
}

func (e *UnknownVerdictError) Error() string {
	return fmt.Sprintf("unknown homework status %q", e.Status)
}
