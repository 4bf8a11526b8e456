// Package schema validates raw provider responses against the enrichment
// result schema.
package schema

import "fmt"

// MalformedError represents a response that could not be parsed as JSON.
// Preview carries a truncated excerpt of the offending text.
type MalformedError struct {
	Preview string
	Cause   error
}

func (e *MalformedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed response: %v (response text: %s)", e.Cause, e.Preview)
	}
	return fmt.Sprintf("malformed response (response text: %s)", e.Preview)
}

func (e *MalformedError) Unwrap() error {
	return e.Cause
}

// ViolationError represents a parsed response that does not conform to the
// enrichment schema. Field names the first offending field or index.
type ViolationError struct {
	Field   string
	Message string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("schema violation in %s: %s", e.Field, e.Message)
}
