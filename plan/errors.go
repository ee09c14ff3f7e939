package plan

import "fmt"

// RecordError describes one invalid field on one plan record. The plan
// decoder keeps going after a RecordError so a single pass reports every
// bad record in a document.
type RecordError struct {
	Kind  string // "account" or "transaction"
	ID    string
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %s: %s: %s", e.Kind, e.ID, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// ValidationErrors wraps every record-level problem found in one decode
// pass.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping.
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}
