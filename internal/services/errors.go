package services

import "fmt"

// ValidationError reports a malformed commute query. It is fatal to the
// request and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
