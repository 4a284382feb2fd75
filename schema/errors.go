package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidField is returned by [New] when a field declaration cannot be
// used (empty name, uncompilable pattern).
var ErrInvalidField = errors.New("schema: invalid field declaration")

// Issue describes one violated constraint.
type Issue struct {
	// Field is the offending attribute name.
	Field string
	// Message explains the violation in human-readable form.
	Message string
}

func (i Issue) String() string { return i.Field + ": " + i.Message }

// ValidationError reports every constraint violated by one validation run.
// It aborts the save that triggered it and is never retried automatically.
//
// Use [errors.As] to recover the structured form:
//
//	var verr *schema.ValidationError
//	if errors.As(err, &verr) {
//	    for _, issue := range verr.Issues { ... }
//	}
type ValidationError struct {
	// Table is the table or collection the record belongs to. Filled in by
	// the model layer; empty when the schema is validated directly.
	Table string
	// Issues lists the violated fields in field-name order.
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	if e.Table == "" {
		return fmt.Sprintf("schema: validation failed: %s", strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("schema: validation failed for %q: %s", e.Table, strings.Join(msgs, "; "))
}

// Fields returns the names of the violated fields, in issue order.
func (e *ValidationError) Fields() []string {
	names := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		names[i] = issue.Field
	}
	return names
}
