package validators

import "strings"

// ruleError is the message of a single failed rule, before it is tied to a field.
type ruleError string

func (e ruleError) Error() string { return string(e) }

// FieldError reports a rule failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// FieldErrors is returned by [ValidateContact] when at least one field is invalid.
type FieldErrors []*FieldError

func (es FieldErrors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}
