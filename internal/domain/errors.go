package domain

import "strings"

// ValidationError reports why a payload was rejected before any write.
type ValidationError struct {
	Message string
	Fields  []string
}

func (err *ValidationError) Error() string {
	if len(err.Fields) == 0 {
		return err.Message
	}
	return err.Message + ": " + strings.Join(err.Fields, "; ")
}

func invalid(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}
