package validation

import (
	"errors"
	"fmt"
)

// ErrRejected marks a value refused by a filter.
var ErrRejected = errors.New("validation: value rejected")

// RejectionError carries the message shown in the settings banner for a
// rejected key.
type RejectionError struct {
	Key     string
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("validation: %s rejected", e.Key)
	}
	return fmt.Sprintf("validation: %s: %s", e.Key, e.Message)
}

func (e *RejectionError) Unwrap() error { return ErrRejected }

// Reject builds a RejectionError for key.
func Reject(key, message string) error {
	return &RejectionError{Key: key, Message: message}
}

// Message returns the user facing text for err: the rejection message when
// err wraps a RejectionError, otherwise err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var rejection *RejectionError
	if errors.As(err, &rejection) && rejection.Message != "" {
		return rejection.Message
	}
	return err.Error()
}
