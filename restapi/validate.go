package restapi

import (
	"strings"

	"github.com/google/uuid"
)

// RequireString fails when value is empty or whitespace.
func RequireString(name string, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ArgumentError{Name: name, Reason: "value is required"}
	}
	return nil
}

// RequireSubscription fails on the nil GUID.
func RequireSubscription(name string, subscription uuid.UUID) error {
	if subscription == uuid.Nil {
		return &ArgumentError{Name: name, Reason: "subscription id must not be empty"}
	}
	return nil
}

// RequireNotNil fails when value is nil.
func RequireNotNil[T any](name string, value *T) error {
	if value == nil {
		return &ArgumentError{Name: name, Reason: "value is required"}
	}
	return nil
}

// FirstError returns the first non-nil error, for chaining parameter checks.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
