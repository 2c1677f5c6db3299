package services

import "fmt"

// ValidationError signals that caller-supplied data violates a domain
// rule. Its message is safe to show to the end user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError signals that a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

// NewNotFoundError builds a NotFoundError for the given resource and id.
func NewNotFoundError(resource string, id uint) error {
	return &NotFoundError{Resource: resource, ID: id}
}
