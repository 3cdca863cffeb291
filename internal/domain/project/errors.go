package project

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput matches every ValidationError.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrNotFound matches every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrCounterNotFound indicates the counter doesn't exist in the project.
	ErrCounterNotFound = errors.New("counter not found")
	// ErrInvalidOperation matches every InvalidOperationError.
	ErrInvalidOperation = errors.New("operation not permitted in current state")
	// ErrStorage matches every StorageError.
	ErrStorage = errors.New("storage failure")
)

// ValidationError reports a caller-supplied field that violates a constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Entity kinds used by NotFoundError.
const (
	KindProject = "project"
	KindCounter = "counter"
)

// NotFoundError reports a project or counter id that doesn't exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return true
	case ErrProjectNotFound:
		return e.Kind == KindProject
	case ErrCounterNotFound:
		return e.Kind == KindCounter
	}
	return false
}

func projectNotFound(id string) error { return &NotFoundError{Kind: KindProject, ID: id} }
func counterNotFound(id string) error { return &NotFoundError{Kind: KindCounter, ID: id} }

// Reasons carried by InvalidOperationError.
const (
	ReasonDisabled = "disabled"
	ReasonAtMax    = "at_max"
	ReasonAtMin    = "at_min"
)

// InvalidOperationError reports a well-formed request the counter's current
// state does not allow. Nothing is mutated when it is returned.
type InvalidOperationError struct {
	Op        string
	CounterID string
	Reason    string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("%s counter %q rejected: %s", e.Op, e.CounterID, e.Reason)
}

func (e *InvalidOperationError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// StorageError wraps a failure of the persistence collaborator.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
