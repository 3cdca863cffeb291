package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/stitchcounter/internal/domain/project"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var verr *project.ValidationError
	if errors.As(err, &verr) {
		return &APIError{
			Code:         "VALIDATION_ERROR",
			Message:      verr.Error(),
			Details:      map[string]string{"field": verr.Field},
			RecoveryHint: "Fix the field and retry",
		}
	}

	var nf *project.NotFoundError
	if errors.As(err, &nf) {
		switch nf.Kind {
		case project.KindCounter:
			return &APIError{Code: "COUNTER_NOT_FOUND", Message: nf.Error(), RecoveryHint: "Call get_project to see current counter ids"}
		default:
			return &APIError{Code: "PROJECT_NOT_FOUND", Message: nf.Error(), RecoveryHint: "Call list_projects to see current project ids"}
		}
	}

	var serr *project.StorageError
	if errors.As(err, &serr) {
		return &APIError{Code: "STORAGE_ERROR", Message: serr.Error(), RecoveryHint: "Check the configured store and retry"}
	}

	return nil
}

// toolError converts an error for return from a tool handler.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
