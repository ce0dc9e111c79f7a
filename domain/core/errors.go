package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrAssessmentNotFound = fmt.Errorf("%w: assessment", ErrNotFound)
	ErrCandidateNotFound  = fmt.Errorf("%w: candidate", ErrNotFound)
	ErrItemNotFound       = fmt.Errorf("%w: item", ErrNotFound)
	ErrScaleNotFound      = fmt.Errorf("%w: scale", ErrNotFound)
	ErrModelNotFound      = fmt.Errorf("%w: performance model", ErrNotFound)

	// Validation errors
	ErrInvalidInput   = errors.New("invalid input")
	ErrInvalidItem    = errors.New("invalid item parameters")
	ErrInvalidModel   = errors.New("invalid performance model")
	ErrEmptyResponses = errors.New("empty response set")

	// State errors
	ErrStateInvalid           = errors.New("operation incompatible with assessment status")
	ErrAssessmentExpired      = errors.New("assessment expired")
	ErrAssessmentNotCompleted = errors.New("assessment not completed")
	ErrAlreadyAnswered        = errors.New("item already answered")

	// Estimation errors
	ErrEstimationDiverged = errors.New("ability estimation diverged")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewInputError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, reason)
}

func NewStateError(operation string, status string) error {
	return fmt.Errorf("%w: %s on status %s", ErrStateInvalid, operation, status)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidItem) ||
		errors.Is(err, ErrInvalidModel) ||
		errors.Is(err, ErrEmptyResponses)
}

func IsStateError(err error) bool {
	return errors.Is(err, ErrStateInvalid) ||
		errors.Is(err, ErrAssessmentExpired) ||
		errors.Is(err, ErrAssessmentNotCompleted) ||
		errors.Is(err, ErrAlreadyAnswered)
}

func IsExpiredError(err error) bool {
	return errors.Is(err, ErrAssessmentExpired)
}

func IsEstimationDiverged(err error) bool {
	return errors.Is(err, ErrEstimationDiverged)
}
