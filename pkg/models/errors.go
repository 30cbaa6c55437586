package models

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ErrInsufficientData is not a failure condition for callers: the orchestrator
// resolves it by serving an empty or stale result.
var ErrInsufficientData = errors.New("insufficient vectorized data")

// InputError signals a precondition violation such as mismatched vector
// dimensionality. It is the only error category surfaced to callers.
type InputError struct {
	message       string
	originalError error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error: %s (original error: %v)", e.message, e.originalError)
}

func (e *InputError) Unwrap() error {
	return e.originalError
}

func NewInputError(message string, originalError error) *InputError {
	return &InputError{message: message, originalError: originalError}
}

// BackendUnavailableError marks a primary clustering backend failure. It is
// always recovered by the local kernel and never surfaced.
type BackendUnavailableError struct {
	message       string
	originalError error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("clustering backend unavailable: %s (original error: %v)", e.message, e.originalError)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.originalError
}

func NewBackendUnavailableError(message string, originalError error) *BackendUnavailableError {
	return &BackendUnavailableError{message: message, originalError: originalError}
}

// CollaboratorUnavailableError marks a label generation failure. It is always
// recovered by local heuristics and never surfaced.
type CollaboratorUnavailableError struct {
	message       string
	originalError error
}

func (e *CollaboratorUnavailableError) Error() string {
	return fmt.Sprintf("label collaborator unavailable: %s (original error: %v)", e.message, e.originalError)
}

func (e *CollaboratorUnavailableError) Unwrap() error {
	return e.originalError
}

func NewCollaboratorUnavailableError(message string, originalError error) *CollaboratorUnavailableError {
	return &CollaboratorUnavailableError{message: message, originalError: originalError}
}

// PersistenceError marks a cache write failure after retries. It is logged and
// swallowed; the freshly computed result is still returned to the caller.
type PersistenceError struct {
	message       string
	originalError error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %s (original error: %v)", e.message, e.originalError)
}

func (e *PersistenceError) Unwrap() error {
	return e.originalError
}

func NewPersistenceError(message string, originalError error) *PersistenceError {
	return &PersistenceError{message: message, originalError: originalError}
}
