package domain

import (
	"context"
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or missing input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a document format no extractor handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrExtractionFailed indicates the document text could not be extracted.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrGenerationFailed indicates the language model call failed.
	// The user may retry; no answer was produced.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrGenerationTimeout indicates the language model did not answer in time.
	ErrGenerationTimeout = errors.New("generation timed out")

	// ErrPersistenceFailed indicates an answer was produced but not recorded.
	ErrPersistenceFailed = errors.New("persistence failed")
)

// ValidationError reports a missing or empty required field.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s is required", ErrInvalidInput, e.Field)
}

// Is reports whether target is ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// GenerationError wraps a language model failure.
// It matches ErrGenerationFailed, and ErrGenerationTimeout when the
// cause is a deadline.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	if e.Timeout() {
		return fmt.Sprintf("%s: %v", ErrGenerationTimeout, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrGenerationFailed, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is one of the generation sentinels.
func (e *GenerationError) Is(target error) bool {
	switch target {
	case ErrGenerationFailed:
		return true
	case ErrGenerationTimeout:
		return e.Timeout()
	default:
		return false
	}
}

// Timeout reports whether the generation failed because time ran out.
func (e *GenerationError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// PersistenceError reports that an answer was generated but could not be
// stored. Answer holds the valid result so callers can still show it.
type PersistenceError struct {
	Answer Answer
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPersistenceFailed, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPersistenceFailed.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistenceFailed
}
