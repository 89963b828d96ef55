package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrExtractionFailed", ErrExtractionFailed},
		{"ErrGenerationFailed", ErrGenerationFailed},
		{"ErrGenerationTimeout", ErrGenerationTimeout},
		{"ErrPersistenceFailed", ErrPersistenceFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestValidationError(t *testing.T) {
	err := error(&ValidationError{Field: "sessionId"})

	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, errors.Is(err, ErrGenerationFailed))
	assert.Equal(t, "invalid input: sessionId is required", err.Error())

	wrapped := fmt.Errorf("ask: %w", err)
	var ve *ValidationError
	require.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "sessionId", ve.Field)
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := error(&GenerationError{Err: cause})

	assert.True(t, errors.Is(err, ErrGenerationFailed))
	assert.False(t, errors.Is(err, ErrGenerationTimeout))
	assert.False(t, errors.Is(err, ErrPersistenceFailed))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "generation failed")
}

func TestGenerationError_Timeout(t *testing.T) {
	err := error(&GenerationError{Err: fmt.Errorf("send request: %w", context.DeadlineExceeded)})

	assert.True(t, errors.Is(err, ErrGenerationFailed))
	assert.True(t, errors.Is(err, ErrGenerationTimeout))
	assert.Contains(t, err.Error(), "generation timed out")
}

func TestPersistenceError(t *testing.T) {
	page := 3
	err := error(&PersistenceError{
		Answer: Answer{AIResponse: "ok", PageCitation: &page},
		Err:    errors.New("disk full"),
	})

	assert.True(t, errors.Is(err, ErrPersistenceFailed))
	assert.False(t, errors.Is(err, ErrGenerationFailed))

	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "ok", pe.Answer.AIResponse)
	assert.Equal(t, 3, *pe.Answer.PageCitation)
}
