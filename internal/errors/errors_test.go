package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorIsInvalidInput(t *testing.T) {
	err := NewValidationError(3, map[string]string{"message": "is required", "category": "must be one of [...]"})

	require.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, ErrorTypeValidation, TypeOf(err))
	assert.Equal(t, "is required", FieldsOf(err)["message"])
	assert.Contains(t, err.Error(), "report 3")
	assert.Contains(t, err.Error(), "category must be one of")
}

func TestPersistenceErrorUnwraps(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := NewPersistenceError("upsert_incident", -1, cause)

	assert.ErrorIs(t, err, cause)
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, ErrorTypePersistence, TypeOf(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, "upsert_incident failed: connection reset", err.Error())
}

func TestTypeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorTypeInternal, TypeOf(errors.New("boom")))
	assert.Nil(t, FieldsOf(errors.New("boom")))
}
