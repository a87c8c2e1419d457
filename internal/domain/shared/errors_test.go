package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("specific message matches generic sentinel", func(t *testing.T) {
		err := NewNotFoundError("Sale")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Equal(t, "Sale not found", err.Error())
	})

	t.Run("wrapped error still matches", func(t *testing.T) {
		err := fmt.Errorf("load sale: %w", NewConflictError("cycle %d has products", 3))
		assert.True(t, IsConflict(err))
		assert.False(t, IsNotFound(err))
	})

	t.Run("different codes do not match", func(t *testing.T) {
		assert.False(t, errors.Is(ErrValidation, ErrUnauthorized))
		assert.False(t, errors.Is(errors.New("plain"), ErrNotFound))
	})

	t.Run("predicates", func(t *testing.T) {
		assert.True(t, IsUnauthorized(ErrUnauthorized))
		assert.True(t, IsValidation(NewValidationError("company %q not found", "Acme")))
	})
}
