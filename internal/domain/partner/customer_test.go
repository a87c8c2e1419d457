package partner

import (
	"testing"
	"time"

	"github.com/sarva/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("defaults to neutral tier", func(t *testing.T) {
		c, err := NewCustomer("seller-1", " Maria ", "Maria@Example.com", nil, now)
		require.NoError(t, err)
		assert.Equal(t, ScoreNeutral, c.ScoreTier)
		assert.Equal(t, "Maria", c.Name)
		assert.Equal(t, "maria@example.com", c.Email)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewCustomer("seller-1", "Maria", "not-an-email", nil, now)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCustomer("seller-1", "", "", nil, now)
		assert.True(t, shared.IsValidation(err))
	})
}

func TestCustomer_ApplyScore(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	c, err := NewCustomer("seller-1", "Ana", "", nil, now)
	require.NoError(t, err)

	assert.False(t, c.ApplyScore(ScoreNeutral, now))
	assert.True(t, c.ApplyScore(ScoreBadPayer, now.Add(time.Hour)))
	assert.Equal(t, ScoreBadPayer, c.ScoreTier)
	assert.Equal(t, now.Add(time.Hour), c.UpdatedAt)
}

func TestCustomer_HasBirthdayOn(t *testing.T) {
	bday := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	c := &Customer{Birthday: &bday}
	assert.True(t, c.HasBirthdayOn(time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)))
	assert.False(t, c.HasBirthdayOn(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)))
	assert.False(t, (&Customer{}).HasBirthdayOn(bday))
}
