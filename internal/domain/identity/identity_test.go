package identity

import (
	"testing"

	"github.com/sarva/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("Admin"))
	assert.Equal(t, RoleAdmin, ParseRole(" admin "))
	assert.Equal(t, RoleSeller, ParseRole("Vendedor"))
	assert.Equal(t, RoleSeller, ParseRole("seller"))
	assert.Equal(t, RoleGuest, ParseRole("root"))
	assert.Equal(t, "guest", RoleGuest.String())
}

func TestIdentity_Require(t *testing.T) {
	t.Run("unresolved caller", func(t *testing.T) {
		id := New("  ", RoleAdmin)
		assert.False(t, id.IsResolved())
		assert.ErrorIs(t, id.Require(), shared.ErrUnauthorized)
	})

	t.Run("seller is not admin", func(t *testing.T) {
		id := New("u-1", RoleSeller)
		assert.NoError(t, id.Require())
		assert.True(t, shared.IsUnauthorized(id.RequireAdmin()))
	})

	t.Run("admin", func(t *testing.T) {
		id := New("u-2", RoleAdmin)
		assert.True(t, id.IsAdmin())
		assert.NoError(t, id.RequireAdmin())
	})
}
