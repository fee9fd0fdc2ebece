package token

import (
	"testing"
	"time"

	"medkit/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	iss := NewJWTIssuer("secret", time.Hour)

	raw, exp, err := iss.Issue("admin-1", model.RoleAdmin, 3, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := iss.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.Subject)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)
}

func TestJWTIssuer_Rejects(t *testing.T) {
	iss := NewJWTIssuer("secret", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		raw, _, err := NewJWTIssuer("other", time.Hour).Issue("c-1", model.RoleCustomer, 0, time.Now())
		require.NoError(t, err)
		_, err = iss.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		raw, _, err := iss.Issue("c-1", model.RoleCustomer, 0, time.Now().Add(-2*time.Hour))
		require.NoError(t, err)
		_, err = iss.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := iss.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
