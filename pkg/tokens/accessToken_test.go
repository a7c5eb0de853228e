package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	tok, exp, err := NewAccessToken(id, RoleCustomer, secret, time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := AccessClaimsFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.Subject)
	assert.Equal(t, RoleCustomer, claims.Role)
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()

	tok, _, err := NewAccessToken(uuid.New(), RoleOwner, secret, -time.Minute)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, secret)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewAccessToken(uuid.New(), RoleOwner, secret, time.Minute)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, []byte("other"))
	require.Error(t, err)
}

func TestAccessToken_UnknownRole(t *testing.T) {
	t.Parallel()

	tok, _, err := NewAccessToken(uuid.New(), Role("admin"), secret, time.Minute)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, secret)
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, err := ParseRole("Owner")
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, r)

	_, err = ParseRole("owner")
	assert.Error(t, err)
}
