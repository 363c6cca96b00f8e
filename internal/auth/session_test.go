package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenExpireTime(t *testing.T) {
	for _, raw := range []string{"", "0", "never"} {
		d, err := ParseTokenExpireTime(raw)
		require.NoError(t, err)
		assert.Zero(t, d, raw)
	}
	d, err := ParseTokenExpireTime("72h")
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, d)

	_, err = ParseTokenExpireTime("soon")
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	require.NoError(t, Init("1h"))

	id := uuid.New()
	token, err := CreateJWT(id)
	require.NoError(t, err)

	got, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestAuthenticateRejectsForeignKey(t *testing.T) {
	require.NoError(t, Init(""))
	token, err := CreateJWT(uuid.New())
	require.NoError(t, err)

	// rotating the key pair invalidates earlier tokens
	require.NoError(t, Init(""))
	_, err = AuthenticateJWT(token)
	assert.Error(t, err)
}

func TestAuthenticateRejectsNonUUIDSubject(t *testing.T) {
	require.NoError(t, Init(""))
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.MapClaims{"sub": "alice"}).SignedString(privateKey)
	require.NoError(t, err)

	_, err = AuthenticateJWT(token)
	assert.Error(t, err)
}
