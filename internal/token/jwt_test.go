package token

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_AccessTokenRoundTrip(t *testing.T) {
	j := NewJWT("secret")
	userID := uuid.New()

	tokenString, err := j.GenerateAccessToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	parsedID, err := j.ParseAccessToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, parsedID)
}

func TestJWT_RefreshTokenRoundTrip(t *testing.T) {
	j := NewJWT("secret")
	userID := uuid.New()

	tokenString, jti, err := j.GenerateRefreshToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	require.NotEmpty(t, jti)

	parsedID, parsedJTI, err := j.ParseRefreshToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, parsedID)
	assert.Equal(t, jti, parsedJTI)
}

func TestJWT_TypeMismatch(t *testing.T) {
	j := NewJWT("secret")
	userID := uuid.New()

	access, err := j.GenerateAccessToken(userID)
	require.NoError(t, err)
	refresh, _, err := j.GenerateRefreshToken(userID)
	require.NoError(t, err)

	_, _, err = j.ParseRefreshToken(access)
	assert.Error(t, err)

	_, err = j.ParseAccessToken(refresh)
	assert.Error(t, err)
}

func TestJWT_WrongSecret(t *testing.T) {
	userID := uuid.New()

	tokenString, err := NewJWT("secret-a").GenerateAccessToken(userID)
	require.NoError(t, err)

	_, err = NewJWT("secret-b").ParseAccessToken(tokenString)
	assert.Error(t, err)
}

func TestJWT_Garbage(t *testing.T) {
	_, err := NewJWT("secret").ParseAccessToken("not-a-token")
	assert.Error(t, err)
}
