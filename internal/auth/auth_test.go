package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokens(t *testing.T) {
	access, refresh, err := GenerateTokens(4, "amit@example.com", "member", "secret-a", "secret-r")
	require.NoError(t, err)

	claims, err := ValidateToken(access, "secret-a")
	require.NoError(t, err)
	assert.Equal(t, 4, claims.UserID)
	assert.Equal(t, "amit@example.com", claims.Email)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, "featuresgym-api", claims.Issuer)

	claims, err = ValidateToken(refresh, "secret-r")
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	access, _, err := GenerateTokens(4, "amit@example.com", "member", "secret-a", "secret-r")
	require.NoError(t, err)

	_, err = ValidateToken(access, "not-the-secret")
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "secret-a")
	assert.Error(t, err)
}

func TestRefreshAccessToken(t *testing.T) {
	_, refresh, err := GenerateTokens(4, "amit@example.com", "member", "secret-a", "secret-r")
	require.NoError(t, err)

	newAccess, claims, err := RefreshAccessToken(refresh, "secret-r", "secret-a")
	require.NoError(t, err)
	assert.Equal(t, 4, claims.UserID)

	accessClaims, err := ValidateToken(newAccess, "secret-a")
	require.NoError(t, err)
	assert.Equal(t, "access", accessClaims.TokenType)
}

func TestRefreshAccessToken_RejectsAccessToken(t *testing.T) {
	access, _, err := GenerateTokens(4, "amit@example.com", "member", "secret-r", "secret-r")
	require.NoError(t, err)

	_, _, err = RefreshAccessToken(access, "secret-r", "secret-a")
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestEmptySecret(t *testing.T) {
	_, err := GenerateAccessToken(4, "amit@example.com", "member", "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)

	_, err = ValidateToken("whatever", "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("supersecret")
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret", hash)

	assert.True(t, CheckPassword(hash, "supersecret"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
