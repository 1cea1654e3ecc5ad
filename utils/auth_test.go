package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWT_RoundTrip(t *testing.T) {
	JwtKey = []byte("test-secret")

	tokenString, err := GenerateJWT("64f1c0ffee0000000000abcd", "alice@example.com", "seller")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := ParseJWT(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "64f1c0ffee0000000000abcd", claims.ID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "seller", claims.Role)
}

func TestParseJWT_InvalidToken(t *testing.T) {
	JwtKey = []byte("test-secret")

	_, err := ParseJWT("invalid.token.string")
	assert.Error(t, err)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	JwtKey = []byte("secret-one")
	tokenString, err := GenerateJWT("id", "a@b.com", "customer")
	require.NoError(t, err)

	JwtKey = []byte("secret-two")
	_, err = ParseJWT(tokenString)
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	password := "password123"
	hashed, err := HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hashed)
	assert.NotEqual(t, password, hashed)
}

func TestCheckPasswordHash(t *testing.T) {
	password := "password123"
	hashed, _ := HashPassword(password)

	assert.True(t, CheckPasswordHash(password, hashed))
	assert.False(t, CheckPasswordHash("wrongpassword", hashed))
}

func TestCheckPasswordHash_GuestHasNoPassword(t *testing.T) {
	// Guest users carry an empty hash; nothing may log in as them.
	assert.False(t, CheckPasswordHash("", ""))
	assert.False(t, CheckPasswordHash("anything", ""))
}
