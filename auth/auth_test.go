// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken(t *testing.T) {
	token1, err := GenerateSessionToken()
	require.NoError(t, err)
	token2, err := GenerateSessionToken()
	require.NoError(t, err)

	assert.NotEmpty(t, token1)
	assert.NotEqual(t, token1, token2, "tokens must be unique")
	assert.NotContains(t, token1, "=", "tokens must not carry base64 padding")
	assert.NotContains(t, token1, "+")
	assert.NotContains(t, token1, "/")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, CheckPassword(hash, "correct horse battery staple"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong password"), ErrInvalidCredentials)
	assert.ErrorIs(t, CheckPassword("not-a-hash", "anything"), ErrInvalidCredentials)
}

func TestHashIP(t *testing.T) {
	h1 := HashIP("192.168.1.1", "salt1")
	h2 := HashIP("192.168.1.1", "salt1")
	h3 := HashIP("192.168.1.1", "salt2")
	h4 := HashIP("192.168.1.2", "salt1")

	assert.Equal(t, h1, h2, "same input must hash identically")
	assert.NotEqual(t, h1, h3, "different salts must differ")
	assert.NotEqual(t, h1, h4, "different IPs must differ")
	assert.Len(t, h1, 16)
}
