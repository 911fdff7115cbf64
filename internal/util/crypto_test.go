package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestHmacSHA256(t *testing.T) {
	sum := HmacSHA256("secret", "token-value")
	assert.Len(t, sum, 64)
	assert.Equal(t, sum, HmacSHA256("secret", "token-value"))
	assert.NotEqual(t, sum, HmacSHA256("other", "token-value"))
	assert.NotEqual(t, sum, HmacSHA256("secret", "token-other"))
}

func TestConstantTimeEqual(t *testing.T) {
	assert.True(t, ConstantTimeEqual("abc123", "abc123"))
	assert.False(t, ConstantTimeEqual("abc123", "abc124"))
	assert.False(t, ConstantTimeEqual("abc123", "abc12"))
	assert.True(t, ConstantTimeEqual("", ""))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "1234-****", MaskSecret("123456789012"))
	assert.Equal(t, "****", MaskSecret("abc"))
	assert.Equal(t, "****", MaskSecret(""))
}
