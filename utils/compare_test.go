package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureCompare(t *testing.T) {
	assert.True(t, SecureCompare("secret", "secret"))
	assert.True(t, SecureCompare("", ""))
	assert.False(t, SecureCompare("secret", "Secret"))
	assert.False(t, SecureCompare("secret", "secret "))
	assert.False(t, SecureCompare("secret", ""))
}
