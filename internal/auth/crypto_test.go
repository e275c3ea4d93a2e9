package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashCode(t *testing.T) {
	hash := HashCode("482913")

	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "482913", hash)
	// Argon2id with a 32-byte key hex-encodes to 64 characters.
	assert.Len(t, hash, 64)
	// Deterministic for the same code so stored hashes stay comparable.
	assert.Equal(t, hash, HashCode("482913"))
	assert.NotEqual(t, hash, HashCode("482914"))
}

func TestVerifyCodeHash(t *testing.T) {
	stored := HashCode("123456")

	tests := []struct {
		name       string
		code       string
		storedHash string
		want       bool
	}{
		{name: "matching code", code: "123456", storedHash: stored, want: true},
		{name: "wrong code", code: "654321", storedHash: stored, want: false},
		{name: "empty code", code: "", storedHash: stored, want: false},
		{name: "empty stored hash", code: "123456", storedHash: "", want: false},
		{name: "truncated stored hash", code: "123456", storedHash: stored[:32], want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyCodeHash(tt.code, tt.storedHash))
		})
	}
}
