package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexTokenizer(t *testing.T) {
	svc := NewHexTokenizer()

	t.Run("Generate well formed token", func(t *testing.T) {
		token, err := svc.Generate()
		assert.NoError(t, err)
		assert.Len(t, token, 32)
		assert.True(t, IsWellFormed(token))
	})

	t.Run("Tokens are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for n := 0; n < 1000; n++ {
			token, err := svc.Generate()
			assert.NoError(t, err)
			_, dup := seen[token]
			assert.False(t, dup)
			seen[token] = struct{}{}
		}
	})

	t.Run("Reject malformed tokens", func(t *testing.T) {
		assert.False(t, IsWellFormed(""))
		assert.False(t, IsWellFormed("ABCDEF0123456789abcdef0123456789"))
		assert.False(t, IsWellFormed("abc"))
		assert.False(t, IsWellFormed("0123456789abcdef0123456789abcdefa"))
	})
}
