package token

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// HexTokenizer issues player session tokens of 32 lowercase hex characters.
type HexTokenizer struct{}

// NewHexTokenizer creates a HexTokenizer.
func NewHexTokenizer() *HexTokenizer {
	return &HexTokenizer{}
}

// Generate returns a token built from a random UUID.
func (HexTokenizer) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(id[:]), nil
}

// IsWellFormed reports whether s has the shape of a session token.
func IsWellFormed(s string) bool {
	return tokenPattern.MatchString(s)
}
