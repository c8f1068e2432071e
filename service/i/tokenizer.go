package i

// Tokenizer generates opaque player session tokens.
type Tokenizer interface {
	// Generate returns a new random token.
	Generate() (string, error)
}
