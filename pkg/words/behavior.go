package words

import (
	"errors"
	"io"
	"strings"
)

// SentenceEnd is the suffix that marks a terminal token.
const SentenceEnd = "."

// ErrEmptyWord is returned when an empty token is copied into a chain.
var ErrEmptyWord = errors.New("words: empty word")

// Behavior implements markov.Behavior for string tokens.
type Behavior struct{}

// Compare orders tokens lexically.
func (Behavior) Compare(a, b string) int { return strings.Compare(a, b) }

// Copy returns an owned copy of the token.
func (Behavior) Copy(p string) (string, error) {
	if p == "" {
		return "", ErrEmptyWord
	}
	return strings.Clone(p), nil
}

// Release is a no-op; tokens are reclaimed by the garbage collector.
func (Behavior) Release(string) {}

// Print writes the raw token.
func (Behavior) Print(w io.Writer, p string) error {
	_, err := io.WriteString(w, p)
	return err
}

// IsTerminal reports whether the token ends a sentence.
func (Behavior) IsTerminal(p string) bool { return IsSentenceEnd(p) }

// IsSentenceEnd reports whether token ends in SentenceEnd.
func IsSentenceEnd(token string) bool { return strings.HasSuffix(token, SentenceEnd) }

// Codec stores tokens as their own text.
type Codec struct{}

// Encode returns the token unchanged.
func (Codec) Encode(p string) (string, error) { return p, nil }

// Decode returns the text unchanged, rejecting empty tokens.
func (Codec) Decode(s string) (string, error) {
	if s == "" {
		return "", ErrEmptyWord
	}
	return s, nil
}
