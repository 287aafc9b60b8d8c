package game

import "math/rand/v2"

const (
	codeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLen   = 4
)

// NewCode returns a 4-letter room code drawn uniformly from A-Z per
// position. Uniqueness against existing rooms is the caller's problem.
func NewCode() string {
	b := make([]byte, codeLen)
	for i := range b {
		b[i] = codeChars[rand.IntN(len(codeChars))]
	}
	return string(b)
}
