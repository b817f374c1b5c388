package game

import "math/rand"

// randomCode returns a CodeLength-character room code over the 36-symbol
// alphabet. Uniqueness is the registry's job.
func randomCode() string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}
