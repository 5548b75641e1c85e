// Package statesource generates the opaque anti-CSRF values handed to the
// authorization server.
package statesource

import (
	"crypto/rand"
	"math/big"
)

const stateLength = 64

type Source struct{}

func (p Source) randString(n int) string {
	const letters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"

	ret := make([]byte, n)
	for i := range n {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		ret[i] = letters[num.Int64()]
	}

	return string(ret)
}

// State returns a fresh state value.
// Entropy E = L * log2(63) = 64 * log2(63) = 382.5 bits
func (p Source) State() string {
	return p.randString(stateLength)
}
