// Package linkid generates the short public identifiers naming feedback
// collections. Identifiers are random and not checked for uniqueness;
// callers accept the negligible collision probability.
package linkid

import (
	"crypto/rand"
	"math/big"
)

// Length is the fixed length of every generated link identifier.
const Length = 10

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate returns a new random alphanumeric link identifier of Length
// characters.
func Generate() string {
	result := make([]byte, Length)
	for i := range result {
		randomIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		result[i] = alphabet[randomIndex.Int64()]
	}

	return string(result)
}
