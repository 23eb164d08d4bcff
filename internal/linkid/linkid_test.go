package linkid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateLength(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Len(t, Generate(), Length)
	}
}

func TestGenerateAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		for _, symbol := range Generate() {
			assert.True(
				t,
				strings.ContainsRune(alphabet, symbol),
				"unexpected symbol %q in generated identifier",
				symbol,
			)
		}
	}
}

func TestGenerateDistinctness(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		identifier := Generate()
		assert.False(t, seen[identifier], "duplicate identifier %q", identifier)
		seen[identifier] = true
	}
}
