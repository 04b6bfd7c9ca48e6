package publictoken

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLengths(t *testing.T) {
	assert.Len(t, NewPublicID(), PublicIDLength)
	assert.Len(t, NewToken(), TokenLength)
}

func TestAlphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		tok := NewToken()
		for _, r := range tok {
			require.True(t, strings.ContainsRune(alphabet, r), "unexpected char %q in %q", r, tok)
		}
		// no visually confusable characters ever
		assert.NotContains(t, tok, "0")
		assert.NotContains(t, tok, "1")
		assert.NotContains(t, tok, "l")
		assert.NotContains(t, tok, "i")
		assert.NotContains(t, tok, "o")
	}
}

func TestNoTrivialCollisions(t *testing.T) {
	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		id := NewPublicID()
		require.False(t, seen[id], "duplicate public id %q", id)
		seen[id] = true
	}
}
