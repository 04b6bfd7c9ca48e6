// Package publictoken generates the identifiers embedded in customer-facing
// quote links: a short public id for the URL path and a longer secret token
// that gates access to it.
package publictoken

import (
	"crypto/rand"
	"math/big"
)

// alphabet excludes characters easy to misread over the phone (0, 1, l, i, o).
const alphabet = "abcdefghjkmnpqrstuvwxyz23456789"

const (
	PublicIDLength = 10
	TokenLength    = 24
)

// NewPublicID returns a short shareable id like "k3m9p2z7qv".
func NewPublicID() string { return generate(PublicIDLength) }

// NewToken returns the access secret paired with a public id. Rotated on
// archive, delete and link regeneration to kill outstanding links.
func NewToken() string { return generate(TokenLength) }

func generate(n int) string {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken;
			// quote links must not silently degrade to guessable ids.
			panic(err)
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out)
}
