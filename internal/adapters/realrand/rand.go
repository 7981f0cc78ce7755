// Package realrand provides the production Random port backed by math/rand/v2.
//
// The top-level math/rand/v2 functions draw from a runtime source that is
// seeded from OS entropy at startup and is safe for concurrent use, so a
// single Random value can be shared by every tool handler.
package realrand

import (
	"math/rand/v2"

	"github.com/acolita/wildcard-mcp/internal/ports"
)

// Random implements ports.Random using the math/rand/v2 global source.
type Random struct{}

// New returns a new real Random.
func New() *Random {
	return &Random{}
}

// IntN returns a uniformly distributed integer in [0, n).
func (r *Random) IntN(n int) int {
	return rand.IntN(n)
}

// Ensure Random implements ports.Random.
var _ ports.Random = (*Random)(nil)
