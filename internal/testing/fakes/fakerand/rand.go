// Package fakerand provides a predictable Random implementation for testing.
package fakerand

import (
	"sync"

	"github.com/acolita/wildcard-mcp/internal/ports"
)

// Random is a fake random generator that produces predictable output.
// Each IntN call consumes the next value of the sequence, reduced modulo n.
type Random struct {
	mu       sync.Mutex
	sequence []int
	offset   int
	calls    []int
}

// New creates a new fake random with the given sequence.
// If the sequence is empty, it defaults to a single zero.
func New(sequence ...int) *Random {
	if len(sequence) == 0 {
		sequence = []int{0}
	}
	return &Random{sequence: sequence}
}

// NewZero creates a fake random whose IntN always returns 0.
// Used with a Fisher-Yates sampler this selects items in source order.
func NewZero() *Random {
	return New(0)
}

// IntN returns the next sequence value modulo n.
func (r *Random) IntN(n int) int {
	if n <= 0 {
		panic("fakerand: invalid argument to IntN")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.sequence[r.offset%len(r.sequence)]
	r.offset++
	r.calls = append(r.calls, n)

	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Calls returns the n argument of every IntN call so far.
func (r *Random) Calls() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset resets the random generator to the beginning of its sequence.
func (r *Random) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offset = 0
	r.calls = nil
}

// Ensure Random implements ports.Random.
var _ ports.Random = (*Random)(nil)
