package ports

// Random abstracts the random source used for sampling.
// Implementations must be safe for concurrent use.
type Random interface {
	// IntN returns a uniformly distributed integer in [0, n). It panics if n <= 0.
	IntN(n int) int
}
