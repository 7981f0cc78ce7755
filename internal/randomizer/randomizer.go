// Package randomizer implements the randomize operation: an unweighted
// sample without replacement from one category of the catalog.
package randomizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/acolita/wildcard-mcp/internal/catalog"
	"github.com/acolita/wildcard-mcp/internal/ports"
)

// ErrInvalidCount is returned for a count below 1.
var ErrInvalidCount = errors.New("count must be at least 1")

// UnknownCategoryError is returned for a category that is not loaded.
// The message lists every valid category so a caller can retry.
type UnknownCategoryError struct {
	Category  string
	Available []string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("Unknown category '%s'. Available: %s", e.Category, strings.Join(e.Available, ", "))
}

// Selection is the outcome of a draw.
type Selection struct {
	Category  string
	Requested int
	Available int

	// Items holds the drawn items in sampling order. It is empty when
	// Exceeded is set.
	Items []string

	// Exceeded reports that more items were requested than exist.
	Exceeded bool
}

// Text renders the selection the way the randomize tool returns it: the
// bare item for a single draw, newline-joined items otherwise, or an
// explanatory message when the request exceeded the category size.
func (s Selection) Text() string {
	if s.Exceeded {
		return fmt.Sprintf("Error: Requested %d items but category '%s' only has %d items available.",
			s.Requested, s.Category, s.Available)
	}
	return strings.Join(s.Items, "\n")
}

// Service draws random items from a catalog. It holds no mutable state and
// is safe for concurrent use as long as its Random is.
type Service struct {
	catalog *catalog.Catalog
	rng     ports.Random
}

// New creates a Service over an immutable catalog.
func New(cat *catalog.Catalog, rng ports.Random) *Service {
	return &Service{
		catalog: cat,
		rng:     rng,
	}
}

// Categories returns the category names in load order.
func (s *Service) Categories() []string {
	return s.catalog.Names()
}

// Randomize draws count distinct items from category and formats them.
// Asking for more items than the category holds is not an error; the
// returned text explains the shortfall instead.
func (s *Service) Randomize(category string, count int) (string, error) {
	sel, err := s.Sample(category, count)
	if err != nil {
		return "", err
	}
	return sel.Text(), nil
}

// Sample draws count distinct positions from category. Every subset of
// size count is equally likely; items come back in the order drawn.
func (s *Service) Sample(category string, count int) (Selection, error) {
	cat, ok := s.catalog.Lookup(category)
	if !ok {
		return Selection{}, &UnknownCategoryError{Category: category, Available: s.catalog.Names()}
	}
	if count < 1 {
		return Selection{}, ErrInvalidCount
	}

	n := cat.Len()
	sel := Selection{
		Category:  category,
		Requested: count,
		Available: n,
	}
	if count > n {
		sel.Exceeded = true
		return sel, nil
	}

	sel.Items = make([]string, count)
	for i, idx := range s.pick(n, count) {
		sel.Items[i] = cat.Item(idx)
	}
	return sel, nil
}

// pick runs a partial Fisher-Yates shuffle over [0, n) and returns the
// first k positions.
func (s *Service) pick(n, k int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm[:k]
}
