package randomizer

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/acolita/wildcard-mcp/internal/adapters/realrand"
	"github.com/acolita/wildcard-mcp/internal/catalog"
	"github.com/acolita/wildcard-mcp/internal/config"
	"github.com/acolita/wildcard-mcp/internal/ports"
	"github.com/acolita/wildcard-mcp/internal/testing/fakes/fakefs"
	"github.com/acolita/wildcard-mcp/internal/testing/fakes/fakerand"
)

// newTestService builds a service over colors (red, blue, green) and
// animals (cat, dog, owl, fox, elk).
func newTestService(t *testing.T, rng ports.Random) *Service {
	t.Helper()

	fsys := fakefs.New()
	fsys.AddText("/cfg/colors.txt", "red\nblue\ngreen\n")
	fsys.AddText("/cfg/animals.txt", "cat\ndog\nowl\nfox\nelk\n")

	cfg := &config.Config{
		Path: "/cfg/config.toml",
		Categories: []config.CategoryRef{
			{Name: "colors", Path: "colors.txt"},
			{Name: "animals", Path: "animals.txt"},
		},
	}
	cat, err := catalog.Load(cfg, cfg.Dir(), fsys)
	if err != nil {
		t.Fatalf("catalog.Load() error: %v", err)
	}
	return New(cat, rng)
}

func members(t *testing.T, s *Service, category string) map[string]bool {
	t.Helper()
	cat, ok := s.catalog.Lookup(category)
	if !ok {
		t.Fatalf("category %q not loaded", category)
	}
	set := make(map[string]bool)
	for _, item := range cat.Items() {
		set[item] = true
	}
	return set
}

func TestRandomizeSingleItem(t *testing.T) {
	s := newTestService(t, realrand.New())
	valid := members(t, s, "colors")

	for i := 0; i < 50; i++ {
		got, err := s.Randomize("colors", 1)
		if err != nil {
			t.Fatalf("Randomize() error: %v", err)
		}
		if strings.Contains(got, "\n") {
			t.Fatalf("single item contains newline: %q", got)
		}
		if !valid[got] {
			t.Fatalf("Randomize() = %q, not a colors item", got)
		}
	}
}

func TestRandomizeMultipleDistinctItems(t *testing.T) {
	s := newTestService(t, realrand.New())
	valid := members(t, s, "animals")

	for count := 1; count <= 5; count++ {
		for trial := 0; trial < 20; trial++ {
			got, err := s.Randomize("animals", count)
			if err != nil {
				t.Fatalf("Randomize(%d) error: %v", count, err)
			}
			if strings.HasSuffix(got, "\n") {
				t.Fatalf("result has trailing newline: %q", got)
			}

			items := strings.Split(got, "\n")
			if len(items) != count {
				t.Fatalf("Randomize(%d) returned %d items: %q", count, len(items), got)
			}
			seen := make(map[string]bool)
			for _, item := range items {
				if !valid[item] {
					t.Fatalf("item %q is not an animals item", item)
				}
				if seen[item] {
					t.Fatalf("duplicate item %q in %q", item, got)
				}
				seen[item] = true
			}
		}
	}
}

func TestRandomizeAllItems(t *testing.T) {
	s := newTestService(t, realrand.New())

	got, err := s.Randomize("colors", 3)
	if err != nil {
		t.Fatalf("Randomize() error: %v", err)
	}

	items := strings.Split(got, "\n")
	seen := map[string]bool{}
	for _, item := range items {
		seen[item] = true
	}
	for _, want := range []string{"red", "blue", "green"} {
		if !seen[want] {
			t.Errorf("result %q is missing %q", got, want)
		}
	}
}

func TestRandomizeCountExceedsItems(t *testing.T) {
	s := newTestService(t, realrand.New())

	got, err := s.Randomize("colors", 5)
	if err != nil {
		t.Fatalf("Randomize() should not fail when count exceeds items, got: %v", err)
	}
	want := "Error: Requested 5 items but category 'colors' only has 3 items available."
	if got != want {
		t.Errorf("Randomize() = %q, want %q", got, want)
	}

	got, err = s.Randomize("animals", 100)
	if err != nil {
		t.Fatalf("Randomize() error: %v", err)
	}
	if !strings.Contains(got, "100") || !strings.Contains(got, "5") {
		t.Errorf("message should contain requested and available counts, got %q", got)
	}
}

func TestRandomizeUnknownCategory(t *testing.T) {
	s := newTestService(t, realrand.New())

	_, err := s.Randomize("nonexistent", 1)
	var unknown *UnknownCategoryError
	if !errors.As(err, &unknown) {
		t.Fatalf("Randomize() error = %v, want *UnknownCategoryError", err)
	}
	if unknown.Category != "nonexistent" {
		t.Errorf("Category = %q", unknown.Category)
	}

	msg := err.Error()
	if msg != "Unknown category 'nonexistent'. Available: colors, animals" {
		t.Errorf("Error() = %q", msg)
	}
}

func TestRandomizeUnknownCategoryBeforeCount(t *testing.T) {
	s := newTestService(t, realrand.New())

	_, err := s.Randomize("nope", 0)
	var unknown *UnknownCategoryError
	if !errors.As(err, &unknown) {
		t.Errorf("Randomize() error = %v, want *UnknownCategoryError", err)
	}
}

func TestRandomizeInvalidCount(t *testing.T) {
	s := newTestService(t, realrand.New())

	for _, count := range []int{0, -1, -100} {
		if _, err := s.Randomize("colors", count); !errors.Is(err, ErrInvalidCount) {
			t.Errorf("Randomize(count=%d) error = %v, want ErrInvalidCount", count, err)
		}
	}
}

func TestSampleDeterministicWithFakeRandom(t *testing.T) {
	tests := []struct {
		name     string
		sequence []int
		count    int
		want     []string
	}{
		{
			name:     "zero keeps source order",
			sequence: []int{0},
			count:    3,
			want:     []string{"cat", "dog", "owl"},
		},
		{
			name:     "last element first",
			sequence: []int{4},
			count:    1,
			want:     []string{"elk"},
		},
		{
			// perm [0 1 2 3 4]; i=0 j=0+2 -> [owl dog cat fox elk];
			// i=1 j=1+3 -> [owl elk cat fox dog]
			name:     "two swaps",
			sequence: []int{2, 3},
			count:    2,
			want:     []string{"owl", "elk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, fakerand.New(tt.sequence...))

			sel, err := s.Sample("animals", tt.count)
			if err != nil {
				t.Fatalf("Sample() error: %v", err)
			}
			if len(sel.Items) != len(tt.want) {
				t.Fatalf("Items = %q, want %q", sel.Items, tt.want)
			}
			for i := range tt.want {
				if sel.Items[i] != tt.want[i] {
					t.Errorf("Items[%d] = %q, want %q", i, sel.Items[i], tt.want[i])
				}
			}
		})
	}
}

func TestSampleDrawsShrinkingRanges(t *testing.T) {
	rng := fakerand.NewZero()
	s := newTestService(t, rng)

	if _, err := s.Sample("animals", 3); err != nil {
		t.Fatalf("Sample() error: %v", err)
	}

	calls := rng.Calls()
	want := []int{5, 4, 3}
	if len(calls) != len(want) {
		t.Fatalf("IntN calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("IntN call %d = %d, want %d", i, calls[i], want[i])
		}
	}
}

func TestSampleExceededDrawsNothing(t *testing.T) {
	rng := fakerand.NewZero()
	s := newTestService(t, rng)

	sel, err := s.Sample("colors", 4)
	if err != nil {
		t.Fatalf("Sample() error: %v", err)
	}
	if !sel.Exceeded || sel.Requested != 4 || sel.Available != 3 || len(sel.Items) != 0 {
		t.Errorf("Sample() = %+v", sel)
	}
	if len(rng.Calls()) != 0 {
		t.Errorf("random source used for exceeded request: %v", rng.Calls())
	}
}

func TestSelectionText(t *testing.T) {
	tests := []struct {
		name string
		sel  Selection
		want string
	}{
		{"single", Selection{Items: []string{"red"}}, "red"},
		{"multiple", Selection{Items: []string{"red", "blue"}}, "red\nblue"},
		{"exceeded", Selection{Category: "c", Requested: 9, Available: 2, Exceeded: true},
			"Error: Requested 9 items but category 'c' only has 2 items available."},
	}
	for _, tt := range tests {
		if got := tt.sel.Text(); got != tt.want {
			t.Errorf("%s: Text() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRandomizeVaries(t *testing.T) {
	s := newTestService(t, realrand.New())

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		got, err := s.Randomize("animals", 2)
		if err != nil {
			t.Fatalf("Randomize() error: %v", err)
		}
		seen[got] = true
	}
	if len(seen) < 2 {
		t.Errorf("200 draws produced a single output %v; random source looks broken", seen)
	}
}

func TestRandomizeRoughlyUniform(t *testing.T) {
	s := newTestService(t, realrand.New())

	const trials = 5000
	counts := make(map[string]int)
	for i := 0; i < trials; i++ {
		got, err := s.Randomize("animals", 1)
		if err != nil {
			t.Fatalf("Randomize() error: %v", err)
		}
		counts[got]++
	}

	// Expected 1000 each; allow a wide margin to keep the test stable.
	for item, c := range counts {
		if c < 700 || c > 1300 {
			t.Errorf("item %q drawn %d times out of %d", item, c, trials)
		}
	}
	if len(counts) != 5 {
		t.Errorf("only %d of 5 items ever drawn: %v", len(counts), counts)
	}
}

func TestRandomizeConcurrent(t *testing.T) {
	s := newTestService(t, realrand.New())

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				got, err := s.Randomize("animals", 3)
				if err != nil {
					t.Errorf("Randomize() error: %v", err)
					return
				}
				if n := len(strings.Split(got, "\n")); n != 3 {
					t.Errorf("got %d items", n)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestCategories(t *testing.T) {
	s := newTestService(t, realrand.New())
	if got := strings.Join(s.Categories(), ","); got != "colors,animals" {
		t.Errorf("Categories() = %s", got)
	}
}
