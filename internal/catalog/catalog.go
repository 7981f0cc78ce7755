// Package catalog loads category data files into an immutable, in-memory
// snapshot that tool handlers read concurrently without locking.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/acolita/wildcard-mcp/internal/adapters/realfs"
	"github.com/acolita/wildcard-mcp/internal/config"
	"github.com/acolita/wildcard-mcp/internal/ports"
)

// ErrNoCategories is returned when a configuration defines no categories.
var ErrNoCategories = errors.New("no categories defined in config")

// CategoryFileNotFoundError reports a category whose data file is missing.
type CategoryFileNotFoundError struct {
	Category string
	Path     string
}

func (e *CategoryFileNotFoundError) Error() string {
	return fmt.Sprintf("category file not found for '%s': %s", e.Category, e.Path)
}

// EmptyCategoryError reports a category whose data has no usable lines.
type EmptyCategoryError struct {
	Category string
	Path     string
}

func (e *EmptyCategoryError) Error() string {
	return fmt.Sprintf("category file for '%s' is empty: %s", e.Category, e.Path)
}

// Category is the loaded item list of one category.
type Category struct {
	name   string
	source string
	files  []string
	items  []string
}

// Name returns the category name.
func (c *Category) Name() string { return c.name }

// Source returns the resolved path (or pattern) the items were read from.
func (c *Category) Source() string { return c.source }

// Files returns the data files that contributed items.
func (c *Category) Files() []string {
	out := make([]string, len(c.files))
	copy(out, c.files)
	return out
}

// Len returns the number of items.
func (c *Category) Len() int { return len(c.items) }

// Item returns the item at position i.
func (c *Category) Item(i int) string { return c.items[i] }

// Items returns a copy of all items in file order.
func (c *Category) Items() []string {
	out := make([]string, len(c.items))
	copy(out, c.items)
	return out
}

// Catalog maps category names to their items. It is never modified after
// Load returns.
type Catalog struct {
	order  []string
	byName map[string]*Category
}

// Names returns the category names in configuration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.order) }

// Lookup returns the named category.
func (c *Catalog) Lookup(name string) (*Category, bool) {
	cat, ok := c.byName[name]
	return cat, ok
}

// TotalItems returns the number of items across all categories.
func (c *Catalog) TotalItems() int {
	total := 0
	for _, cat := range c.byName {
		total += cat.Len()
	}
	return total
}

// Load reads every category of cfg, resolving relative paths against baseDir.
// Categories are processed in configuration order and the first failure is
// returned.
// An optional FileSystem can be passed for testing; if omitted, the real OS is used.
func Load(cfg *config.Config, baseDir string, fsys ...ports.FileSystem) (*Catalog, error) {
	var fileSystem ports.FileSystem = realfs.New()
	if len(fsys) > 0 && fsys[0] != nil {
		fileSystem = fsys[0]
	}

	if len(cfg.Categories) == 0 {
		return nil, ErrNoCategories
	}

	cat := &Catalog{
		order:  make([]string, 0, len(cfg.Categories)),
		byName: make(map[string]*Category, len(cfg.Categories)),
	}

	for _, ref := range cfg.Categories {
		if _, dup := cat.byName[ref.Name]; dup {
			return nil, fmt.Errorf("category '%s' is defined more than once", ref.Name)
		}

		category, err := loadCategory(fileSystem, ref, baseDir)
		if err != nil {
			return nil, err
		}

		slog.Debug("loaded category",
			slog.String("category", category.name),
			slog.Int("items", category.Len()),
			slog.String("source", category.source),
		)

		cat.order = append(cat.order, ref.Name)
		cat.byName[ref.Name] = category
	}

	slog.Info("catalog ready",
		slog.Int("categories", cat.Len()),
		slog.Int("items", cat.TotalItems()),
	)

	return cat, nil
}

// Resolve returns the path of a category file relative to baseDir.
// Absolute paths are returned unchanged.
func Resolve(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

func loadCategory(fsys ports.FileSystem, ref config.CategoryRef, baseDir string) (*Category, error) {
	source := Resolve(baseDir, ref.Path)

	files, err := expand(fsys, ref.Name, baseDir, ref.Path)
	if err != nil {
		return nil, err
	}

	var items []string
	for _, file := range files {
		data, err := fsys.ReadFile(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &CategoryFileNotFoundError{Category: ref.Name, Path: file}
			}
			return nil, fmt.Errorf("read category file for '%s': %w", ref.Name, err)
		}
		items = append(items, ParseItems(data)...)
	}

	if len(items) == 0 {
		return nil, &EmptyCategoryError{Category: ref.Name, Path: source}
	}

	return &Category{
		name:   ref.Name,
		source: source,
		files:  files,
		items:  items,
	}, nil
}

// ResolvePattern is Resolve for a glob category path. Metacharacters in
// baseDir are escaped so that only the configured path is treated as a pattern.
func ResolvePattern(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(config.EscapePattern(baseDir), path)
}

// expand turns a category path into the list of files to read. An existing
// file is always read as is, even when its name looks like a glob.
func expand(fsys ports.FileSystem, category, baseDir, path string) ([]string, error) {
	source := Resolve(baseDir, path)

	info, err := fsys.Stat(source)
	switch {
	case err == nil:
		if info.IsDir() {
			return nil, fmt.Errorf("category file for '%s' is a directory: %s", category, source)
		}
		return []string{source}, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("stat category file for '%s': %w", category, err)
	case !config.IsPattern(path):
		return nil, &CategoryFileNotFoundError{Category: category, Path: source}
	}

	pattern := ResolvePattern(baseDir, path)
	matches, err := fsys.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expand pattern for '%s' (%s): %w", category, source, err)
	}
	if len(matches) == 0 {
		return nil, &CategoryFileNotFoundError{Category: category, Path: source}
	}
	return matches, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// lineBreaks folds \r\n and lone \r into \n.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// ParseItems splits category file content into items: one per line, with
// surrounding whitespace trimmed and blank lines dropped. Duplicates are kept.
func ParseItems(data []byte) []string {
	data = bytes.TrimPrefix(data, utf8BOM)

	text := lineBreaks.Replace(string(data))

	var items []string
	for _, line := range strings.Split(text, "\n") {
		if item := strings.TrimSpace(line); item != "" {
			items = append(items, item)
		}
	}
	return items
}
