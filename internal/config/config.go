// Package config loads and validates the wildcard-mcp category configuration.
//
// A configuration is a single table mapping category names to data file
// paths:
//
//	[categories]
//	colors = "data/colors.txt"
//	animals = "data/animals.txt"
//
// TOML is the default format; files ending in .yaml or .yml are read as YAML
// with the same shape. Both parsers are strict: any top-level key other than
// "categories" is rejected, and every category must map to a non-empty string.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/acolita/wildcard-mcp/internal/adapters/realfs"
	"github.com/acolita/wildcard-mcp/internal/ports"
)

// CategoriesKey is the only top-level key a configuration may contain.
const CategoriesKey = "categories"

// ErrConfigNotFound is returned when no configuration file exists at the
// requested location(s).
var ErrConfigNotFound = errors.New("config file not found")

// Format identifies the syntax of a configuration file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the configuration format from the file extension.
// Anything that is not .yaml/.yml is treated as TOML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Config is a validated configuration. It is not modified after Load returns.
type Config struct {
	// Path is the file the configuration was read from.
	Path string

	// Format is the syntax the file was parsed as.
	Format Format

	// Categories lists the configured categories in document order.
	Categories []CategoryRef
}

// CategoryRef points a category name at its data file.
type CategoryRef struct {
	Name string
	Path string // as written in the config, usually relative to Dir()
}

// Dir returns the directory that relative category paths resolve against.
func (c *Config) Dir() string {
	return filepath.Dir(c.Path)
}

// Names returns the category names in document order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}

// ParseError reports a configuration file that is not valid syntax.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s config %s: %v", e.Format, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports a syntactically valid file with the wrong shape.
type SchemaError struct {
	Path   string
	Field  string // dotted key path, empty for the document root
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid config %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("invalid config %s: %s: %s", e.Path, e.Field, e.Reason)
}

// Load reads and validates the configuration at path.
// An optional FileSystem can be passed for testing; if omitted, the real OS is used.
func Load(path string, fsys ...ports.FileSystem) (*Config, error) {
	var fileSystem ports.FileSystem = realfs.New()
	if len(fsys) > 0 && fsys[0] != nil {
		fileSystem = fsys[0]
	}

	if _, err := fileSystem.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("stat config file %s: %w", path, err)
	}

	slog.Info("loading config", slog.String("path", path))

	data, err := fileSystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	format := FormatFor(path)

	var refs []CategoryRef
	switch format {
	case FormatYAML:
		refs, err = decodeYAML(path, data)
	default:
		refs, err = decodeTOML(path, data)
	}
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Path:       path,
		Format:     format,
		Categories: refs,
	}

	slog.Info("config loaded",
		slog.Int("categories", len(cfg.Categories)),
		slog.String("names", strings.Join(cfg.Names(), ", ")),
	)

	return cfg, nil
}

// validateRef checks a single decoded category entry.
func validateRef(path, name, target string) error {
	field := CategoriesKey + "." + name
	if strings.TrimSpace(name) == "" {
		return &SchemaError{Path: path, Field: CategoriesKey, Reason: "category name must not be empty"}
	}
	if strings.TrimSpace(target) == "" {
		return &SchemaError{Path: path, Field: field, Reason: "file path must not be empty"}
	}
	return nil
}
