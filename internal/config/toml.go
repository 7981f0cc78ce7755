package config

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// decodeTOML parses a TOML configuration and returns its categories in
// document order.
func decodeTOML(path string, data []byte) ([]CategoryRef, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, &ParseError{Path: path, Format: FormatTOML, Err: err}
	}

	var unknown []string
	for key := range raw {
		if key != CategoriesKey {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &SchemaError{Path: path, Field: unknown[0], Reason: "unknown top-level key"}
	}

	value, ok := raw[CategoriesKey]
	if !ok {
		return nil, &SchemaError{Path: path, Field: CategoriesKey, Reason: "missing required table"}
	}

	table, ok := value.(map[string]any)
	if !ok {
		return nil, &SchemaError{
			Path:   path,
			Field:  CategoriesKey,
			Reason: fmt.Sprintf("must be a table of name = \"path\" entries, got %s", tomlTypeName(value)),
		}
	}

	refs := make([]CategoryRef, 0, len(table))
	for _, name := range tomlOrder(md, table) {
		target, ok := table[name].(string)
		if !ok {
			return nil, &SchemaError{
				Path:   path,
				Field:  CategoriesKey + "." + name,
				Reason: fmt.Sprintf("must be a string file path, got %s", tomlTypeName(table[name])),
			}
		}
		if err := validateRef(path, name, target); err != nil {
			return nil, err
		}
		refs = append(refs, CategoryRef{Name: name, Path: target})
	}

	return refs, nil
}

// tomlOrder returns the keys of the categories table in the order they appear
// in the document. Keys the metadata does not report are appended sorted.
func tomlOrder(md toml.MetaData, table map[string]any) []string {
	names := make([]string, 0, len(table))
	seen := make(map[string]bool, len(table))

	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != CategoriesKey {
			continue
		}
		name := key[1]
		if _, ok := table[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	var rest []string
	for name := range table {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)

	return append(names, rest...)
}

func tomlTypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int64:
		return "integer"
	case float64:
		return "float"
	case bool:
		return "boolean"
	case map[string]any:
		return "table"
	case []map[string]any:
		return "array of tables"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
