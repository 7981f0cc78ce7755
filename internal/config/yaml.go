package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// decodeYAML parses a YAML configuration. The node API is used instead of
// unmarshalling into a map so that document order survives and non-string
// scalars can be told apart from strings.
func decodeYAML(path string, data []byte) ([]CategoryRef, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Format: FormatYAML, Err: err}
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, &SchemaError{Path: path, Field: CategoriesKey, Reason: "missing required table"}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &SchemaError{Path: path, Reason: "top level must be a mapping"}
	}

	var categories *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		if key.Value != CategoriesKey {
			return nil, &SchemaError{Path: path, Field: key.Value, Reason: fmt.Sprintf("unknown top-level key (line %d)", key.Line)}
		}
		categories = root.Content[i+1]
	}

	if categories == nil {
		return nil, &SchemaError{Path: path, Field: CategoriesKey, Reason: "missing required table"}
	}
	if categories.Kind != yaml.MappingNode {
		return nil, &SchemaError{
			Path:   path,
			Field:  CategoriesKey,
			Reason: fmt.Sprintf("must be a mapping of name: path entries (line %d)", categories.Line),
		}
	}

	refs := make([]CategoryRef, 0, len(categories.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(categories.Content); i += 2 {
		key, value := categories.Content[i], categories.Content[i+1]
		name := key.Value
		field := CategoriesKey + "." + name

		if key.Kind != yaml.ScalarNode {
			return nil, &SchemaError{Path: path, Field: CategoriesKey, Reason: fmt.Sprintf("category names must be strings (line %d)", key.Line)}
		}
		if seen[name] {
			return nil, &SchemaError{Path: path, Field: field, Reason: fmt.Sprintf("duplicate category (line %d)", key.Line)}
		}
		if value.Kind != yaml.ScalarNode || value.ShortTag() != "!!str" {
			return nil, &SchemaError{Path: path, Field: field, Reason: fmt.Sprintf("must be a string file path (line %d)", value.Line)}
		}
		if err := validateRef(path, name, value.Value); err != nil {
			return nil, err
		}

		seen[name] = true
		refs = append(refs, CategoryRef{Name: name, Path: value.Value})
	}

	return refs, nil
}
