package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Facts is the set of dotted configuration keys the caller has supplied for
// external systems (e.g. "servicenow.instance"). It is consumed only by the
// integration-call codegen to decide between a real task and a blocked stub.
type Facts map[string]struct{}

// LoadFacts reads a YAML document and flattens its nested mappings into
// dotted keys. Every intermediate prefix is included, so a section key like
// "servicenow" is present whenever any of its children is.
func LoadFacts(path string) (Facts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read facts file %s: %w", path, err)
	}

	return ParseFacts(data)
}

// ParseFacts flattens a YAML document into a fact set.
func ParseFacts(data []byte) (Facts, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode facts document: %w", err)
	}

	facts := make(Facts)
	flattenFacts("", raw, facts)

	return facts, nil
}

func flattenFacts(prefix string, node map[string]any, facts Facts) {
	for key, value := range node {
		dotted := key
		if prefix != "" {
			dotted = prefix + "." + key
		}

		facts[dotted] = struct{}{}

		if child, ok := value.(map[string]any); ok {
			flattenFacts(dotted, child, facts)
		}
	}
}

// Has reports whether a dotted key was supplied.
func (f Facts) Has(key string) bool {
	_, ok := f[key]

	return ok
}

// Missing returns the required keys not present in the fact set, sorted for
// deterministic stub output.
func (f Facts) Missing(required []string) []string {
	var missing []string

	for _, key := range required {
		if !f.Has(key) {
			missing = append(missing, key)
		}
	}

	sort.Strings(missing)

	return missing
}
