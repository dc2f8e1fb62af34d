package field

import "github.com/nkaramanos/lettergen/internal/dataset"

// Map is the per-row mapping from field name to display string. It is
// built fresh for every row and never mutated afterwards.
type Map map[string]string

// BuildMap resolves and normalizes every spec against one row. Seed
// entries, when given, are written first; a configured field of the same
// name overrides its seed.
func BuildMap(resolver *Resolver, row dataset.Row, specs []Spec, seed Map) Map {
	m := make(Map, len(specs)+len(seed))
	for name, value := range seed {
		m[name] = value
	}
	for _, spec := range specs {
		raw := resolver.Value(row, spec)
		m[spec.Name] = ToDisplay(raw, spec.DisplayKind())
	}
	return m
}
