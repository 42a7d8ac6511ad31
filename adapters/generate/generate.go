// Package generate contains the data generators: pure functions of a
// condition row and a random stream that produce one synthetic dataset.
// Each generator mirrors a sampling scheme used in classroom
// demonstrations (group comparisons, contaminated correlations, paired
// designs, selection effects).
package generate

import (
	"fmt"
	"sort"

	"gomonte/internal/errors"
	"gomonte/ports"
)

// registry maps generator names to constructors so experiments can be
// declared in config files.
var registry = map[string]func() ports.Generator{}

// Register adds a generator constructor under its name. Registration
// happens in package init; duplicate names are a programming error.
func Register(name string, ctor func() ports.Generator) {
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("generate: duplicate generator %q", name))
	}
	registry[name] = ctor
}

// Lookup builds the named generator.
func Lookup(name string) (ports.Generator, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.Newf(errors.CodeConfig, "unknown generator %q (known: %v)", name, Names())
	}
	return ctor(), nil
}

// Names lists registered generators, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
