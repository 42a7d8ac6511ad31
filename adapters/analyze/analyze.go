// Package analyze contains the analyzers: each wraps exactly one
// statistical procedure and flattens its output into a fixed-shape
// result record. p-values come from gonum's distribution functions, not
// large-sample shortcuts, so small-n classroom conditions stay honest.
package analyze

import (
	"fmt"
	"sort"

	"gomonte/internal/errors"
	"gomonte/ports"
)

// Alpha is the significance threshold used by the conditional
// dispatcher. Comparison is strictly less-than: a p-value exactly at the
// threshold does not trigger the nonparametric route.
const Alpha = 0.05

var registry = map[string]func() ports.Analyzer{}

// Register adds an analyzer constructor under its name. Registration
// happens in package init; duplicate names are a programming error.
func Register(name string, ctor func() ports.Analyzer) {
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("analyze: duplicate analyzer %q", name))
	}
	registry[name] = ctor
}

// Lookup builds the named analyzer.
func Lookup(name string) (ports.Analyzer, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.Newf(errors.CodeConfig, "unknown analyzer %q (known: %v)", name, Names())
	}
	return ctor(), nil
}

// Names lists registered analyzers, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
