package experiments

import (
	"fmt"
	"sort"

	"gomonte/internal/errors"
)

var catalog = map[string]func() *Experiment{}

// register adds a built-in experiment. Called from package init.
func register(name string, build func() *Experiment) {
	if _, dup := catalog[name]; dup {
		panic(fmt.Sprintf("experiments: duplicate catalog entry %q", name))
	}
	catalog[name] = build
}

// Lookup builds the named catalog experiment.
func Lookup(name string) (*Experiment, error) {
	build, ok := catalog[name]
	if !ok {
		return nil, errors.Newf(errors.CodeConfig, "unknown experiment %q (known: %v)", name, Names())
	}
	return build(), nil
}

// Names lists the catalog, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the one-line description of a catalog entry.
func Describe(name string) (string, error) {
	e, err := Lookup(name)
	if err != nil {
		return "", err
	}
	return e.Description, nil
}
