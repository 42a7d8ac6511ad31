package experiments

import (
	"os"

	"gopkg.in/yaml.v3"

	"gomonte/adapters/analyze"
	"gomonte/adapters/generate"
	"gomonte/adapters/plot"
	"gomonte/app"
	"gomonte/domain/grid"
	"gomonte/internal/errors"
)

// fileSpec is the YAML shape of an ad-hoc experiment file. Parameters
// are a list, not a map, because declaration order fixes grid order and
// therefore the random stream each row receives.
type fileSpec struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Seed        uint64               `yaml:"seed"`
	Iterations  int                  `yaml:"iterations"`
	Generator   string               `yaml:"generator"`
	Analyzer    string               `yaml:"analyzer"`
	Params      []paramSpec          `yaml:"params"`
	Reductions  []app.Reduction      `yaml:"reductions"`
	Multiverse  *plot.MultiverseSpec `yaml:"multiverse"`
}

type paramSpec struct {
	Name   string `yaml:"name"`
	Value  any    `yaml:"value"`
	Values []any  `yaml:"values"`
}

// LoadFile reads a YAML experiment definition and resolves its
// generator and analyzer names against the registries.
func LoadFile(path string) (*Experiment, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeConfig, err), "read experiment file")
	}
	var spec fileSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeConfig, err), "parse experiment file")
	}

	if spec.Name == "" {
		return nil, errors.Newf(errors.CodeConfig, "%s: experiment needs a name", path)
	}
	gen, err := generate.Lookup(spec.Generator)
	if err != nil {
		return nil, err
	}
	an, err := analyze.Lookup(spec.Analyzer)
	if err != nil {
		return nil, err
	}
	if len(spec.Reductions) == 0 {
		return nil, errors.Newf(errors.CodeConfig, "%s: experiment declares no reductions", path)
	}

	cfg := grid.Config{
		Name:       spec.Name,
		Iterations: spec.Iterations,
		Seed:       spec.Seed,
	}
	for _, p := range spec.Params {
		switch {
		case p.Value != nil && len(p.Values) > 0:
			return nil, errors.Newf(errors.CodeConfig, "%s: parameter %q declares both value and values", path, p.Name)
		case p.Value != nil:
			cfg.Params = append(cfg.Params, grid.Param{Name: p.Name, Values: []any{p.Value}})
		case len(p.Values) > 0:
			cfg.Params = append(cfg.Params, grid.Param{Name: p.Name, Values: p.Values})
		default:
			return nil, errors.Newf(errors.CodeConfig, "%s: parameter %q declares neither value nor values", path, p.Name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Experiment{
		Description: spec.Description,
		Config:      cfg,
		Generator:   gen,
		Analyzer:    an,
		Reductions:  spec.Reductions,
		Multiverse:  spec.Multiverse,
	}, nil
}
