package grid

import (
	"fmt"

	"gomonte/internal/errors"
)

// Param declares one experiment parameter: a name plus either a single
// candidate value or a set of candidate values to sweep over.
// Candidate values are float64, int, or string. Numeric candidates
// compare by value, so int 1 and float64 1.0 are the same candidate.
type Param struct {
	Name   string `json:"name" yaml:"name"`
	Values []any  `json:"values" yaml:"values"`
}

// canonValue maps a candidate to its identity for distinctness checks.
// Ints widen to float64 so 1 and 1.0 cannot masquerade as two
// conditions that later collapse into one summary row.
func canonValue(v any) any {
	if i, ok := v.(int); ok {
		return float64(i)
	}
	return v
}

// Varied reports whether the parameter has more than one distinct candidate.
func (p Param) Varied() bool {
	if len(p.Values) < 2 {
		return false
	}
	distinct := make(map[any]bool, len(p.Values))
	for _, v := range p.Values {
		distinct[canonValue(v)] = true
	}
	return len(distinct) > 1
}

// Config declares a full simulation experiment: the parameter sweep, the
// number of Monte-Carlo iterations per condition, and the master seed.
type Config struct {
	Name       string  `json:"name" yaml:"name"`
	Params     []Param `json:"params" yaml:"params"`
	Iterations int     `json:"iterations" yaml:"iterations"`
	Seed       uint64  `json:"seed" yaml:"seed"`
}

// Validate checks the configuration before any row is generated.
func (c Config) Validate() error {
	if c.Iterations < 1 {
		return errors.New(errors.CodeConfig, fmt.Sprintf("experiment %q: iterations must be >= 1, got %d", c.Name, c.Iterations))
	}
	seen := make(map[string]bool, len(c.Params))
	for _, p := range c.Params {
		if p.Name == "" {
			return errors.New(errors.CodeConfig, fmt.Sprintf("experiment %q: parameter with empty name", c.Name))
		}
		if seen[p.Name] {
			return errors.New(errors.CodeConfig, fmt.Sprintf("experiment %q: duplicate parameter %q", c.Name, p.Name))
		}
		seen[p.Name] = true
		if len(p.Values) == 0 {
			return errors.New(errors.CodeConfig, fmt.Sprintf("experiment %q: parameter %q has no candidate values", c.Name, p.Name))
		}
		numeric, categorical := false, false
		for _, v := range p.Values {
			switch v.(type) {
			case float64, int:
				numeric = true
			case string:
				categorical = true
			default:
				return errors.New(errors.CodeConfig, fmt.Sprintf("experiment %q: parameter %q has unsupported value type %T", c.Name, p.Name, v))
			}
		}
		// A parameter is numeric or categorical, never both: mixed
		// candidates could render to the same group-key cell.
		if numeric && categorical {
			return errors.New(errors.CodeConfig, fmt.Sprintf("experiment %q: parameter %q mixes numeric and string candidates", c.Name, p.Name))
		}
	}
	return nil
}

// Varied returns the names of parameters declared with more than one
// distinct candidate value, in declaration order. This is the mandatory
// grouping key for any summary built from this grid.
func (c Config) Varied() []string {
	var names []string
	for _, p := range c.Params {
		if p.Varied() {
			names = append(names, p.Name)
		}
	}
	return names
}

// ConditionRow is one concrete combination of parameter values plus an
// iteration index. Rows are immutable once expanded.
type ConditionRow struct {
	Index     int            `json:"index"`
	Iteration int            `json:"iteration"`
	Params    map[string]any `json:"params"`
}

// Float fetches a numeric parameter, accepting int candidates.
func (r ConditionRow) Float(name string) (float64, error) {
	v, ok := r.Params[name]
	if !ok {
		return 0, errors.New(errors.CodeConfig, fmt.Sprintf("row %d: missing parameter %q", r.Index, name))
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	}
	return 0, errors.New(errors.CodeConfig, fmt.Sprintf("row %d: parameter %q is %T, want numeric", r.Index, name, v))
}

// Int fetches an integer parameter. Float candidates must be whole numbers.
func (r ConditionRow) Int(name string) (int, error) {
	v, ok := r.Params[name]
	if !ok {
		return 0, errors.New(errors.CodeConfig, fmt.Sprintf("row %d: missing parameter %q", r.Index, name))
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case float64:
		if x != float64(int(x)) {
			return 0, errors.New(errors.CodeConfig, fmt.Sprintf("row %d: parameter %q = %v is not a whole number", r.Index, name, x))
		}
		return int(x), nil
	}
	return 0, errors.New(errors.CodeConfig, fmt.Sprintf("row %d: parameter %q is %T, want integer", r.Index, name, v))
}

// String fetches a categorical parameter.
func (r ConditionRow) String(name string) (string, error) {
	v, ok := r.Params[name]
	if !ok {
		return "", errors.New(errors.CodeConfig, fmt.Sprintf("row %d: missing parameter %q", r.Index, name))
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.New(errors.CodeConfig, fmt.Sprintf("row %d: parameter %q is %T, want string", r.Index, name, v))
	}
	return s, nil
}

// FloatOr fetches a numeric parameter, falling back to a default when the
// parameter was not declared at all. Type mismatches still error.
func (r ConditionRow) FloatOr(name string, fallback float64) (float64, error) {
	if _, ok := r.Params[name]; !ok {
		return fallback, nil
	}
	return r.Float(name)
}

// StringOr fetches a categorical parameter, falling back to a default
// when the parameter was not declared at all. Type mismatches still error.
func (r ConditionRow) StringOr(name, fallback string) (string, error) {
	if _, ok := r.Params[name]; !ok {
		return fallback, nil
	}
	return r.String(name)
}

// IntOr fetches an integer parameter, falling back to a default when the
// parameter was not declared at all. Type mismatches still error.
func (r ConditionRow) IntOr(name string, fallback int) (int, error) {
	if _, ok := r.Params[name]; !ok {
		return fallback, nil
	}
	return r.Int(name)
}
