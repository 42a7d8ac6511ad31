// Package grid declares simulation experiments as parameter sweeps and
// expands them into the full enumeration of condition rows.
package grid

// Expand produces the Cartesian product of all declared parameters crossed
// with the iteration index. Ordering is deterministic: parameters vary in
// declaration order (first parameter slowest), with the iteration index
// innermost. Row.Index is the position in this ordering.
func Expand(c Config) ([]ConditionRow, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	total := c.Iterations
	for _, p := range c.Params {
		total *= len(p.Values)
	}

	rows := make([]ConditionRow, 0, total)
	counters := make([]int, len(c.Params))
	for {
		for iter := 0; iter < c.Iterations; iter++ {
			params := make(map[string]any, len(c.Params))
			for i, p := range c.Params {
				params[p.Name] = p.Values[counters[i]]
			}
			rows = append(rows, ConditionRow{
				Index:     len(rows),
				Iteration: iter,
				Params:    params,
			})
		}

		// Odometer increment, last parameter fastest.
		i := len(counters) - 1
		for ; i >= 0; i-- {
			counters[i]++
			if counters[i] < len(c.Params[i].Values) {
				break
			}
			counters[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return rows, nil
}

// Conditions returns the number of distinct condition combinations in the
// grid, excluding the iteration index.
func Conditions(c Config) int {
	n := 1
	for _, p := range c.Params {
		distinct := make(map[any]bool, len(p.Values))
		for _, v := range p.Values {
			distinct[canonValue(v)] = true
		}
		n *= len(distinct)
	}
	return n
}
