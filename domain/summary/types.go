// Package summary defines the aggregated output of a simulation run: one
// row per distinct combination of varied parameters.
package summary

import "fmt"

// Record is one summary row: the varied parameter values identifying the
// condition, plus the reduced statistics across all its iterations.
type Record struct {
	Params map[string]any     `json:"params"`
	Stats  map[string]float64 `json:"stats"`
}

// Table is the full aggregated summary of a run.
type Table struct {
	Experiment string   `json:"experiment"`
	GroupCols  []string `json:"group_cols"` // varied parameter names, declaration order
	StatCols   []string `json:"stat_cols"`  // reduction names, declaration order
	Rows       []Record `json:"rows"`
}

// Cell renders one parameter value for display.
func Cell(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%g", x)
	case int:
		return fmt.Sprintf("%d", x)
	case string:
		return x
	}
	return fmt.Sprintf("%v", v)
}

// Stat fetches a named statistic from a record.
func (r Record) Stat(name string) (float64, bool) {
	v, ok := r.Stats[name]
	return v, ok
}
