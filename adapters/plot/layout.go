// Package plot renders simulation summaries as figures: the two-panel
// multiverse composite plus single-iteration diagnostics.
package plot

import (
	"fmt"
	"sort"

	"gomonte/domain/summary"
	"gomonte/internal/errors"
)

// MultiverseSpec selects what the multiverse figure shows.
type MultiverseSpec struct {
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Outcome string   `json:"outcome" yaml:"outcome"`
	Lower   string   `json:"lower,omitempty" yaml:"lower,omitempty"`
	Upper   string   `json:"upper,omitempty" yaml:"upper,omitempty"`
	RankBy  string   `json:"rank_by,omitempty" yaml:"rank_by,omitempty"`
	Cutoff  *float64 `json:"cutoff,omitempty" yaml:"cutoff,omitempty"`
}

// Lane is one row of the condition panel: a (condition column, value)
// pair.
type Lane struct {
	Column string
	Value  string
}

// Label renders the lane's y-axis label.
func (l Lane) Label() string {
	return fmt.Sprintf("%s = %s", l.Column, l.Value)
}

// LanePoint marks that the summary row at a rank position has the lane's
// condition value.
type LanePoint struct {
	Rank int
	Lane int
}

// Layout is the resolved geometry of a multiverse figure, independent of
// any rendering backend so the alignment contract stays testable.
type Layout struct {
	Spec MultiverseSpec

	// Order[r] is the summary-table row index drawn at rank position r;
	// Rank is its inverse. Both cover every table row exactly once.
	Order []int
	Rank  []int

	Outcome []float64 // indexed by table row
	Lower   []float64 // nil when the spec declares no interval
	Upper   []float64

	Lanes  []Lane
	Points []LanePoint
}

// BuildLayout computes rank positions and condition lanes for a summary
// table. Ranking sorts ascending on the rank column, which may be a
// summary statistic or a numeric condition column (default: the outcome
// itself), ties broken by original row order. Which condition values
// pair with which outcome is fixed by the table rows; re-ranking only
// permutes shared x positions.
func BuildLayout(table summary.Table, spec MultiverseSpec) (*Layout, error) {
	if spec.Outcome == "" {
		return nil, errors.New(errors.CodeRender, "multiverse: no outcome column declared")
	}
	if len(table.Rows) == 0 {
		return nil, errors.New(errors.CodeRender, "multiverse: empty summary table")
	}
	if (spec.Lower == "") != (spec.Upper == "") {
		return nil, errors.New(errors.CodeRender, "multiverse: interval needs both lower and upper columns")
	}

	n := len(table.Rows)
	layout := &Layout{
		Spec:    spec,
		Outcome: make([]float64, n),
	}
	if spec.Lower != "" {
		layout.Lower = make([]float64, n)
		layout.Upper = make([]float64, n)
	}

	rankCol := spec.RankBy
	if rankCol == "" {
		rankCol = spec.Outcome
	}
	rankVals := make([]float64, n)

	for i, row := range table.Rows {
		v, ok := row.Stat(spec.Outcome)
		if !ok {
			return nil, errors.Newf(errors.CodeRender, "multiverse: row %d lacks outcome column %q", i, spec.Outcome)
		}
		layout.Outcome[i] = v
		rv, err := rankValue(row, rankCol, i)
		if err != nil {
			return nil, err
		}
		rankVals[i] = rv
		if layout.Lower != nil {
			lo, ok := row.Stat(spec.Lower)
			if !ok {
				return nil, errors.Newf(errors.CodeRender, "multiverse: row %d lacks interval column %q", i, spec.Lower)
			}
			hi, ok := row.Stat(spec.Upper)
			if !ok {
				return nil, errors.Newf(errors.CodeRender, "multiverse: row %d lacks interval column %q", i, spec.Upper)
			}
			layout.Lower[i] = lo
			layout.Upper[i] = hi
		}
	}

	layout.Order = make([]int, n)
	for i := range layout.Order {
		layout.Order[i] = i
	}
	sort.SliceStable(layout.Order, func(a, b int) bool {
		return rankVals[layout.Order[a]] < rankVals[layout.Order[b]]
	})
	layout.Rank = make([]int, n)
	for r, idx := range layout.Order {
		layout.Rank[idx] = r
	}

	// One lane per (condition column, distinct value), columns in
	// declaration order, values in first-seen table order.
	laneOf := make(map[Lane]int)
	for _, col := range table.GroupCols {
		for _, row := range table.Rows {
			v, ok := row.Params[col]
			if !ok {
				return nil, errors.Newf(errors.CodeRender, "multiverse: summary row lacks condition column %q", col)
			}
			lane := Lane{Column: col, Value: summary.Cell(v)}
			if _, seen := laneOf[lane]; !seen {
				laneOf[lane] = len(layout.Lanes)
				layout.Lanes = append(layout.Lanes, lane)
			}
		}
	}
	for i, row := range table.Rows {
		for _, col := range table.GroupCols {
			lane := Lane{Column: col, Value: summary.Cell(row.Params[col])}
			layout.Points = append(layout.Points, LanePoint{
				Rank: layout.Rank[i],
				Lane: laneOf[lane],
			})
		}
	}
	return layout, nil
}

// rankValue resolves the rank column against a summary row: statistics
// first, then numeric condition parameters.
func rankValue(row summary.Record, col string, i int) (float64, error) {
	if v, ok := row.Stat(col); ok {
		return v, nil
	}
	if p, ok := row.Params[col]; ok {
		switch x := p.(type) {
		case float64:
			return x, nil
		case int:
			return float64(x), nil
		}
		return 0, errors.Newf(errors.CodeRender, "multiverse: rank column %q is a non-numeric condition", col)
	}
	return 0, errors.Newf(errors.CodeRender, "multiverse: row %d lacks rank column %q", i, col)
}
