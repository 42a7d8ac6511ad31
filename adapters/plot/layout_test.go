package plot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomonte/domain/summary"
	"gomonte/internal/errors"
)

func layoutTable() summary.Table {
	return summary.Table{
		Experiment: "power-curve",
		GroupCols:  []string{"n", "skew"},
		StatCols:   []string{"power", "mean_d", "lo", "hi"},
		Rows: []summary.Record{
			{Params: map[string]any{"n": 10, "skew": 0.0}, Stats: map[string]float64{"power": 0.3, "mean_d": 0.52, "lo": 0.1, "hi": 0.5}},
			{Params: map[string]any{"n": 10, "skew": 8.0}, Stats: map[string]float64{"power": 0.2, "mean_d": 0.48, "lo": 0.0, "hi": 0.4}},
			{Params: map[string]any{"n": 40, "skew": 0.0}, Stats: map[string]float64{"power": 0.9, "mean_d": 0.50, "lo": 0.7, "hi": 1.1}},
			{Params: map[string]any{"n": 40, "skew": 8.0}, Stats: map[string]float64{"power": 0.8, "mean_d": 0.47, "lo": 0.6, "hi": 1.0}},
		},
	}
}

func TestBuildLayout_RanksAscending(t *testing.T) {
	layout, err := BuildLayout(layoutTable(), MultiverseSpec{Outcome: "power", Lower: "lo", Upper: "hi"})
	require.NoError(t, err)

	// power values 0.3, 0.2, 0.9, 0.8 rank as rows 1, 0, 3, 2.
	assert.Equal(t, []int{1, 0, 3, 2}, layout.Order)
	assert.Equal(t, []int{1, 0, 3, 2}, layout.Rank)

	prev := -1.0
	for _, idx := range layout.Order {
		assert.GreaterOrEqual(t, layout.Outcome[idx], prev)
		prev = layout.Outcome[idx]
	}
	require.NotNil(t, layout.Lower)
	assert.Equal(t, 0.1, layout.Lower[0])
	assert.Equal(t, 0.5, layout.Upper[0])
}

func TestBuildLayout_Lanes(t *testing.T) {
	layout, err := BuildLayout(layoutTable(), MultiverseSpec{Outcome: "power"})
	require.NoError(t, err)

	require.Len(t, layout.Lanes, 4)
	assert.Equal(t, Lane{Column: "n", Value: "10"}, layout.Lanes[0])
	assert.Equal(t, Lane{Column: "n", Value: "40"}, layout.Lanes[1])
	assert.Equal(t, Lane{Column: "skew", Value: "0"}, layout.Lanes[2])
	assert.Equal(t, Lane{Column: "skew", Value: "8"}, layout.Lanes[3])
	assert.Equal(t, "n = 10", layout.Lanes[0].Label())

	// Every table row contributes exactly one point per condition column.
	require.Len(t, layout.Points, 8)
	perRank := make(map[int]int)
	for _, pt := range layout.Points {
		perRank[pt.Rank]++
	}
	for r := 0; r < 4; r++ {
		assert.Equal(t, 2, perRank[r], "rank %d", r)
	}
}

// Re-ranking by a different column must permute x positions without ever
// re-pairing an outcome with another row's condition values.
func TestBuildLayout_PairingInvariantUnderReranking(t *testing.T) {
	table := layoutTable()

	byOutcome, err := BuildLayout(table, MultiverseSpec{Outcome: "power"})
	require.NoError(t, err)
	byEffect, err := BuildLayout(table, MultiverseSpec{Outcome: "power", RankBy: "mean_d"})
	require.NoError(t, err)

	// mean_d values 0.52, 0.48, 0.50, 0.47 rank rows as 3, 1, 2, 0.
	assert.Equal(t, []int{3, 1, 2, 0}, byEffect.Order)

	pairing := func(l *Layout) map[float64][]int {
		m := make(map[float64][]int)
		for _, pt := range l.Points {
			m[l.Outcome[l.Order[pt.Rank]]] = append(m[l.Outcome[l.Order[pt.Rank]]], pt.Lane)
		}
		return m
	}
	assert.Equal(t, pairing(byOutcome), pairing(byEffect))
}

func TestBuildLayout_RankByConditionColumn(t *testing.T) {
	layout, err := BuildLayout(layoutTable(), MultiverseSpec{Outcome: "power", RankBy: "n"})
	require.NoError(t, err)
	// Ranking on the n condition keeps grid order (ties within each n),
	// overriding the 1, 0, 3, 2 order the power sort would give.
	assert.Equal(t, []int{0, 1, 2, 3}, layout.Order)

	table := layoutTable()
	table.GroupCols = append(table.GroupCols, "label")
	for i := range table.Rows {
		table.Rows[i].Params["label"] = "a"
	}
	_, err = BuildLayout(table, MultiverseSpec{Outcome: "power", RankBy: "label"})
	assert.True(t, errors.HasCode(err, errors.CodeRender), "string conditions cannot rank")
}

func TestBuildLayout_TiesKeepRowOrder(t *testing.T) {
	table := layoutTable()
	for i := range table.Rows {
		table.Rows[i].Stats["power"] = 0.5
	}
	layout, err := BuildLayout(table, MultiverseSpec{Outcome: "power"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, layout.Order)
}

func TestBuildLayout_Validation(t *testing.T) {
	table := layoutTable()

	_, err := BuildLayout(table, MultiverseSpec{})
	assert.True(t, errors.HasCode(err, errors.CodeRender))

	_, err = BuildLayout(summary.Table{}, MultiverseSpec{Outcome: "power"})
	assert.True(t, errors.HasCode(err, errors.CodeRender))

	_, err = BuildLayout(table, MultiverseSpec{Outcome: "power", Lower: "lo"})
	assert.True(t, errors.HasCode(err, errors.CodeRender), "one-sided interval")

	_, err = BuildLayout(table, MultiverseSpec{Outcome: "nope"})
	assert.True(t, errors.HasCode(err, errors.CodeRender))

	_, err = BuildLayout(table, MultiverseSpec{Outcome: "power", RankBy: "nope"})
	assert.True(t, errors.HasCode(err, errors.CodeRender))
}
