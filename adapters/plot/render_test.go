package plot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomonte/domain/dataset"
)

func assertPNG(t *testing.T, path string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(raw), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), raw[:8], "not a PNG file")
}

func TestRenderMultiverse(t *testing.T) {
	cutoff := 0.8
	path := filepath.Join(t.TempDir(), "multiverse.png")
	spec := MultiverseSpec{
		Title:   "Power across conditions",
		Outcome: "power",
		Lower:   "lo",
		Upper:   "hi",
		Cutoff:  &cutoff,
	}
	require.NoError(t, RenderMultiverse(layoutTable(), spec, path))
	assertPNG(t, path)
}

func TestRenderMultiverse_BadSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multiverse.png")
	err := RenderMultiverse(layoutTable(), MultiverseSpec{}, path)
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file should be written on layout failure")
}

func diagnosticData() dataset.Dataset {
	var ds dataset.Dataset
	for i := 0; i < 60; i++ {
		v := float64(i%20) / 4
		ds.Rows = append(ds.Rows, dataset.Observation{
			Group:  dataset.GroupControl,
			Tag:    dataset.TagCareful,
			Values: map[string]float64{dataset.FieldScore: v, dataset.FieldX: v, dataset.FieldY: v + 0.3},
		})
		ds.Rows = append(ds.Rows, dataset.Observation{
			Group:  dataset.GroupTreatment,
			Tag:    dataset.TagCareless,
			Values: map[string]float64{dataset.FieldScore: v + 0.5, dataset.FieldX: v, dataset.FieldY: 5 - v},
		})
	}
	return ds
}

func TestRenderHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hist.png")
	require.NoError(t, RenderHistogram(diagnosticData(), dataset.FieldScore, "score by group", path))
	assertPNG(t, path)

	err := RenderHistogram(dataset.Dataset{}, dataset.FieldScore, "empty", path)
	assert.Error(t, err)
}

func TestRenderScatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scatter.png")
	require.NoError(t, RenderScatter(diagnosticData(), dataset.FieldX, dataset.FieldY, "x vs y", path))
	assertPNG(t, path)
}
