package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gomonte/domain/summary"
)

func exportTable() summary.Table {
	return summary.Table{
		Experiment: "power-curve",
		GroupCols:  []string{"n"},
		StatCols:   []string{"power", "mean_d"},
		Rows: []summary.Record{
			{Params: map[string]any{"n": 10}, Stats: map[string]float64{"power": 0.31, "mean_d": 0.5211}},
			{Params: map[string]any{"n": 40}, Stats: map[string]float64{"power": 0.9, "mean_d": 0.5}},
		},
	}
}

func TestMarkdown(t *testing.T) {
	got := Markdown(exportTable())
	want := "" +
		"| n | power | mean_d |\n" +
		"| --- | --- | --- |\n" +
		"| 10 | 0.3100 | 0.5211 |\n" +
		"| 40 | 0.9000 | 0.5000 |\n"
	assert.Equal(t, want, got)
}

func TestReport(t *testing.T) {
	got := Report(exportTable())
	assert.True(t, strings.HasPrefix(got, "# power-curve\n"))
	assert.Contains(t, got, "2 conditions, grouped by n.")
	assert.Contains(t, got, "| 40 | 0.9000 | 0.5000 |")
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, WriteHTML(exportTable(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(raw)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "power-curve")
	assert.Contains(t, html, "0.5211")
}

func TestWriteExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, WriteExcel(exportTable(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	assert.Equal(t, "power-curve", sheet)

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"n", "power", "mean_d"}, rows[0])
	assert.Equal(t, "10", rows[1][0])
}
