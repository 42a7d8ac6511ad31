// Package export renders aggregated summaries as tables: markdown for
// the terminal, HTML reports, and xlsx workbooks for students who want
// the numbers.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gomonte/domain/summary"
	"gomonte/internal/errors"
)

// Markdown renders the summary as a GitHub-style markdown table.
func Markdown(table summary.Table) string {
	var b strings.Builder

	header := append(append([]string{}, table.GroupCols...), table.StatCols...)
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")

	for _, row := range table.Rows {
		cells := make([]string, 0, len(header))
		for _, col := range table.GroupCols {
			cells = append(cells, summary.Cell(row.Params[col]))
		}
		for _, col := range table.StatCols {
			cells = append(cells, fmt.Sprintf("%.4f", row.Stats[col]))
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

// Report wraps the markdown table in a small document and returns it.
func Report(table summary.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", table.Experiment)
	fmt.Fprintf(&b, "%d conditions, grouped by %s.\n\n", len(table.Rows), strings.Join(table.GroupCols, ", "))
	b.WriteString(Markdown(table))
	return b.String()
}

// WriteHTML renders the report to an HTML file.
func WriteHTML(table summary.Table, path string) error {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(Report(table)))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})
	out := markdown.Render(doc, renderer)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeRender, err), "write html report")
	}
	return nil
}
