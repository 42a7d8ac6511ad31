package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"gomonte/domain/summary"
	"gomonte/internal/errors"
)

// WriteExcel writes the summary table to an xlsx workbook with one
// sheet named after the experiment.
func WriteExcel(table summary.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := table.Experiment
	if sheet == "" {
		sheet = "summary"
	}
	if len(sheet) > 31 {
		// Excel's sheet-name limit.
		sheet = sheet[:31]
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeRender, err), "excel: rename sheet")
	}

	header := append(append([]string{}, table.GroupCols...), table.StatCols...)
	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.Wrap(errors.WithCode(errors.CodeRender, err), "excel: header cell")
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return errors.Wrap(errors.WithCode(errors.CodeRender, err), "excel: header value")
		}
	}

	for i, row := range table.Rows {
		col := 0
		write := func(v any) error {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			col++
			return f.SetCellValue(sheet, cell, v)
		}
		for _, name := range table.GroupCols {
			if err := write(row.Params[name]); err != nil {
				return errors.Wrap(errors.WithCode(errors.CodeRender, err), fmt.Sprintf("excel: row %d", i+1))
			}
		}
		for _, name := range table.StatCols {
			if err := write(row.Stats[name]); err != nil {
				return errors.Wrap(errors.WithCode(errors.CodeRender, err), fmt.Sprintf("excel: row %d", i+1))
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(errors.WithCode(errors.CodeRender, err), "excel: save workbook")
	}
	return nil
}
