package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/mohamedsillahkanu/maltrend/internal/dataset"
)

// WriteSummary writes the per-unit start/end/change table to an xlsx
// workbook. NaN changes are written as "no data".
func WriteSummary(path, sheet, metric string, startYear, endYear int, rows []dataset.UnitChange) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"District",
		"Unit",
		fmt.Sprintf("%s %d", metric, startYear),
		fmt.Sprintf("%s %d", metric, endYear),
		"Change (%)",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("summary %s: %w", path, err)
		}
		f.SetCellValue(sheet, cell, header)
		f.SetColWidth(sheet, cell[:1], cell[:1], 22)
	}

	for i, uc := range rows {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), uc.District)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), uc.Unit)
		setFloat(f, sheet, fmt.Sprintf("C%d", row), uc.Start)
		setFloat(f, sheet, fmt.Sprintf("D%d", row), uc.End)
		if math.IsNaN(uc.Change) {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), "no data")
		} else {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("%.1f%%", uc.Change))
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving summary %s: %w", path, err)
	}
	return nil
}

func setFloat(f *excelize.File, sheet, cell string, v float64) {
	if math.IsNaN(v) {
		f.SetCellValue(sheet, cell, "")
		return
	}
	f.SetCellValue(sheet, cell, v)
}
