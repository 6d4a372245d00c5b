package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportSuggestions renders a suggestion batch as an xlsx workbook for the
// warehouse operator.
func (s *RestockService) ExportSuggestions(warehouseName string, suggestions []StockSuggestion) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Restock"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Material", "Current Stock", "Suggested Stock", "To Add", "Priority", "Confidence", "Notes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, sug := range suggestions {
		values := []interface{}{
			sug.MaterialName,
			sug.CurrentStock,
			sug.SuggestedStock,
			sug.StockToAdd,
			sug.Priority,
			fmt.Sprintf("%.0f%%", sug.Confidence*100),
			suggestionReason(sug),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	f.SetCellValue(sheet, "I1", "Warehouse")
	f.SetCellValue(sheet, "I2", warehouseName)
	return f, nil
}
