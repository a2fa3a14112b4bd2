package service

import (
	"fmt"

	"bookcatalog/internal/domains/book/model"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Books"

var exportHeaders = []string{
	"ID",
	"Title",
	"Author",
	"Publisher",
	"ISBN",
	"Classification",
	"Category",
	"Page Count",
	"Price",
}

// buildBooksExcelFile writes one row per book. Prices are written as text fixed to
// cents so no binary rounding reaches the sheet.
func buildBooksExcelFile(books []model.Book) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	for i, b := range books {
		row := []interface{}{
			b.ID,
			b.Title,
			b.Author,
			b.Publisher,
			b.ISBN,
			b.Classification,
			b.Category,
			b.PageCount,
			b.Price.StringFixed(2),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f, nil
}
