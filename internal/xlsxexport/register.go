// Package xlsxexport writes document registers to Excel workbooks and reads
// catalog item sheets.
package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"quotely/internal/csvexport"
	"quotely/internal/domain"
)

// moneyColumns are the 1-based register columns holding amounts.
var moneyColumns = []int{4, 5, 6, 7, 8, 9}

// WriteRegister writes entries as a single-sheet workbook to w.
func WriteRegister(w io.Writer, kind domain.DocumentKind, entries []domain.RegisterEntry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := kind.Title() + "s"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := csvexport.Columns(kind)
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i := range entries {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := entryRow(&entries[i])
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if len(entries) > 0 {
		money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
		if err != nil {
			return fmt.Errorf("money style: %w", err)
		}
		for _, col := range moneyColumns {
			top, _ := excelize.CoordinatesToCellName(col, 2)
			bottom, _ := excelize.CoordinatesToCellName(col, len(entries)+1)
			if err := f.SetCellStyle(sheet, top, bottom, money); err != nil {
				return fmt.Errorf("apply money style: %w", err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 32); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// entryRow mirrors csvexport.Row but keeps amounts numeric.
func entryRow(e *domain.RegisterEntry) []interface{} {
	row := []interface{}{
		e.Number,
		e.ClientName,
		e.Status,
		money(e.Subtotal),
		money(e.TaxAmount),
		money(e.DiscountAmount),
		money(e.TotalAmount),
		nil,
		nil,
		"",
		e.CreatedAt.Format("2006-01-02 15:04"),
	}
	if e.Kind == domain.KindInvoice {
		row[7] = money(e.PaidAmount)
		row[8] = money(e.TotalAmount.Sub(e.PaidAmount))
	}
	if e.Date != nil {
		row[9] = e.Date.Format("2006-01-02")
	}
	return row
}
