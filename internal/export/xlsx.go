// Package export writes the monthly tax receipt workbook for accounting.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/taxreceipt"
)

const sheetName = "Tax Receipts"

// WriteTaxReceiptWorkbook renders the monthly report as an xlsx workbook.
func WriteTaxReceiptWorkbook(w io.Writer, report taxreceipt.MonthlyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Tax receipts %s", report.Month.Format("January 2006")))
	_ = f.MergeCell(sheetName, "A1", "D1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	headers := []string{"Product type", "Receipts", "Total amount", "Tax amount"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 3
	for _, line := range report.Lines {
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), string(line.ProductType))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), line.Receipts)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), line.TotalAmount.StringFixed(2))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), line.TaxAmount.StringFixed(2))
		row++
	}

	_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Total")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), report.GrandTotal.StringFixed(2))
	_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), report.GrandTax.StringFixed(2))

	_ = f.SetColWidth(sheetName, "A", "A", 24)
	_ = f.SetColWidth(sheetName, "B", "D", 16)
	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
