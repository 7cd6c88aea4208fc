package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/booking"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/taxreceipt"
)

func TestWriteTaxReceiptWorkbook(t *testing.T) {
	report := taxreceipt.MonthlyReport{
		Month: time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC),
		Lines: []taxreceipt.MonthlyLine{
			{
				ProductType: booking.ProductEntranceTicket,
				Receipts:    1,
				TotalAmount: decimal.NewFromInt(2000),
				TaxAmount:   decimal.NewFromInt(140),
			},
			{
				ProductType: booking.ProductHotel,
				Receipts:    2,
				TotalAmount: decimal.NewFromInt(15000),
				TaxAmount:   decimal.NewFromInt(1050),
			},
		},
		GrandTotal: decimal.NewFromInt(17000),
		GrandTax:   decimal.NewFromInt(1190),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTaxReceiptWorkbook(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	require.Equal(t, "Tax receipts May 2026", title)

	firstType, err := f.GetCellValue(sheetName, "A3")
	require.NoError(t, err)
	require.Equal(t, "entrance_ticket", firstType)

	hotelTax, err := f.GetCellValue(sheetName, "D4")
	require.NoError(t, err)
	require.Equal(t, "1050.00", hotelTax)

	grand, err := f.GetCellValue(sheetName, "C5")
	require.NoError(t, err)
	require.Equal(t, "17000.00", grand)
}

func TestWriteTaxReceiptWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	report := taxreceipt.MonthlyReport{
		Month:      time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		GrandTotal: decimal.Zero,
		GrandTax:   decimal.Zero,
	}
	require.NoError(t, WriteTaxReceiptWorkbook(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	total, err := f.GetCellValue(sheetName, "A3")
	require.NoError(t, err)
	require.Equal(t, "Total", total)
}
