// Package taxreceipt aggregates product-scoped tax credit records for the
// monthly accounting export.
package taxreceipt

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/booking"
)

// TaxReceipt is a tax credit record covering one or more booking item
// groups of a product.
type TaxReceipt struct {
	ID          int64
	ProductType booking.ProductType
	ProductID   int64
	InvoiceNo   string
	TotalAmount decimal.Decimal
	TaxAmount   decimal.Decimal
	ReceiptDate time.Time
	GroupIDs    []int64
}

// MonthlyLine is one row of the monthly export, aggregated per product
// type.
type MonthlyLine struct {
	ProductType booking.ProductType
	Receipts    int
	TotalAmount decimal.Decimal
	TaxAmount   decimal.Decimal
}

// MonthlyReport is the aggregation result handed to the workbook writer.
type MonthlyReport struct {
	Month      time.Time
	Lines      []MonthlyLine
	GrandTotal decimal.Decimal
	GrandTax   decimal.Decimal
}
