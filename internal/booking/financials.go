package booking

import (
	"github.com/shopspring/decimal"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/money"
)

// VATRate is the output VAT rate applied to cost at both the item and the
// booking level.
var VATRate = decimal.RequireFromString("0.07")

var two = decimal.NewFromInt(2)

// Financials carries the derived output VAT and commission of an item or a
// booking.
type Financials struct {
	OutputVAT  decimal.Decimal
	Commission decimal.Decimal
}

// ComputeItemFinancials derives VAT and commission for one line item.
// Output VAT is 7% of the cost price; commission is half the profit when the
// item sold above cost and zero otherwise. A negative normalized cost or
// sale amount is legacy garbage: the item is skipped with ErrNegativeAmount
// and left untouched.
func ComputeItemFinancials(costPrice, amount decimal.Decimal) (Financials, error) {
	cost := money.Normalize(costPrice)
	sale := money.Normalize(amount)
	if cost.IsNegative() || sale.IsNegative() {
		return Financials{}, ErrNegativeAmount
	}

	outputVAT := money.Round2(cost.Mul(VATRate))

	commission := decimal.Zero
	if profit := sale.Sub(cost); profit.IsPositive() {
		commission = money.Round2(profit.Div(two))
	}
	return Financials{OutputVAT: outputVAT, Commission: commission}, nil
}

// ComputeBookingFinancials derives booking-level VAT and commission from the
// grand total and the accumulated item cost. Bookings without a positive
// grand total are skipped with ErrZeroGrandTotal.
func ComputeBookingFinancials(grandTotal, totalItemCost decimal.Decimal) (Financials, error) {
	total := money.Normalize(grandTotal)
	if !total.IsPositive() {
		return Financials{}, ErrZeroGrandTotal
	}

	outputVAT := money.Round2(total.Mul(VATRate))

	commission := decimal.Zero
	if profit := total.Sub(money.Normalize(totalItemCost)); profit.IsPositive() {
		commission = money.Round2(profit.Div(two))
	}
	return Financials{OutputVAT: outputVAT, Commission: commission}, nil
}
