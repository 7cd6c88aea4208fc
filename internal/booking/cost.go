package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/money"
)

// Catalog resolves product references read-only. Implementations return
// ErrProductNotFound when the product or variation no longer exists.
type Catalog interface {
	Resolve(ctx context.Context, productType ProductType, productID int64) (Product, error)
}

// Product is the catalog view the cost calculator needs.
type Product struct {
	ID   int64
	Type ProductType
	Name string
}

// CostBreakdown is the derived cost of a single booking item.
type CostBreakdown struct {
	UnitCost  decimal.Decimal
	Quantity  int
	TotalCost decimal.Decimal
}

// CostCalculator derives cost price, quantity and total cost per item using
// product-type specific rules.
type CostCalculator struct {
	catalog Catalog
}

// NewCostCalculator constructs a calculator over the given catalog.
func NewCostCalculator(catalog Catalog) *CostCalculator {
	return &CostCalculator{catalog: catalog}
}

// ComputeCost derives the item's cost figures. Hotel quantity is the stored
// quantity multiplied by the number of nights when both stay dates are
// present; every other product type uses the stored quantity, defaulting to
// 1. Returns ErrProductNotFound when the catalog cannot resolve the product;
// callers treat that as a skip.
func (c *CostCalculator) ComputeCost(ctx context.Context, item BookingItem) (CostBreakdown, error) {
	if c.catalog != nil {
		if _, err := c.catalog.Resolve(ctx, item.ProductType, item.ProductID); err != nil {
			return CostBreakdown{}, err
		}
	}

	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	if item.ProductType == ProductHotel && item.CheckinDate != nil && item.CheckoutDate != nil {
		quantity *= Nights(*item.CheckinDate, *item.CheckoutDate)
	}

	unitCost := money.Normalize(item.CostPrice)
	total := unitCost.Mul(decimal.NewFromInt(int64(quantity)))
	return CostBreakdown{UnitCost: unitCost, Quantity: quantity, TotalCost: total}, nil
}

// Nights returns the hotel night count between checkin and checkout, never
// below 1.
func Nights(checkin, checkout time.Time) int {
	days := int(checkout.Sub(checkin).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}
