// Package booking implements the financial reconciliation core for the
// travel back office: per-item cost derivation, VAT and commission
// computation, and the idempotent grouping of booking items into
// per-product-type groups that documents and receipts attach to.
package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductType identifies the catalog product a booking item was sold from.
type ProductType string

const (
	ProductHotel          ProductType = "hotel"
	ProductEntranceTicket ProductType = "entrance_ticket"
	ProductPrivateVanTour ProductType = "private_van_tour"
	ProductGroupTour      ProductType = "group_tour"
	ProductAirportPickup  ProductType = "airport_pickup"
	ProductInclusive      ProductType = "inclusive"
)

// Valid reports whether the product type is one of the known catalog kinds.
func (p ProductType) Valid() bool {
	switch p {
	case ProductHotel, ProductEntranceTicket, ProductPrivateVanTour,
		ProductGroupTour, ProductAirportPickup, ProductInclusive:
		return true
	}
	return false
}

// PaymentStatus tracks how much of a booking or item has been settled.
type PaymentStatus string

const (
	PaymentNotPaid       PaymentStatus = "not_paid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentFullyPaid     PaymentStatus = "fully_paid"
)

// Booking is a customer sale transaction containing one or more line items.
// GrandTotal is authoritative; OutputVAT and Commission are derived from it
// and never edited directly.
type Booking struct {
	ID             int64
	CRMID          string
	CustomerID     int64
	GrandTotal     decimal.Decimal
	SubTotal       decimal.Decimal
	OutputVAT      decimal.Decimal
	Commission     decimal.Decimal
	BalanceDue     decimal.Decimal
	BalanceDueDate *time.Time
	PaymentStatus  PaymentStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BookingItem is one purchased unit within a booking (room-night, ticket
// variation, van-tour car). GroupID stays nil until the grouping engine has
// run for its booking.
type BookingItem struct {
	ID             int64
	BookingID      int64
	CRMID          string
	ProductType    ProductType
	ProductID      int64
	VariationID    *int64
	Quantity       int
	CheckinDate    *time.Time
	CheckoutDate   *time.Time
	ServiceDate    *time.Time
	CostPrice      decimal.Decimal
	TotalCostPrice decimal.Decimal
	Amount         decimal.Decimal
	OutputVAT      decimal.Decimal
	Commission     decimal.Decimal
	PaymentStatus  PaymentStatus
	GroupID        *int64
}

// BookingItemGroup aggregates all items of a booking that share a product
// type. At most one group exists per (booking_id, product_type); documents
// and cash images attach to groups, not to individual items.
type BookingItemGroup struct {
	ID             int64
	BookingID      int64
	ProductType    ProductType
	TotalCostPrice decimal.Decimal
	CreatedAt      time.Time
}

// GroupKey is the natural identity of a booking item group.
type GroupKey struct {
	BookingID   int64
	ProductType ProductType
}

// Key returns the group identity of the item.
func (i BookingItem) Key() GroupKey {
	return GroupKey{BookingID: i.BookingID, ProductType: i.ProductType}
}

// CRMID builds the human-readable booking code from the acting user's
// initials, the sale month and a per-month sequence, e.g. "TA-2406-0133".
// The acting user is passed explicitly; there is no ambient current-user
// state.
func CRMID(actingUser string, saleDate time.Time, seq int64) string {
	initials := "XX"
	if trimmed := strings.TrimSpace(actingUser); trimmed != "" {
		parts := strings.Fields(strings.ToUpper(trimmed))
		first := []rune(parts[0])
		switch {
		case len(parts) >= 2:
			second := []rune(parts[1])
			initials = string(first[:1]) + string(second[:1])
		case len(first) >= 2:
			initials = string(first[:2])
		default:
			initials = string(first) + "X"
		}
	}
	return fmt.Sprintf("%s-%s-%04d", initials, saleDate.Format("0601"), seq)
}
