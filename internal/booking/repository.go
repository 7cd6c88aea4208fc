package booking

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository provides persistence for bookings, items and item groups.
// Batch runners iterate with keyset cursors (afterID) so a restarted run
// rescans from the beginning without holding server-side state.
type Repository interface {
	GetBooking(ctx context.Context, id int64) (Booking, error)
	// ListBookingIDs returns up to limit booking ids greater than afterID
	// in ascending order.
	ListBookingIDs(ctx context.Context, afterID int64, limit int) ([]int64, error)
	ListItems(ctx context.Context, bookingID int64) ([]BookingItem, error)

	// UpsertGroup inserts or updates the group identified by key, setting
	// its total cost, and returns the group id. At most one group exists
	// per key.
	UpsertGroup(ctx context.Context, key GroupKey, totalCost decimal.Decimal) (int64, error)
	AssignItemGroup(ctx context.Context, itemID, groupID int64) error

	// WithTx runs fn inside a transaction; item and booking financial
	// updates of a single booking always share one transaction.
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository is the write surface available inside a per-booking
// transaction.
type TxRepository interface {
	UpdateItemFinancials(ctx context.Context, itemID int64, cost CostBreakdown, fin Financials) error
	UpdateBookingFinancials(ctx context.Context, bookingID int64, fin Financials) error
}
