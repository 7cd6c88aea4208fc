// Package cashimage relinks legacy payment-proof image records into the
// unified cash_imageables attachment table used by accounting exports.
package cashimage

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImageableKind is the closed set of records a cash image may attach to.
// Legacy relatable_type strings map onto it through an explicit allow-list;
// anything else is skipped, never guessed.
type ImageableKind string

const (
	KindBooking          ImageableKind = "booking"
	KindBookingItemGroup ImageableKind = "booking_item_group"
	KindCashBook         ImageableKind = "cash_book"
)

// kindAllowList maps the legacy relatable_type spellings (including the
// Laravel class paths still present in old rows) to canonical kinds.
var kindAllowList = map[string]ImageableKind{
	"booking":                      KindBooking,
	"App\\Models\\Booking":         KindBooking,
	"booking_item_group":           KindBookingItemGroup,
	"App\\Models\\BookingItemGroup": KindBookingItemGroup,
	"cash_book":                    KindCashBook,
	"App\\Models\\CashBook":        KindCashBook,
}

// KindFor resolves a legacy relatable_type to a canonical kind.
func KindFor(relatableType string) (ImageableKind, bool) {
	kind, ok := kindAllowList[relatableType]
	return kind, ok
}

// CashImage is one captured payment/receipt image event.
type CashImage struct {
	ID            int64
	Sender        string
	Receiver      string
	Amount        decimal.Decimal
	Currency      string
	Date          time.Time
	RelatableType string
	RelatableID   int64
}

// Attachment is one row of the cash_imageables pivot. The triplet
// (cash_image_id, imageable_type, imageable_id) is unique.
type Attachment struct {
	CashImageID   int64
	ImageableKind ImageableKind
	ImageableID   int64
	Type          string
	Deposit       decimal.Decimal
	Notes         string
}

// Outcome classifies the reconciliation result for one cash image.
type Outcome string

const (
	OutcomeMigrated         Outcome = "migrated"
	OutcomeSkippedUnknown   Outcome = "skipped_unknown_type"
	OutcomeSkippedMissing   Outcome = "skipped_missing_model"
	OutcomeSkippedDuplicate Outcome = "skipped_duplicate"
	OutcomeDryRunPreview    Outcome = "dry_run_preview"
)

// TypeStat aggregates reconciliation counts per legacy relatable type for
// the debug report.
type TypeStat struct {
	RelatableType string
	Total         int
	Migrated      int
	Missing       int
}
