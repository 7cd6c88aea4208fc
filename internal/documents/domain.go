// Package documents unifies the legacy per-item document tables into one
// polymorphic customer_documents store keyed by booking item group. The
// migration pipeline re-keys each legacy record from its booking item to the
// item's group and upserts, so retiring tables can be replayed at any time.
package documents

import (
	"time"
)

// Type enumerates the unified document kinds.
type Type string

const (
	TypePassport            Type = "passport"
	TypeBookingRequestProof Type = "booking_request_proof"
	TypeInvoice             Type = "invoice"
	TypeExpenseReceipt      Type = "expense_receipt"
	TypeExpenseMailProof    Type = "expense_mail_proof"
	TypeConfirmationLetter  Type = "confirmation_letter"
	TypeAssignDriver        Type = "assign_driver"
	TypeSupplierInfo        Type = "supplier_info"
	TypeTaxSlip             Type = "tax_slip"
)

// Source identifies a legacy per-item document table being retired.
type Source string

const (
	SourcePassport       Source = "passport"
	SourceBookingRequest Source = "booking_request"
	SourceConfirmLetter  Source = "confirm_letter"
	SourceExpenseReceipt Source = "expense_receipt"
	SourceExpenseMail    Source = "expense_mail"
	SourcePaidSlip       Source = "paid_slip"
	SourceCarInfo        Source = "car_info"
	SourceSupplierInfo   Source = "supplier_info"
	SourceTaxSlip        Source = "tax_slip"
)

// Sources returns the legacy tables in their operational migration order.
// Ordering is a convenience only; every source is independently retryable.
func Sources() []Source {
	return []Source{
		SourcePassport,
		SourceBookingRequest,
		SourceConfirmLetter,
		SourceExpenseReceipt,
		SourceExpenseMail,
		SourcePaidSlip,
		SourceCarInfo,
		SourceSupplierInfo,
		SourceTaxSlip,
	}
}

// TypeForSource maps a legacy table to its unified document type.
func TypeForSource(source Source) (Type, bool) {
	switch source {
	case SourcePassport:
		return TypePassport, true
	case SourceBookingRequest:
		return TypeBookingRequestProof, true
	case SourceConfirmLetter:
		return TypeConfirmationLetter, true
	case SourceExpenseReceipt:
		return TypeExpenseReceipt, true
	case SourceExpenseMail:
		return TypeExpenseMailProof, true
	case SourcePaidSlip:
		return TypeInvoice, true
	case SourceCarInfo:
		return TypeAssignDriver, true
	case SourceSupplierInfo:
		return TypeSupplierInfo, true
	case SourceTaxSlip:
		return TypeTaxSlip, true
	}
	return "", false
}

// LegacyRecord is one row of a legacy document table, already shaped by the
// per-source query: the owning booking item, the stored file reference and
// the source table's domain fields as the meta candidate.
type LegacyRecord struct {
	ID            int64
	BookingItemID int64
	File          string
	FileName      string
	Meta          map[string]any
}

// CustomerDocument is the unified polymorphic document row.
type CustomerDocument struct {
	ID        int64
	GroupID   int64
	Type      Type
	File      string
	FileName  string
	Meta      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CollapseMeta drops nil and empty entries; when nothing remains the meta
// payload is stored as NULL rather than an all-null object.
func CollapseMeta(meta map[string]any) map[string]any {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		switch tv := v.(type) {
		case nil:
			continue
		case string:
			if tv == "" {
				continue
			}
		case *string:
			if tv == nil || *tv == "" {
				continue
			}
			out[k] = *tv
			continue
		case *int64:
			if tv == nil {
				continue
			}
			out[k] = *tv
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
