package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLRepository reads the legacy tables and writes the unified store.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the repository.
func NewRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

// Each legacy source keeps its own table shape; the meta payload is
// assembled in SQL so the pipeline only sees the unified record form.
// jsonb_strip_nulls leaves an empty object for all-null rows, which
// CollapseMeta turns into NULL on write.
var legacyQueries = map[Source]string{
	SourcePassport: `
		SELECT id, booking_item_id, COALESCE(file, ''), COALESCE(file_name, ''),
		       jsonb_strip_nulls(jsonb_build_object(
		           'name', name,
		           'passport_number', passport_number,
		           'dob', dob))
		FROM passports
		WHERE id > $1 ORDER BY id LIMIT $2`,
	SourceBookingRequest: `
		SELECT id, booking_item_id, COALESCE(file, ''), COALESCE(file_name, ''),
		       '{}'::jsonb
		FROM booking_requests
		WHERE id > $1 ORDER BY id LIMIT $2`,
	SourceConfirmLetter: `
		SELECT id, booking_item_id, COALESCE(file, ''), COALESCE(file_name, ''),
		       jsonb_strip_nulls(jsonb_build_object(
		           'sender', sender,
		           'reference', reference))
		FROM confirmation_letters
		WHERE id > $1 ORDER BY id LIMIT $2`,
	SourceExpenseReceipt: `
		SELECT id, booking_item_id, COALESCE(file, ''), COALESCE(file_name, ''),
		       jsonb_strip_nulls(jsonb_build_object(
		           'amount', amount,
		           'currency', currency,
		           'issued_on', issued_on))
		FROM expense_receipts
		WHERE id > $1 ORDER BY id LIMIT $2`,
	SourceExpenseMail: `
		SELECT id, booking_item_id, COALESCE(file, ''), COALESCE(file_name, ''),
		       jsonb_strip_nulls(jsonb_build_object(
		           'subject', subject,
		           'mail_date', mail_date))
		FROM expense_mails
		WHERE id > $1 ORDER BY id LIMIT $2`,
	SourcePaidSlip: `
		SELECT id, booking_item_id, COALESCE(file, ''), COALESCE(file_name, ''),
		       jsonb_strip_nulls(jsonb_build_object(
		           'amount', amount,
		           'paid_on', paid_on))
		FROM paid_slips
		WHERE id > $1 ORDER BY id LIMIT $2`,
	SourceCarInfo: `
		SELECT id, booking_item_id, COALESCE(file, ''), COALESCE(file_name, ''),
		       jsonb_strip_nulls(jsonb_build_object(
		           'driver_name', driver_name,
		           'driver_contact', driver_contact,
		           'car_number', car_number,
		           'supplier_id', supplier_id,
		           'supplier_name', supplier_name))
		FROM car_infos
		WHERE id > $1 ORDER BY id LIMIT $2`,
	SourceSupplierInfo: `
		SELECT id, booking_item_id, COALESCE(file, ''), COALESCE(file_name, ''),
		       jsonb_strip_nulls(jsonb_build_object(
		           'supplier_id', supplier_id,
		           'supplier_name', supplier_name,
		           'contact', contact))
		FROM supplier_infos
		WHERE id > $1 ORDER BY id LIMIT $2`,
	SourceTaxSlip: `
		SELECT id, booking_item_id, COALESCE(file, ''), COALESCE(file_name, ''),
		       jsonb_strip_nulls(jsonb_build_object(
		           'tax_amount', tax_amount,
		           'receipt_date', receipt_date))
		FROM tax_slips
		WHERE id > $1 ORDER BY id LIMIT $2`,
}

func (r *SQLRepository) ListLegacy(ctx context.Context, source Source, afterID int64, limit int) ([]LegacyRecord, error) {
	query, ok := legacyQueries[source]
	if !ok {
		return nil, ErrUnknownSource
	}

	rows, err := r.pool.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []LegacyRecord
	for rows.Next() {
		var (
			record LegacyRecord
			meta   []byte
		)
		if err := rows.Scan(&record.ID, &record.BookingItemID, &record.File, &record.FileName, &meta); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &record.Meta); err != nil {
				return nil, fmt.Errorf("decode meta of %s %d: %w", source, record.ID, err)
			}
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// UpsertDocument writes against the unique index over (booking_item_group_id,
// type, file); replays refresh file_name and meta only.
func (r *SQLRepository) UpsertDocument(ctx context.Context, doc CustomerDocument) error {
	var meta []byte
	if doc.Meta != nil {
		encoded, err := json.Marshal(doc.Meta)
		if err != nil {
			return fmt.Errorf("encode meta: %w", err)
		}
		meta = encoded
	}

	const query = `
		INSERT INTO customer_documents (booking_item_group_id, type, file, file_name, meta, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (booking_item_group_id, type, file)
		DO UPDATE SET file_name = EXCLUDED.file_name,
		              meta = EXCLUDED.meta,
		              updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, doc.GroupID, string(doc.Type), doc.File, doc.FileName, meta)
	return err
}
