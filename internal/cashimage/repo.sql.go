package cashimage

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SQLRepository is the PostgreSQL backed repository.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the repository.
func NewRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

func (r *SQLRepository) ListCashImages(ctx context.Context, afterID int64, limit int) ([]CashImage, error) {
	const query = `
		SELECT id, COALESCE(sender, ''), COALESCE(receiver, ''), amount,
		       COALESCE(currency, ''), date, COALESCE(relatable_type, ''),
		       COALESCE(relatable_id, 0)
		FROM cash_images
		WHERE id > $1
		ORDER BY id
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []CashImage
	for rows.Next() {
		var (
			img    CashImage
			amount pgtype.Numeric
			date   pgtype.Timestamptz
		)
		if err := rows.Scan(&img.ID, &img.Sender, &img.Receiver, &amount,
			&img.Currency, &date, &img.RelatableType, &img.RelatableID); err != nil {
			return nil, err
		}
		if amount.Valid && amount.Int != nil {
			img.Amount = decimal.NewFromBigInt(amount.Int, amount.Exp)
		}
		if date.Valid {
			img.Date = date.Time
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// tableForKind maps a canonical kind to its backing table. The closed set
// mirrors the allow-list; unknown kinds never reach this point.
func tableForKind(kind ImageableKind) string {
	switch kind {
	case KindBooking:
		return "bookings"
	case KindBookingItemGroup:
		return "booking_item_groups"
	case KindCashBook:
		return "cash_books"
	}
	return ""
}

func (r *SQLRepository) TargetExists(ctx context.Context, kind ImageableKind, id int64) (bool, error) {
	table := tableForKind(kind)
	if table == "" {
		return false, nil
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *SQLRepository) AttachmentExists(ctx context.Context, cashImageID int64, kind ImageableKind, imageableID int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM cash_imageables
			WHERE cash_image_id = $1 AND imageable_type = $2 AND imageable_id = $3
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, query, cashImageID, string(kind), imageableID).Scan(&exists)
	return exists, err
}

// InsertAttachment relies on the unique index over (cash_image_id,
// imageable_type, imageable_id); ON CONFLICT DO NOTHING keeps the insert
// idempotent under concurrent sweeps.
func (r *SQLRepository) InsertAttachment(ctx context.Context, att Attachment) error {
	const query = `
		INSERT INTO cash_imageables (cash_image_id, imageable_type, imageable_id, type, deposit, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (cash_image_id, imageable_type, imageable_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, att.CashImageID, string(att.ImageableKind),
		att.ImageableID, att.Type, att.Deposit.String(), att.Notes)
	return err
}

// StatsByRelatableType counts cash images, not pivot rows: an image
// attached to several targets still counts once per column.
func (r *SQLRepository) StatsByRelatableType(ctx context.Context) ([]TypeStat, error) {
	const query = `
		SELECT ci.relatable_type,
		       COUNT(DISTINCT ci.id) AS total,
		       COUNT(DISTINCT cia.cash_image_id) AS migrated
		FROM cash_images ci
		LEFT JOIN cash_imageables cia ON cia.cash_image_id = ci.id
		GROUP BY ci.relatable_type
		ORDER BY ci.relatable_type
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []TypeStat
	for rows.Next() {
		var stat TypeStat
		if err := rows.Scan(&stat.RelatableType, &stat.Total, &stat.Migrated); err != nil {
			return nil, err
		}
		stat.Missing = stat.Total - stat.Migrated
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}
