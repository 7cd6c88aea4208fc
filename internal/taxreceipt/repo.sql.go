package taxreceipt

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/booking"
)

// SQLRepository is the PostgreSQL backed repository.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the repository.
func NewRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

func (r *SQLRepository) ListByMonth(ctx context.Context, month time.Time) ([]TaxReceipt, error) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	const query = `
		SELECT tr.id, tr.product_type, tr.product_id, COALESCE(tr.invoice_no, ''),
		       tr.total_amount, tr.tax_amount, tr.receipt_date,
		       COALESCE(array_agg(trg.booking_item_group_id) FILTER (WHERE trg.booking_item_group_id IS NOT NULL), '{}')
		FROM tax_receipts tr
		LEFT JOIN tax_receipt_groups trg ON trg.tax_receipt_id = tr.id
		WHERE tr.receipt_date >= $1 AND tr.receipt_date < $2
		GROUP BY tr.id
		ORDER BY tr.id
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []TaxReceipt
	for rows.Next() {
		var (
			receipt     TaxReceipt
			productType string
			total       pgtype.Numeric
			tax         pgtype.Numeric
			receiptDate pgtype.Date
		)
		if err := rows.Scan(&receipt.ID, &productType, &receipt.ProductID, &receipt.InvoiceNo,
			&total, &tax, &receiptDate, &receipt.GroupIDs); err != nil {
			return nil, err
		}
		receipt.ProductType = booking.ProductType(productType)
		if total.Valid && total.Int != nil {
			receipt.TotalAmount = decimal.NewFromBigInt(total.Int, total.Exp)
		}
		if tax.Valid && tax.Int != nil {
			receipt.TaxAmount = decimal.NewFromBigInt(tax.Int, tax.Exp)
		}
		if receiptDate.Valid {
			receipt.ReceiptDate = receiptDate.Time
		}
		receipts = append(receipts, receipt)
	}
	return receipts, rows.Err()
}
