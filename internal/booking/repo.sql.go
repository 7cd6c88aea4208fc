package booking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/platform/db"
)

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// SQLRepository is the PostgreSQL backed repository.
type SQLRepository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a repository over the pool.
func NewRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{db: pool, pool: pool}
}

func (r *SQLRepository) GetBooking(ctx context.Context, id int64) (Booking, error) {
	const query = `
		SELECT id, crm_id, customer_id, grand_total, sub_total, output_vat,
		       commission, balance_due, balance_due_date, payment_status,
		       created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var (
		b              Booking
		grandTotal     pgtype.Numeric
		subTotal       pgtype.Numeric
		outputVAT      pgtype.Numeric
		commission     pgtype.Numeric
		balanceDue     pgtype.Numeric
		balanceDueDate pgtype.Date
		status         string
	)
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.CRMID, &b.CustomerID, &grandTotal, &subTotal, &outputVAT,
		&commission, &balanceDue, &balanceDueDate, &status,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, err
	}
	b.GrandTotal = numericToDecimal(grandTotal)
	b.SubTotal = numericToDecimal(subTotal)
	b.OutputVAT = numericToDecimal(outputVAT)
	b.Commission = numericToDecimal(commission)
	b.BalanceDue = numericToDecimal(balanceDue)
	if balanceDueDate.Valid {
		d := balanceDueDate.Time
		b.BalanceDueDate = &d
	}
	b.PaymentStatus = PaymentStatus(status)
	return b, nil
}

func (r *SQLRepository) ListBookingIDs(ctx context.Context, afterID int64, limit int) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM bookings WHERE id > $1 ORDER BY id LIMIT $2`, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLRepository) ListItems(ctx context.Context, bookingID int64) ([]BookingItem, error) {
	const query = `
		SELECT id, booking_id, crm_id, product_type, product_id, variation_id,
		       quantity, checkin_date, checkout_date, service_date,
		       cost_price, total_cost_price, amount, output_vat, commission,
		       payment_status, group_id
		FROM booking_items
		WHERE booking_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BookingItem
	for rows.Next() {
		var (
			item        BookingItem
			variationID pgtype.Int8
			quantity    pgtype.Int4
			checkin     pgtype.Date
			checkout    pgtype.Date
			serviceDate pgtype.Date
			costPrice   pgtype.Numeric
			totalCost   pgtype.Numeric
			amount      pgtype.Numeric
			outputVAT   pgtype.Numeric
			commission  pgtype.Numeric
			status      string
			groupID     pgtype.Int8
		)
		if err := rows.Scan(
			&item.ID, &item.BookingID, &item.CRMID, &item.ProductType, &item.ProductID,
			&variationID, &quantity, &checkin, &checkout, &serviceDate,
			&costPrice, &totalCost, &amount, &outputVAT, &commission,
			&status, &groupID,
		); err != nil {
			return nil, err
		}
		if variationID.Valid {
			v := variationID.Int64
			item.VariationID = &v
		}
		if quantity.Valid {
			item.Quantity = int(quantity.Int32)
		}
		if checkin.Valid {
			d := checkin.Time
			item.CheckinDate = &d
		}
		if checkout.Valid {
			d := checkout.Time
			item.CheckoutDate = &d
		}
		if serviceDate.Valid {
			d := serviceDate.Time
			item.ServiceDate = &d
		}
		item.CostPrice = numericToDecimal(costPrice)
		item.TotalCostPrice = numericToDecimal(totalCost)
		item.Amount = numericToDecimal(amount)
		item.OutputVAT = numericToDecimal(outputVAT)
		item.Commission = numericToDecimal(commission)
		item.PaymentStatus = PaymentStatus(status)
		if groupID.Valid {
			g := groupID.Int64
			item.GroupID = &g
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpsertGroup relies on the unique index over (booking_id, product_type) so
// a concurrent or repeated run can never create a second group for the same
// key.
func (r *SQLRepository) UpsertGroup(ctx context.Context, key GroupKey, totalCost decimal.Decimal) (int64, error) {
	const query = `
		INSERT INTO booking_item_groups (booking_id, product_type, total_cost_price, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (booking_id, product_type)
		DO UPDATE SET total_cost_price = EXCLUDED.total_cost_price
		RETURNING id
	`
	var id int64
	if err := r.db.QueryRow(ctx, query, key.BookingID, string(key.ProductType), totalCost.String()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// ItemGroupID reports an item's current group assignment. found is false
// when the item no longer exists; groupID is nil while the item is ungrouped.
func (r *SQLRepository) ItemGroupID(ctx context.Context, itemID int64) (*int64, bool, error) {
	var groupID pgtype.Int8
	err := r.db.QueryRow(ctx, `SELECT group_id FROM booking_items WHERE id = $1`, itemID).Scan(&groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if !groupID.Valid {
		return nil, true, nil
	}
	g := groupID.Int64
	return &g, true, nil
}

func (r *SQLRepository) AssignItemGroup(ctx context.Context, itemID, groupID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE booking_items SET group_id = $1 WHERE id = $2`, groupID, itemID)
	return err
}

func (r *SQLRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &sqlTxRepository{db: tx})
	})
}

type sqlTxRepository struct {
	db dbtx
}

func (r *sqlTxRepository) UpdateItemFinancials(ctx context.Context, itemID int64, cost CostBreakdown, fin Financials) error {
	const query = `
		UPDATE booking_items
		SET quantity = $1, cost_price = $2, total_cost_price = $3,
		    output_vat = $4, commission = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query,
		cost.Quantity, cost.UnitCost.String(), cost.TotalCost.String(),
		fin.OutputVAT.String(), fin.Commission.String(), itemID)
	return err
}

func (r *sqlTxRepository) UpdateBookingFinancials(ctx context.Context, bookingID int64, fin Financials) error {
	const query = `
		UPDATE bookings
		SET output_vat = $1, commission = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, fin.OutputVAT.String(), fin.Commission.String(), bookingID)
	return err
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
