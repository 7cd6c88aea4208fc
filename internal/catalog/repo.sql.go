// Package catalog provides read-only product lookups for the cost
// calculator. The product tables are owned by the catalog management
// surface; this package never writes to them.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/booking"
)

// Repository resolves product references against the catalog tables.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the catalog repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// tableFor maps each product type to its catalog table. The mapping is a
// closed set; unknown types resolve to nothing.
func tableFor(productType booking.ProductType) (string, bool) {
	switch productType {
	case booking.ProductHotel:
		return "hotels", true
	case booking.ProductEntranceTicket:
		return "entrance_tickets", true
	case booking.ProductPrivateVanTour:
		return "private_van_tours", true
	case booking.ProductGroupTour:
		return "group_tours", true
	case booking.ProductAirportPickup:
		return "airport_pickups", true
	case booking.ProductInclusive:
		return "inclusives", true
	}
	return "", false
}

// Resolve returns the product behind the reference, or
// booking.ErrProductNotFound when the type is unknown or the row is gone.
func (r *Repository) Resolve(ctx context.Context, productType booking.ProductType, productID int64) (booking.Product, error) {
	table, ok := tableFor(productType)
	if !ok {
		return booking.Product{}, booking.ErrProductNotFound
	}

	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE id = $1`, table)
	var p booking.Product
	if err := r.pool.QueryRow(ctx, query, productID).Scan(&p.ID, &p.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Product{}, booking.ErrProductNotFound
		}
		return booking.Product{}, err
	}
	p.Type = productType
	return p, nil
}
