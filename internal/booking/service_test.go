package booking

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	bookings map[int64]Booking
	items    map[int64]BookingItem
	groups   map[GroupKey]*BookingItemGroup
	nextID   int64

	txFailOnItem int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		bookings: make(map[int64]Booking),
		items:    make(map[int64]BookingItem),
		groups:   make(map[GroupKey]*BookingItemGroup),
		nextID:   1000,
	}
}

func (r *memoryRepo) GetBooking(ctx context.Context, id int64) (Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return Booking{}, ErrNotFound
	}
	return b, nil
}

func (r *memoryRepo) ListBookingIDs(ctx context.Context, afterID int64, limit int) ([]int64, error) {
	var ids []int64
	for id := range r.bookings {
		if id > afterID {
			ids = append(ids, id)
		}
	}
	sortInt64s(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *memoryRepo) ListItems(ctx context.Context, bookingID int64) ([]BookingItem, error) {
	var items []BookingItem
	for _, item := range r.items {
		if item.BookingID == bookingID {
			items = append(items, item)
		}
	}
	sortItems(items)
	return items, nil
}

func (r *memoryRepo) UpsertGroup(ctx context.Context, key GroupKey, totalCost decimal.Decimal) (int64, error) {
	if g, ok := r.groups[key]; ok {
		g.TotalCostPrice = totalCost
		return g.ID, nil
	}
	r.nextID++
	r.groups[key] = &BookingItemGroup{
		ID:             r.nextID,
		BookingID:      key.BookingID,
		ProductType:    key.ProductType,
		TotalCostPrice: totalCost,
		CreatedAt:      time.Now(),
	}
	return r.nextID, nil
}

func (r *memoryRepo) AssignItemGroup(ctx context.Context, itemID, groupID int64) error {
	item, ok := r.items[itemID]
	if !ok {
		return ErrNotFound
	}
	item.GroupID = &groupID
	r.items[itemID] = item
	return nil
}

// WithTx buffers writes and applies them only when fn succeeds, mirroring
// the per-booking all-or-nothing transaction of the SQL repository.
func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := &memoryTx{repo: r}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for _, apply := range tx.pending {
		apply()
	}
	return nil
}

type memoryTx struct {
	repo    *memoryRepo
	pending []func()
}

func (tx *memoryTx) UpdateItemFinancials(ctx context.Context, itemID int64, cost CostBreakdown, fin Financials) error {
	if tx.repo.txFailOnItem == itemID {
		return errors.New("storage failure")
	}
	tx.pending = append(tx.pending, func() {
		item := tx.repo.items[itemID]
		item.Quantity = cost.Quantity
		item.CostPrice = cost.UnitCost
		item.TotalCostPrice = cost.TotalCost
		item.OutputVAT = fin.OutputVAT
		item.Commission = fin.Commission
		tx.repo.items[itemID] = item
	})
	return nil
}

func (tx *memoryTx) UpdateBookingFinancials(ctx context.Context, bookingID int64, fin Financials) error {
	tx.pending = append(tx.pending, func() {
		b := tx.repo.bookings[bookingID]
		b.OutputVAT = fin.OutputVAT
		b.Commission = fin.Commission
		tx.repo.bookings[bookingID] = b
	})
	return nil
}

func sortInt64s(v []int64) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}

func sortItems(items []BookingItem) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].ID < items[j-1].ID; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

func newTestService(repo *memoryRepo) *Service {
	return NewService(repo, NewCostCalculator(&fakeCatalog{}), nil, nil)
}

func seedBooking(repo *memoryRepo, id int64, grandTotal string) {
	repo.bookings[id] = Booking{ID: id, GrandTotal: d(grandTotal)}
}

func TestRecomputeBookingEndToEnd(t *testing.T) {
	repo := newMemoryRepo()
	seedBooking(repo, 1, "10000")
	repo.items[11] = BookingItem{ID: 11, BookingID: 1, ProductType: ProductEntranceTicket, ProductID: 2, Quantity: 2, CostPrice: d("1000"), Amount: d("3000")}
	repo.items[12] = BookingItem{ID: 12, BookingID: 1, ProductType: ProductGroupTour, ProductID: 3, Quantity: 1, CostPrice: d("4000"), Amount: d("5000")}

	svc := newTestService(repo)
	require.NoError(t, svc.RecomputeBooking(context.Background(), 1))

	// item 11: total cost 2000, vat 140, profit 1000 -> commission 500
	require.Equal(t, "140.00", repo.items[11].OutputVAT.StringFixed(2))
	require.Equal(t, "500.00", repo.items[11].Commission.StringFixed(2))
	// item 12: total cost 4000, vat 280, profit 1000 -> commission 500
	require.Equal(t, "280.00", repo.items[12].OutputVAT.StringFixed(2))

	// booking: vat 700, profit 10000-6000=4000 -> commission 2000
	b := repo.bookings[1]
	require.Equal(t, "700.00", b.OutputVAT.StringFixed(2))
	require.Equal(t, "2000.00", b.Commission.StringFixed(2))
}

func TestRecomputeBookingIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	seedBooking(repo, 1, "1500")
	repo.items[11] = BookingItem{ID: 11, BookingID: 1, ProductType: ProductEntranceTicket, ProductID: 2, Quantity: 1, CostPrice: d("1000"), Amount: d("1500")}

	svc := newTestService(repo)
	require.NoError(t, svc.RecomputeBooking(context.Background(), 1))
	first := repo.bookings[1]
	firstItem := repo.items[11]

	require.NoError(t, svc.RecomputeBooking(context.Background(), 1))
	require.True(t, repo.bookings[1].OutputVAT.Equal(first.OutputVAT))
	require.True(t, repo.bookings[1].Commission.Equal(first.Commission))
	require.True(t, repo.items[11].OutputVAT.Equal(firstItem.OutputVAT))
	require.True(t, repo.items[11].Commission.Equal(firstItem.Commission))
}

func TestRecomputeBookingZeroTotalSkips(t *testing.T) {
	repo := newMemoryRepo()
	seedBooking(repo, 1, "0")
	repo.bookings[1] = Booking{ID: 1, GrandTotal: decimal.Zero, OutputVAT: d("99"), Commission: d("88")}
	repo.items[11] = BookingItem{ID: 11, BookingID: 1, ProductType: ProductEntranceTicket, ProductID: 2, CostPrice: d("100"), Amount: d("200")}

	svc := newTestService(repo)
	err := svc.RecomputeBooking(context.Background(), 1)
	require.ErrorIs(t, err, ErrZeroGrandTotal)

	// untouched
	require.Equal(t, "99", repo.bookings[1].OutputVAT.String())
	require.True(t, repo.items[11].OutputVAT.IsZero())
}

func TestRecomputeBookingRollsBackOnItemFailure(t *testing.T) {
	repo := newMemoryRepo()
	seedBooking(repo, 1, "9000")
	repo.items[11] = BookingItem{ID: 11, BookingID: 1, ProductType: ProductEntranceTicket, ProductID: 2, Quantity: 1, CostPrice: d("1000"), Amount: d("2000")}
	repo.items[12] = BookingItem{ID: 12, BookingID: 1, ProductType: ProductGroupTour, ProductID: 3, Quantity: 1, CostPrice: d("2000"), Amount: d("2500")}
	repo.txFailOnItem = 12

	svc := newTestService(repo)
	require.Error(t, svc.RecomputeBooking(context.Background(), 1))

	// the whole booking's update rolled back, including the first item
	require.True(t, repo.items[11].OutputVAT.IsZero())
	require.True(t, repo.bookings[1].OutputVAT.IsZero())
}

func TestRecomputeBookingSkipsUnresolvedItems(t *testing.T) {
	repo := newMemoryRepo()
	seedBooking(repo, 1, "5000")
	repo.items[11] = BookingItem{ID: 11, BookingID: 1, ProductType: ProductEntranceTicket, ProductID: 9, Quantity: 1, CostPrice: d("1000"), Amount: d("2000")}
	repo.items[12] = BookingItem{ID: 12, BookingID: 1, ProductType: ProductGroupTour, ProductID: 3, Quantity: 1, CostPrice: d("2000"), Amount: d("2500")}

	svc := NewService(repo, NewCostCalculator(&fakeCatalog{missing: map[int64]bool{9: true}}), nil, nil)
	require.NoError(t, svc.RecomputeBooking(context.Background(), 1))

	// unresolved item untouched and excluded from the booking cost
	require.True(t, repo.items[11].OutputVAT.IsZero())
	// booking commission over profit 5000-2000=3000 -> 1500
	require.Equal(t, "1500.00", repo.bookings[1].Commission.StringFixed(2))
}

func TestRecomputeFinancialsBatchCounts(t *testing.T) {
	repo := newMemoryRepo()
	seedBooking(repo, 1, "1000")
	seedBooking(repo, 2, "0") // skip
	seedBooking(repo, 3, "3000")
	repo.items[31] = BookingItem{ID: 31, BookingID: 3, ProductType: ProductEntranceTicket, ProductID: 2, Quantity: 1, CostPrice: d("500"), Amount: d("700")}
	repo.items[32] = BookingItem{ID: 32, BookingID: 3, ProductType: ProductGroupTour, ProductID: 3, Quantity: 1, CostPrice: d("100"), Amount: d("200")}
	repo.txFailOnItem = 32

	svc := newTestService(repo)
	summary, err := svc.RecomputeFinancials(context.Background(), RecomputeOptions{ChunkSize: 2})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Processed)
	require.Equal(t, 1, summary.Skipped)
	require.Equal(t, 1, summary.Failed)
	require.NotEqual(t, uuid.Nil, summary.RunID)
}

func TestRecomputeFinancialsSingleBooking(t *testing.T) {
	repo := newMemoryRepo()
	seedBooking(repo, 7, "700")

	svc := newTestService(repo)
	id := int64(7)
	summary, err := svc.RecomputeFinancials(context.Background(), RecomputeOptions{BookingID: &id})
	require.NoError(t, err)
	require.Equal(t, 1, summary.Processed)
}

func TestGroupBookingCreatesGroupsPerProductType(t *testing.T) {
	repo := newMemoryRepo()
	seedBooking(repo, 1, "9000")
	repo.items[11] = BookingItem{ID: 11, BookingID: 1, ProductType: ProductHotel, TotalCostPrice: d("1000")}
	repo.items[12] = BookingItem{ID: 12, BookingID: 1, ProductType: ProductHotel, TotalCostPrice: d("1200")}
	repo.items[13] = BookingItem{ID: 13, BookingID: 1, ProductType: ProductEntranceTicket, TotalCostPrice: d("300")}

	svc := newTestService(repo)
	require.NoError(t, svc.GroupBooking(context.Background(), 1))

	require.Len(t, repo.groups, 2)
	hotelGroup := repo.groups[GroupKey{BookingID: 1, ProductType: ProductHotel}]
	require.NotNil(t, hotelGroup)
	require.Equal(t, "2200", hotelGroup.TotalCostPrice.String())

	require.NotNil(t, repo.items[11].GroupID)
	require.Equal(t, hotelGroup.ID, *repo.items[11].GroupID)
	require.Equal(t, hotelGroup.ID, *repo.items[12].GroupID)
	ticketGroup := repo.groups[GroupKey{BookingID: 1, ProductType: ProductEntranceTicket}]
	require.Equal(t, ticketGroup.ID, *repo.items[13].GroupID)
}

func TestGroupBookingRerunUpdatesExistingGroup(t *testing.T) {
	repo := newMemoryRepo()
	seedBooking(repo, 1, "9000")
	repo.items[11] = BookingItem{ID: 11, BookingID: 1, ProductType: ProductHotel, TotalCostPrice: d("1000")}

	svc := newTestService(repo)
	require.NoError(t, svc.GroupBooking(context.Background(), 1))
	firstID := repo.groups[GroupKey{BookingID: 1, ProductType: ProductHotel}].ID

	// a third hotel item arrives, then grouping re-runs
	repo.items[14] = BookingItem{ID: 14, BookingID: 1, ProductType: ProductHotel, TotalCostPrice: d("800")}
	require.NoError(t, svc.GroupBooking(context.Background(), 1))

	require.Len(t, repo.groups, 1)
	g := repo.groups[GroupKey{BookingID: 1, ProductType: ProductHotel}]
	require.Equal(t, firstID, g.ID)
	require.Equal(t, "1800", g.TotalCostPrice.String())
	require.Equal(t, firstID, *repo.items[14].GroupID)
}

func TestGroupAllBookingsChunked(t *testing.T) {
	repo := newMemoryRepo()
	for i := int64(1); i <= 5; i++ {
		seedBooking(repo, i, "100")
		repo.items[100+i] = BookingItem{ID: 100 + i, BookingID: i, ProductType: ProductHotel, TotalCostPrice: d("10")}
	}

	svc := newTestService(repo)
	summary, err := svc.GroupAllBookings(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 5, summary.Processed)
	require.Len(t, repo.groups, 5)
}

func TestCRMID(t *testing.T) {
	at := time.Date(2026, time.June, 2, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "TA-2606-0133", CRMID("Thai Anywhere", at, 133))
	require.Equal(t, "MI-2606-0001", CRMID("mike", at, 1))
	require.Equal(t, "XX-2606-0009", CRMID("  ", at, 9))
	require.Equal(t, "AX-2606-0002", CRMID("a", at, 2))

	// multi-byte names take whole runes, never split bytes
	got := CRMID("สมชาย ใจดี", at, 7)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, "สใ-2606-0007", got)
	require.Equal(t, "สม-2606-0008", CRMID("สมชาย", at, 8))
}
