package taxreceipt

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/booking"
	"github.com/YeLinnAungGautam/thailandanywhere-backend-latest-sub002/internal/money"
)

// Repository loads tax receipts for a date window.
type Repository interface {
	ListByMonth(ctx context.Context, month time.Time) ([]TaxReceipt, error)
}

// Service builds the monthly accounting aggregation.
type Service struct {
	repo Repository
}

// NewService constructs the service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// MonthlyReport aggregates the month's receipts per product type. Amounts
// run through normalization so stringified legacy values cannot skew the
// export.
func (s *Service) MonthlyReport(ctx context.Context, month time.Time) (MonthlyReport, error) {
	receipts, err := s.repo.ListByMonth(ctx, month)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("list tax receipts for %s: %w", month.Format("2006-01"), err)
	}

	byType := make(map[booking.ProductType]*MonthlyLine)
	report := MonthlyReport{
		Month:      time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC),
		GrandTotal: decimal.Zero,
		GrandTax:   decimal.Zero,
	}
	for _, receipt := range receipts {
		line, ok := byType[receipt.ProductType]
		if !ok {
			line = &MonthlyLine{
				ProductType: receipt.ProductType,
				TotalAmount: decimal.Zero,
				TaxAmount:   decimal.Zero,
			}
			byType[receipt.ProductType] = line
		}
		total := money.Normalize(receipt.TotalAmount)
		tax := money.Normalize(receipt.TaxAmount)
		line.Receipts++
		line.TotalAmount = line.TotalAmount.Add(total)
		line.TaxAmount = line.TaxAmount.Add(tax)
		report.GrandTotal = report.GrandTotal.Add(total)
		report.GrandTax = report.GrandTax.Add(tax)
	}

	for _, line := range byType {
		report.Lines = append(report.Lines, *line)
	}
	sort.Slice(report.Lines, func(i, j int) bool {
		return report.Lines[i].ProductType < report.Lines[j].ProductType
	})
	return report, nil
}
