package profit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shopkhata/shopkhata/internal/purchases"
	"github.com/shopkhata/shopkhata/internal/sales"
)

// SalesSource is the slice of the sales layer the aggregator reads.
type SalesSource interface {
	ListByDate(ctx context.Context, date time.Time) ([]sales.SaleRecord, error)
	TotalPriceForDate(ctx context.Context, date time.Time) (float64, int, error)
}

// LotSource resolves a sale line to its costing lot.
type LotSource interface {
	FindLatestByName(ctx context.Context, name string) (purchases.PurchaseLot, error)
	TotalPriceForDate(ctx context.Context, date time.Time) (float64, int, error)
}

type Service struct {
	repo    Repository
	sales   SalesSource
	lots    LotSource
	logger  *slog.Logger
	compute singleflight.Group
}

func NewService(repo Repository, salesSrc SalesSource, lots LotSource, logger *slog.Logger) *Service {
	return &Service{repo: repo, sales: salesSrc, lots: lots, logger: logger}
}

// ComputeDailyProfit recomputes the profit ledger for one day and returns
// the aggregate. Concurrent requests for the same day collapse into a
// single computation.
func (s *Service) ComputeDailyProfit(ctx context.Context, date time.Time) (DailyProfit, error) {
	date = truncateDay(date)
	key := date.Format("2006-01-02")
	v, err, _ := s.compute.Do(key, func() (any, error) {
		return s.computeDaily(ctx, date)
	})
	if err != nil {
		return DailyProfit{}, err
	}
	return v.(DailyProfit), nil
}

func (s *Service) computeDaily(ctx context.Context, date time.Time) (DailyProfit, error) {
	daySales, err := s.sales.ListByDate(ctx, date)
	if err != nil {
		return DailyProfit{}, fmt.Errorf("list sales: %w", err)
	}

	var unmatched []string
	for _, sale := range daySales {
		lot, err := s.lots.FindLatestByName(ctx, sale.ProductName)
		if err != nil {
			if errors.Is(err, purchases.ErrNotFound) {
				unmatched = append(unmatched, sale.ProductName)
				s.logger.Warn("sale has no matching purchase lot",
					"sale_id", sale.ID, "product", sale.ProductName)
				continue
			}
			return DailyProfit{}, fmt.Errorf("find lot for %q: %w", sale.ProductName, err)
		}

		line := LedgerLine{
			SaleID:      sale.ID,
			ProductName: sale.ProductName,
			ProfitDate:  date,
			LineProfit:  (sale.UnitPrice - lot.UnitCost) * float64(sale.Quantity),
		}
		if err := s.repo.UpsertLedgerLine(ctx, line); err != nil {
			return DailyProfit{}, fmt.Errorf("upsert ledger line: %w", err)
		}
	}

	total, err := s.repo.SumLedgerForDate(ctx, date)
	if err != nil {
		return DailyProfit{}, fmt.Errorf("sum ledger: %w", err)
	}
	_, buyerCount, err := s.lots.TotalPriceForDate(ctx, date)
	if err != nil {
		return DailyProfit{}, fmt.Errorf("buyer totals: %w", err)
	}
	_, salerCount, err := s.sales.TotalPriceForDate(ctx, date)
	if err != nil {
		return DailyProfit{}, fmt.Errorf("saler totals: %w", err)
	}

	return DailyProfit{
		Date:         date,
		ProfitAmount: total,
		BuyerItems:   buyerCount,
		SalerItems:   salerCount,
		Unmatched:    unmatched,
	}, nil
}

// SnapshotDaily computes the day and persists both the profit snapshot
// and the per-side total-price rows.
func (s *Service) SnapshotDaily(ctx context.Context, date time.Time) (DailyProfitRecord, error) {
	date = truncateDay(date)
	daily, err := s.ComputeDailyProfit(ctx, date)
	if err != nil {
		return DailyProfitRecord{}, err
	}

	buyerTotal, buyerCount, err := s.lots.TotalPriceForDate(ctx, date)
	if err != nil {
		return DailyProfitRecord{}, fmt.Errorf("buyer totals: %w", err)
	}
	salerTotal, salerCount, err := s.sales.TotalPriceForDate(ctx, date)
	if err != nil {
		return DailyProfitRecord{}, fmt.Errorf("saler totals: %w", err)
	}
	if err := s.repo.SaveDailyTotal(ctx, TableBuyerTotals, DailyTotal{Date: date, TotalPrice: buyerTotal, ItemCount: buyerCount}); err != nil {
		return DailyProfitRecord{}, fmt.Errorf("save buyer total: %w", err)
	}
	if err := s.repo.SaveDailyTotal(ctx, TableSalerTotals, DailyTotal{Date: date, TotalPrice: salerTotal, ItemCount: salerCount}); err != nil {
		return DailyProfitRecord{}, fmt.Errorf("save saler total: %w", err)
	}

	rec, err := s.repo.SaveDailySnapshot(ctx, DailyProfitRecord{
		Date:         date,
		ProfitAmount: daily.ProfitAmount,
		BuyerItems:   daily.BuyerItems,
		SalerItems:   daily.SalerItems,
	})
	if err != nil {
		return DailyProfitRecord{}, fmt.Errorf("save daily snapshot: %w", err)
	}
	s.logger.Info("daily profit snapshot saved",
		"date", date.Format("2006-01-02"), "profit", rec.ProfitAmount,
		"unmatched", len(daily.Unmatched))
	return rec, nil
}

// ComputeMonthlyProfit sums persisted daily snapshots over one calendar
// month. month is YYYY-MM.
func (s *Service) ComputeMonthlyProfit(ctx context.Context, month string) (MonthlyProfitRecord, error) {
	from, to, err := monthBounds(month)
	if err != nil {
		return MonthlyProfitRecord{}, err
	}
	sum, buyer, saler, err := s.repo.SumDailyForMonth(ctx, from, to)
	if err != nil {
		return MonthlyProfitRecord{}, fmt.Errorf("sum month: %w", err)
	}
	return MonthlyProfitRecord{Month: month, ProfitAmount: sum, BuyerItems: buyer, SalerItems: saler}, nil
}

// SnapshotMonthly persists the monthly aggregate.
func (s *Service) SnapshotMonthly(ctx context.Context, month string) (MonthlyProfitRecord, error) {
	rec, err := s.ComputeMonthlyProfit(ctx, month)
	if err != nil {
		return MonthlyProfitRecord{}, err
	}
	saved, err := s.repo.SaveMonthlySnapshot(ctx, rec)
	if err != nil {
		return MonthlyProfitRecord{}, fmt.Errorf("save monthly snapshot: %w", err)
	}
	return saved, nil
}

func (s *Service) DailySnapshots(ctx context.Context) ([]DailyProfitRecord, error) {
	return s.repo.ListDailySnapshots(ctx)
}

func (s *Service) MonthlySnapshots(ctx context.Context) ([]MonthlyProfitRecord, error) {
	return s.repo.ListMonthlySnapshots(ctx)
}

// BuyerTotalForDate returns the live purchase total for one date.
func (s *Service) BuyerTotalForDate(ctx context.Context, date time.Time) (DailyTotal, error) {
	date = truncateDay(date)
	total, count, err := s.lots.TotalPriceForDate(ctx, date)
	if err != nil {
		return DailyTotal{}, err
	}
	return DailyTotal{Date: date, TotalPrice: total, ItemCount: count}, nil
}

// SalerTotalForDate returns the live sale total for one date.
func (s *Service) SalerTotalForDate(ctx context.Context, date time.Time) (DailyTotal, error) {
	date = truncateDay(date)
	total, count, err := s.sales.TotalPriceForDate(ctx, date)
	if err != nil {
		return DailyTotal{}, err
	}
	return DailyTotal{Date: date, TotalPrice: total, ItemCount: count}, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthBounds(month string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	return from, from.AddDate(0, 1, 0), nil
}
