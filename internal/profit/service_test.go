package profit

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopkhata/shopkhata/internal/purchases"
	"github.com/shopkhata/shopkhata/internal/sales"
)

type fakeProfitRepo struct {
	ledger   map[string]LedgerLine
	daily    map[string]DailyProfitRecord
	monthly  map[string]MonthlyProfitRecord
	totals   map[string]DailyTotal
	nextID   int64
	saveSeen int
}

func newFakeProfitRepo() *fakeProfitRepo {
	return &fakeProfitRepo{
		ledger:  map[string]LedgerLine{},
		daily:   map[string]DailyProfitRecord{},
		monthly: map[string]MonthlyProfitRecord{},
		totals:  map[string]DailyTotal{},
	}
}

func ledgerKey(saleID int64, product string) string {
	return strconv.FormatInt(saleID, 10) + ":" + strings.ToLower(product)
}

func (f *fakeProfitRepo) UpsertLedgerLine(_ context.Context, line LedgerLine) error {
	key := ledgerKey(line.SaleID, line.ProductName)
	if existing, ok := f.ledger[key]; ok {
		line.ID = existing.ID
	} else {
		f.nextID++
		line.ID = f.nextID
	}
	f.ledger[key] = line
	return nil
}

func (f *fakeProfitRepo) SumLedgerForDate(_ context.Context, date time.Time) (float64, error) {
	var sum float64
	for _, line := range f.ledger {
		if line.ProfitDate.Equal(date) {
			sum += line.LineProfit
		}
	}
	return sum, nil
}

func (f *fakeProfitRepo) SaveDailySnapshot(_ context.Context, rec DailyProfitRecord) (DailyProfitRecord, error) {
	f.saveSeen++
	key := rec.Date.Format("2006-01-02")
	if existing, ok := f.daily[key]; ok {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	} else {
		f.nextID++
		rec.ID = f.nextID
		rec.CreatedAt = time.Now()
	}
	f.daily[key] = rec
	return rec, nil
}

func (f *fakeProfitRepo) ListDailySnapshots(context.Context) ([]DailyProfitRecord, error) {
	var out []DailyProfitRecord
	for _, rec := range f.daily {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeProfitRepo) SumDailyForMonth(_ context.Context, from, to time.Time) (float64, int, int, error) {
	var sum float64
	var buyer, saler int
	for _, rec := range f.daily {
		if !rec.Date.Before(from) && rec.Date.Before(to) {
			sum += rec.ProfitAmount
			buyer += rec.BuyerItems
			saler += rec.SalerItems
		}
	}
	return sum, buyer, saler, nil
}

func (f *fakeProfitRepo) SaveMonthlySnapshot(_ context.Context, rec MonthlyProfitRecord) (MonthlyProfitRecord, error) {
	if existing, ok := f.monthly[rec.Month]; ok {
		rec.ID = existing.ID
	} else {
		f.nextID++
		rec.ID = f.nextID
	}
	rec.CreatedAt = time.Now()
	f.monthly[rec.Month] = rec
	return rec, nil
}

func (f *fakeProfitRepo) ListMonthlySnapshots(context.Context) ([]MonthlyProfitRecord, error) {
	var out []MonthlyProfitRecord
	for _, rec := range f.monthly {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeProfitRepo) SaveDailyTotal(_ context.Context, table string, total DailyTotal) error {
	if table != TableBuyerTotals && table != TableSalerTotals {
		return ErrUnknownTotalsTable
	}
	f.totals[table+":"+total.Date.Format("2006-01-02")] = total
	return nil
}

type fakeSalesSource struct {
	sales []sales.SaleRecord
}

func (f *fakeSalesSource) ListByDate(_ context.Context, date time.Time) ([]sales.SaleRecord, error) {
	var out []sales.SaleRecord
	for _, s := range f.sales {
		if s.SaleDate.Equal(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSalesSource) TotalPriceForDate(_ context.Context, date time.Time) (float64, int, error) {
	var total float64
	var count int
	for _, s := range f.sales {
		if s.SaleDate.Equal(date) {
			total += s.LineTotal
			count++
		}
	}
	return total, count, nil
}

type fakeLotSource struct {
	lots []purchases.PurchaseLot
}

func (f *fakeLotSource) FindLatestByName(_ context.Context, name string) (purchases.PurchaseLot, error) {
	var found *purchases.PurchaseLot
	for i := range f.lots {
		if strings.EqualFold(f.lots[i].ProductName, name) {
			if found == nil || f.lots[i].ID > found.ID {
				found = &f.lots[i]
			}
		}
	}
	if found == nil {
		return purchases.PurchaseLot{}, purchases.ErrNotFound
	}
	return *found, nil
}

func (f *fakeLotSource) TotalPriceForDate(_ context.Context, date time.Time) (float64, int, error) {
	var total float64
	var count int
	for _, lot := range f.lots {
		if lot.PurchaseDate.Equal(date) {
			total += lot.UnitCost * float64(lot.Pieces)
			count++
		}
	}
	return total, count, nil
}

func profitDay() time.Time {
	return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
}

func TestComputeDailyProfitSumsLines(t *testing.T) {
	repo := newFakeProfitRepo()
	salesSrc := &fakeSalesSource{sales: []sales.SaleRecord{
		{ID: 1, ProductName: "Panadol", UnitPrice: 15, Quantity: 10, LineTotal: 150, SaleDate: profitDay()},
		{ID: 2, ProductName: "Feed Bag", UnitPrice: 50, Quantity: 2, LineTotal: 100, SaleDate: profitDay()},
		{ID: 3, ProductName: "Panadol", UnitPrice: 15, Quantity: 1, LineTotal: 15, SaleDate: profitDay().AddDate(0, 0, 1)},
	}}
	lots := &fakeLotSource{lots: []purchases.PurchaseLot{
		{ID: 1, ProductName: "Panadol", UnitCost: 10, Pieces: 100, PurchaseDate: profitDay()},
		{ID: 2, ProductName: "Feed Bag", UnitCost: 40, Pieces: 50, PurchaseDate: profitDay()},
	}}
	svc := NewService(repo, salesSrc, lots, slog.Default())

	daily, err := svc.ComputeDailyProfit(context.Background(), profitDay())
	require.NoError(t, err)
	// (15-10)*10 + (50-40)*2
	require.Equal(t, 70.0, daily.ProfitAmount)
	require.Empty(t, daily.Unmatched)
	require.Equal(t, 2, daily.BuyerItems)
	require.Equal(t, 2, daily.SalerItems)
}

func TestComputeDailyProfitIdempotent(t *testing.T) {
	repo := newFakeProfitRepo()
	salesSrc := &fakeSalesSource{sales: []sales.SaleRecord{
		{ID: 1, ProductName: "Panadol", UnitPrice: 15, Quantity: 10, LineTotal: 150, SaleDate: profitDay()},
	}}
	lots := &fakeLotSource{lots: []purchases.PurchaseLot{
		{ID: 1, ProductName: "Panadol", UnitCost: 10, Pieces: 100, PurchaseDate: profitDay()},
	}}
	svc := NewService(repo, salesSrc, lots, slog.Default())
	ctx := context.Background()

	first, err := svc.ComputeDailyProfit(ctx, profitDay())
	require.NoError(t, err)
	second, err := svc.ComputeDailyProfit(ctx, profitDay())
	require.NoError(t, err)
	require.Equal(t, first.ProfitAmount, second.ProfitAmount)
	require.Len(t, repo.ledger, 1)
}

func TestComputeDailyProfitUnmatchedSales(t *testing.T) {
	repo := newFakeProfitRepo()
	salesSrc := &fakeSalesSource{sales: []sales.SaleRecord{
		{ID: 1, ProductName: "Panadol", UnitPrice: 15, Quantity: 10, LineTotal: 150, SaleDate: profitDay()},
		{ID: 2, ProductName: "Deleted Lot Item", UnitPrice: 5, Quantity: 3, LineTotal: 15, SaleDate: profitDay()},
	}}
	lots := &fakeLotSource{lots: []purchases.PurchaseLot{
		{ID: 1, ProductName: "Panadol", UnitCost: 10, Pieces: 100, PurchaseDate: profitDay()},
	}}
	svc := NewService(repo, salesSrc, lots, slog.Default())

	daily, err := svc.ComputeDailyProfit(context.Background(), profitDay())
	require.NoError(t, err)
	require.Equal(t, 50.0, daily.ProfitAmount)
	require.Equal(t, []string{"Deleted Lot Item"}, daily.Unmatched)
}

func TestComputeDailyProfitUsesLatestLotCost(t *testing.T) {
	repo := newFakeProfitRepo()
	salesSrc := &fakeSalesSource{sales: []sales.SaleRecord{
		{ID: 1, ProductName: "Panadol", UnitPrice: 15, Quantity: 10, LineTotal: 150, SaleDate: profitDay()},
	}}
	lots := &fakeLotSource{lots: []purchases.PurchaseLot{
		{ID: 1, ProductName: "Panadol", UnitCost: 10, Pieces: 100, PurchaseDate: profitDay()},
		{ID: 2, ProductName: "panadol", UnitCost: 12, Pieces: 100, PurchaseDate: profitDay()},
	}}
	svc := NewService(repo, salesSrc, lots, slog.Default())

	daily, err := svc.ComputeDailyProfit(context.Background(), profitDay())
	require.NoError(t, err)
	require.Equal(t, 30.0, daily.ProfitAmount)
}

func TestSnapshotDailyPersistsTotals(t *testing.T) {
	repo := newFakeProfitRepo()
	salesSrc := &fakeSalesSource{sales: []sales.SaleRecord{
		{ID: 1, ProductName: "Panadol", UnitPrice: 15, Quantity: 10, LineTotal: 150, SaleDate: profitDay()},
	}}
	lots := &fakeLotSource{lots: []purchases.PurchaseLot{
		{ID: 1, ProductName: "Panadol", UnitCost: 10, Pieces: 100, PurchaseDate: profitDay()},
	}}
	svc := NewService(repo, salesSrc, lots, slog.Default())

	rec, err := svc.SnapshotDaily(context.Background(), profitDay())
	require.NoError(t, err)
	require.Equal(t, 50.0, rec.ProfitAmount)
	require.Equal(t, 1, rec.BuyerItems)
	require.Equal(t, 1, rec.SalerItems)

	key := profitDay().Format("2006-01-02")
	buyer := repo.totals[TableBuyerTotals+":"+key]
	require.Equal(t, 1000.0, buyer.TotalPrice)
	saler := repo.totals[TableSalerTotals+":"+key]
	require.Equal(t, 150.0, saler.TotalPrice)
}

func TestMonthlyProfitCalendarBounds(t *testing.T) {
	repo := newFakeProfitRepo()
	svc := NewService(repo, &fakeSalesSource{}, &fakeLotSource{}, slog.Default())
	ctx := context.Background()

	seed := []DailyProfitRecord{
		{Date: time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), ProfitAmount: 99},
		{Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), ProfitAmount: 10, BuyerItems: 1, SalerItems: 2},
		{Date: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), ProfitAmount: 20, BuyerItems: 3, SalerItems: 4},
		{Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), ProfitAmount: 99},
	}
	for _, rec := range seed {
		_, err := repo.SaveDailySnapshot(ctx, rec)
		require.NoError(t, err)
	}

	rec, err := svc.ComputeMonthlyProfit(ctx, "2025-06")
	require.NoError(t, err)
	require.Equal(t, 30.0, rec.ProfitAmount)
	require.Equal(t, 4, rec.BuyerItems)
	require.Equal(t, 6, rec.SalerItems)

	saved, err := svc.SnapshotMonthly(ctx, "2025-06")
	require.NoError(t, err)
	require.Equal(t, 30.0, saved.ProfitAmount)
	require.Len(t, repo.monthly, 1)
}

func TestMonthlyProfitRejectsBadMonth(t *testing.T) {
	svc := NewService(newFakeProfitRepo(), &fakeSalesSource{}, &fakeLotSource{}, slog.Default())

	_, err := svc.ComputeMonthlyProfit(context.Background(), "June 2025")
	require.ErrorIs(t, err, ErrInvalidMonth)
}
