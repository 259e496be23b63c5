package sales

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopkhata/shopkhata/internal/purchases"
)

type fakeSalesRepo struct {
	lots       []purchases.PurchaseLot
	sales      []SaleRecord
	nextSaleID int64
}

type fakeTx struct {
	repo    *fakeSalesRepo
	pending []SaleRecord
	decrs   map[int64]int64
}

func (f *fakeSalesRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := &fakeTx{repo: f, decrs: map[int64]int64{}}
	if err := fn(ctx, tx); err != nil {
		// Rollback: nothing committed.
		return err
	}
	for id, qty := range tx.decrs {
		for i := range f.lots {
			if f.lots[i].ID == id {
				f.lots[i].Stock -= qty
			}
		}
	}
	f.sales = append(f.sales, tx.pending...)
	return nil
}

func (t *fakeTx) FindLatestLotByNameForUpdate(_ context.Context, name string) (purchases.PurchaseLot, error) {
	var found *purchases.PurchaseLot
	for i := range t.repo.lots {
		lot := &t.repo.lots[i]
		if strings.EqualFold(lot.ProductName, name) {
			if found == nil || lot.ID > found.ID {
				found = lot
			}
		}
	}
	if found == nil {
		return purchases.PurchaseLot{}, purchases.ErrNotFound
	}
	lot := *found
	lot.Stock -= t.decrs[lot.ID]
	return lot, nil
}

func (t *fakeTx) DecrementLotStock(_ context.Context, lotID, qty int64) (bool, error) {
	for i := range t.repo.lots {
		if t.repo.lots[i].ID == lotID {
			if t.repo.lots[i].Stock-t.decrs[lotID] < qty {
				return false, nil
			}
			t.decrs[lotID] += qty
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) InsertSale(_ context.Context, sale SaleRecord) (int64, error) {
	t.repo.nextSaleID++
	sale.ID = t.repo.nextSaleID
	t.pending = append(t.pending, sale)
	return sale.ID, nil
}

func (f *fakeSalesRepo) List(_ context.Context, _ ListSalesRequest) ([]SaleRecord, int, error) {
	return f.sales, len(f.sales), nil
}

func (f *fakeSalesRepo) ListByDate(_ context.Context, date time.Time) ([]SaleRecord, error) {
	var out []SaleRecord
	for _, s := range f.sales {
		if s.SaleDate.Equal(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSalesRepo) Get(_ context.Context, id int64) (SaleRecord, error) {
	for _, s := range f.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return SaleRecord{}, ErrNotFound
}

func (f *fakeSalesRepo) Update(_ context.Context, id int64, sale SaleRecord) error {
	for i := range f.sales {
		if f.sales[i].ID == id {
			sale.ID = id
			f.sales[i] = sale
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeSalesRepo) Delete(_ context.Context, id int64) error {
	for i := range f.sales {
		if f.sales[i].ID == id {
			f.sales = append(f.sales[:i], f.sales[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeSalesRepo) TotalPriceForDate(_ context.Context, date time.Time) (float64, int, error) {
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

func saleDay() time.Time {
	return time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
}

func TestRecordSaleHappyPath(t *testing.T) {
	repo := &fakeSalesRepo{lots: []purchases.PurchaseLot{
		{ID: 1, ProductName: "Panadol", UnitCost: 10, Pieces: 100, Stock: 100},
	}}
	svc := NewService(repo)

	res, err := svc.RecordSale(context.Background(), CreateSaleRequest{
		ProductName: "panadol", UnitPrice: 15, Quantity: 10, SaleDate: saleDay(),
	})
	require.NoError(t, err)
	require.Equal(t, 150.0, res.Sale.LineTotal)
	require.Equal(t, "panadol", res.Sale.ProductName)
	require.Equal(t, int64(10), res.UnitsSold)
	require.Equal(t, 5.0, res.UnitProfit)
	require.NotEmpty(t, res.Sale.Ref)
	require.Equal(t, int64(90), repo.lots[0].Stock)
	require.Len(t, repo.sales, 1)
}

func TestRecordSaleNoMatchingLot(t *testing.T) {
	repo := &fakeSalesRepo{}
	svc := NewService(repo)

	_, err := svc.RecordSale(context.Background(), CreateSaleRequest{
		ProductName: "Ghost", UnitPrice: 5, Quantity: 1, SaleDate: saleDay(),
	})
	require.ErrorIs(t, err, ErrNoMatchingLot)
	require.Empty(t, repo.sales)
}

func TestRecordSalePriceBelowCost(t *testing.T) {
	repo := &fakeSalesRepo{lots: []purchases.PurchaseLot{
		{ID: 1, ProductName: "Panadol", UnitCost: 10, Pieces: 100, Stock: 100},
	}}
	svc := NewService(repo)

	_, err := svc.RecordSale(context.Background(), CreateSaleRequest{
		ProductName: "Panadol", UnitPrice: 9.99, Quantity: 1, SaleDate: saleDay(),
	})
	require.ErrorIs(t, err, ErrPriceBelowCost)
	require.Equal(t, int64(100), repo.lots[0].Stock)
}

func TestRecordSaleAtCostAllowed(t *testing.T) {
	repo := &fakeSalesRepo{lots: []purchases.PurchaseLot{
		{ID: 1, ProductName: "Panadol", UnitCost: 10, Pieces: 100, Stock: 100},
	}}
	svc := NewService(repo)

	_, err := svc.RecordSale(context.Background(), CreateSaleRequest{
		ProductName: "Panadol", UnitPrice: 10, Quantity: 1, SaleDate: saleDay(),
	})
	require.NoError(t, err)
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	repo := &fakeSalesRepo{lots: []purchases.PurchaseLot{
		{ID: 1, ProductName: "Panadol", UnitCost: 10, Pieces: 100, Stock: 5},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	// Draining the lot exactly succeeds.
	_, err := svc.RecordSale(ctx, CreateSaleRequest{
		ProductName: "Panadol", UnitPrice: 15, Quantity: 5, SaleDate: saleDay(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(0), repo.lots[0].Stock)

	// The next sale fails and writes nothing.
	_, err = svc.RecordSale(ctx, CreateSaleRequest{
		ProductName: "Panadol", UnitPrice: 15, Quantity: 1, SaleDate: saleDay(),
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Len(t, repo.sales, 1)
}

func TestRecordSaleUsesLatestLot(t *testing.T) {
	repo := &fakeSalesRepo{lots: []purchases.PurchaseLot{
		{ID: 1, ProductName: "Panadol", UnitCost: 10, Pieces: 50, Stock: 50},
		{ID: 2, ProductName: "Panadol", UnitCost: 12, Pieces: 30, Stock: 30},
	}}
	svc := NewService(repo)

	// Priced between the two costs: legal only against the older lot, but
	// the newest lot is authoritative.
	_, err := svc.RecordSale(context.Background(), CreateSaleRequest{
		ProductName: "Panadol", UnitPrice: 11, Quantity: 1, SaleDate: saleDay(),
	})
	require.ErrorIs(t, err, ErrPriceBelowCost)

	res, err := svc.RecordSale(context.Background(), CreateSaleRequest{
		ProductName: "Panadol", UnitPrice: 14, Quantity: 10, SaleDate: saleDay(),
	})
	require.NoError(t, err)
	require.Equal(t, 2.0, res.UnitProfit)
	require.Equal(t, int64(50), repo.lots[0].Stock)
	require.Equal(t, int64(20), repo.lots[1].Stock)
}

func TestRecordSaleValidatesInput(t *testing.T) {
	svc := NewService(&fakeSalesRepo{})

	_, err := svc.RecordSale(context.Background(), CreateSaleRequest{ProductName: " ", UnitPrice: 1, Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RecordSale(context.Background(), CreateSaleRequest{ProductName: "x", UnitPrice: 1, Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateRecomputesLineTotal(t *testing.T) {
	repo := &fakeSalesRepo{lots: []purchases.PurchaseLot{
		{ID: 1, ProductName: "Panadol", UnitCost: 10, Pieces: 100, Stock: 100},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	res, err := svc.RecordSale(ctx, CreateSaleRequest{
		ProductName: "Panadol", UnitPrice: 15, Quantity: 10, SaleDate: saleDay(),
	})
	require.NoError(t, err)

	qty := int64(4)
	bogusTotal := 999.0
	updated, warning, err := svc.Update(ctx, res.Sale.ID, UpdateSaleRequest{Quantity: &qty, LineTotal: &bogusTotal})
	require.NoError(t, err)
	require.Equal(t, 60.0, updated.LineTotal)
	require.NotEmpty(t, warning)

	// Matching totals produce no warning.
	price := 20.0
	matching := 80.0
	_, warning, err = svc.Update(ctx, res.Sale.ID, UpdateSaleRequest{UnitPrice: &price, LineTotal: &matching})
	require.NoError(t, err)
	require.Empty(t, warning)
}

func TestDeleteDoesNotRestoreStock(t *testing.T) {
	repo := &fakeSalesRepo{lots: []purchases.PurchaseLot{
		{ID: 1, ProductName: "Panadol", UnitCost: 10, Pieces: 100, Stock: 100},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	res, err := svc.RecordSale(ctx, CreateSaleRequest{
		ProductName: "Panadol", UnitPrice: 15, Quantity: 10, SaleDate: saleDay(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(90), repo.lots[0].Stock)

	require.NoError(t, svc.Delete(ctx, res.Sale.ID))
	require.Equal(t, int64(90), repo.lots[0].Stock)
}
