package purchases

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeLotRepo struct {
	lots   []PurchaseLot
	nextID int64
}

func (f *fakeLotRepo) List(_ context.Context, _ ListPurchaseLotsRequest) ([]PurchaseLot, int, error) {
	return f.lots, len(f.lots), nil
}

func (f *fakeLotRepo) Get(_ context.Context, id int64) (PurchaseLot, error) {
	for _, lot := range f.lots {
		if lot.ID == id {
			return lot, nil
		}
	}
	return PurchaseLot{}, ErrNotFound
}

func (f *fakeLotRepo) FindLatestByName(_ context.Context, name string) (PurchaseLot, error) {
	var found *PurchaseLot
	for i := range f.lots {
		if strings.EqualFold(f.lots[i].ProductName, name) {
			if found == nil || f.lots[i].ID > found.ID {
				found = &f.lots[i]
			}
		}
	}
	if found == nil {
		return PurchaseLot{}, ErrNotFound
	}
	return *found, nil
}

func (f *fakeLotRepo) Create(_ context.Context, lot PurchaseLot) (PurchaseLot, error) {
	f.nextID++
	lot.ID = f.nextID
	f.lots = append(f.lots, lot)
	return lot, nil
}

func (f *fakeLotRepo) Update(_ context.Context, id int64, lot PurchaseLot) error {
	for i := range f.lots {
		if f.lots[i].ID == id {
			lot.ID = id
			f.lots[i] = lot
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeLotRepo) Delete(_ context.Context, id int64) error {
	for i := range f.lots {
		if f.lots[i].ID == id {
			f.lots = append(f.lots[:i], f.lots[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeLotRepo) TotalPriceForDate(_ context.Context, date time.Time) (float64, int, error) {
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

func buyDay() time.Time {
	return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
}

func TestCreateStockDefaultsToPieces(t *testing.T) {
	svc := NewService(&fakeLotRepo{})

	lot, err := svc.Create(context.Background(), CreatePurchaseLotRequest{
		ProductName: "Panadol", UnitCost: 10, SellingPrice: 15, Pieces: 100, PurchaseDate: buyDay(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(100), lot.Stock)
}

func TestCreateExplicitStock(t *testing.T) {
	svc := NewService(&fakeLotRepo{})

	stock := int64(40)
	lot, err := svc.Create(context.Background(), CreatePurchaseLotRequest{
		ProductName: "Panadol", Pieces: 100, Stock: &stock, PurchaseDate: buyDay(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(40), lot.Stock)
}

func TestCreateRejectsStockOverPieces(t *testing.T) {
	svc := NewService(&fakeLotRepo{})

	stock := int64(101)
	_, err := svc.Create(context.Background(), CreatePurchaseLotRequest{
		ProductName: "Panadol", Pieces: 100, Stock: &stock, PurchaseDate: buyDay(),
	})
	require.ErrorIs(t, err, ErrStockExceedsPieces)
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(&fakeLotRepo{})

	_, err := svc.Create(context.Background(), CreatePurchaseLotRequest{
		ProductName: "  ", Pieces: 10, PurchaseDate: buyDay(),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateRechecksInvariant(t *testing.T) {
	repo := &fakeLotRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	lot, err := svc.Create(ctx, CreatePurchaseLotRequest{
		ProductName: "Panadol", Pieces: 100, PurchaseDate: buyDay(),
	})
	require.NoError(t, err)

	// Shrinking pieces below current stock violates the invariant.
	pieces := int64(50)
	_, err = svc.Update(ctx, lot.ID, UpdatePurchaseLotRequest{Pieces: &pieces})
	require.ErrorIs(t, err, ErrStockExceedsPieces)

	// Shrinking both together is fine.
	stock := int64(50)
	updated, err := svc.Update(ctx, lot.ID, UpdatePurchaseLotRequest{Pieces: &pieces, Stock: &stock})
	require.NoError(t, err)
	require.Equal(t, int64(50), updated.Pieces)
	require.Equal(t, int64(50), updated.Stock)
}

func TestFindLatestByNamePicksNewestLot(t *testing.T) {
	repo := &fakeLotRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePurchaseLotRequest{ProductName: "Panadol", UnitCost: 10, Pieces: 10, PurchaseDate: buyDay()})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreatePurchaseLotRequest{ProductName: "panadol", UnitCost: 12, Pieces: 20, PurchaseDate: buyDay()})
	require.NoError(t, err)

	lot, err := repo.FindLatestByName(ctx, "PANADOL")
	require.NoError(t, err)
	require.Equal(t, 12.0, lot.UnitCost)
}

func TestTotalPriceForDate(t *testing.T) {
	repo := &fakeLotRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePurchaseLotRequest{ProductName: "a", UnitCost: 10, Pieces: 5, PurchaseDate: buyDay()})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreatePurchaseLotRequest{ProductName: "b", UnitCost: 2, Pieces: 10, PurchaseDate: buyDay()})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreatePurchaseLotRequest{ProductName: "c", UnitCost: 100, Pieces: 1, PurchaseDate: buyDay().AddDate(0, 0, 1)})
	require.NoError(t, err)

	total, count, err := svc.TotalPriceForDate(ctx, buyDay())
	require.NoError(t, err)
	require.Equal(t, 70.0, total)
	require.Equal(t, 2, count)
}
