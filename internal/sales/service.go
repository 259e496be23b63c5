package sales

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopkhata/shopkhata/internal/purchases"
)

// Service runs the inventory reconciliation between buyer and saler
// product records.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordSale matches the candidate sale against its originating purchase
// lot, decrements the lot stock and creates the sale record, all inside
// one transaction. The authoritative lot is the last-created lot whose
// name matches case-insensitively. No row is touched when any business
// rule fails.
func (s *Service) RecordSale(ctx context.Context, req CreateSaleRequest) (SaleResult, error) {
	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		return SaleResult{}, fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if req.Quantity <= 0 {
		return SaleResult{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	var result SaleResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		lot, err := tx.FindLatestLotByNameForUpdate(ctx, name)
		if err != nil {
			if errors.Is(err, purchases.ErrNotFound) {
				return ErrNoMatchingLot
			}
			return err
		}
		if req.UnitPrice < lot.UnitCost {
			return ErrPriceBelowCost
		}
		if req.Quantity > lot.Stock {
			return ErrInsufficientStock
		}

		ok, err := tx.DecrementLotStock(ctx, lot.ID, req.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			// A concurrent sale drained the lot between lookup and update.
			return ErrInsufficientStock
		}

		now := time.Now()
		sale := SaleRecord{
			Ref:          uuid.NewString(),
			ProductName:  name,
			ProductPlace: req.ProductPlace,
			UnitPrice:    req.UnitPrice,
			LineTotal:    req.UnitPrice * float64(req.Quantity),
			Quantity:     req.Quantity,
			SaleDate:     req.SaleDate,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		id, err := tx.InsertSale(ctx, sale)
		if err != nil {
			return err
		}
		sale.ID = id
		result = SaleResult{
			Sale:       sale,
			UnitsSold:  req.Quantity,
			UnitProfit: req.UnitPrice - lot.UnitCost,
		}
		return nil
	})
	if err != nil {
		return SaleResult{}, err
	}
	return result, nil
}

// Update applies the provided fields to a sale and recomputes line_total
// from unit price and quantity. When the caller submitted a line_total
// that disagrees with the recomputed value, the returned warning says so;
// the recomputed value always wins.
func (s *Service) Update(ctx context.Context, id int64, req UpdateSaleRequest) (SaleRecord, string, error) {
	sale, err := s.repo.Get(ctx, id)
	if err != nil {
		return SaleRecord{}, "", err
	}
	if req.ProductName != nil {
		name := strings.TrimSpace(*req.ProductName)
		if name == "" {
			return SaleRecord{}, "", fmt.Errorf("%w: product name required", ErrInvalidInput)
		}
		sale.ProductName = name
	}
	if req.ProductPlace != nil {
		sale.ProductPlace = req.ProductPlace
	}
	if req.UnitPrice != nil {
		sale.UnitPrice = *req.UnitPrice
	}
	if req.Quantity != nil {
		sale.Quantity = *req.Quantity
	}
	if req.SaleDate != nil {
		sale.SaleDate = *req.SaleDate
	}

	recomputed := sale.UnitPrice * float64(sale.Quantity)
	warning := ""
	if req.LineTotal != nil && math.Abs(*req.LineTotal-recomputed) > 1e-9 {
		warning = "line_total recomputed from unit_price * quantity; submitted value ignored"
	}
	sale.LineTotal = recomputed

	if err := s.repo.Update(ctx, id, sale); err != nil {
		return SaleRecord{}, "", err
	}
	return sale, warning, nil
}

// Get returns one sale record.
func (s *Service) Get(ctx context.Context, id int64) (SaleRecord, error) {
	return s.repo.Get(ctx, id)
}

// List returns sales matching the filter plus the unfiltered total.
func (s *Service) List(ctx context.Context, req ListSalesRequest) ([]SaleRecord, int, error) {
	return s.repo.List(ctx, req)
}

// Delete removes a sale record. The originating lot's stock is not
// restored; returns flow through the dues ledger instead.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// TotalPriceForDate returns the sale value sold on one date.
func (s *Service) TotalPriceForDate(ctx context.Context, date time.Time) (float64, int, error) {
	return s.repo.TotalPriceForDate(ctx, date)
}
