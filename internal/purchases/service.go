package purchases

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Service coordinates purchase lot operations.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new purchase lot. Stock defaults to the full piece
// count when omitted.
func (s *Service) Create(ctx context.Context, req CreatePurchaseLotRequest) (PurchaseLot, error) {
	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		return PurchaseLot{}, fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	stock := req.Pieces
	if req.Stock != nil {
		stock = *req.Stock
	}
	lot := PurchaseLot{
		ProductName:  name,
		SellingPrice: req.SellingPrice,
		UnitCost:     req.UnitCost,
		Pieces:       req.Pieces,
		Stock:        stock,
		ExpireDate:   req.ExpireDate,
		PurchaseDate: req.PurchaseDate,
	}
	if err := validateCounts(lot); err != nil {
		return PurchaseLot{}, err
	}
	return s.repo.Create(ctx, lot)
}

// Update applies the provided fields to an existing lot, re-checking the
// stock <= pieces invariant against the merged state.
func (s *Service) Update(ctx context.Context, id int64, req UpdatePurchaseLotRequest) (PurchaseLot, error) {
	lot, err := s.repo.Get(ctx, id)
	if err != nil {
		return PurchaseLot{}, err
	}
	if req.ProductName != nil {
		name := strings.TrimSpace(*req.ProductName)
		if name == "" {
			return PurchaseLot{}, fmt.Errorf("%w: product name required", ErrInvalidInput)
		}
		lot.ProductName = name
	}
	if req.SellingPrice != nil {
		lot.SellingPrice = *req.SellingPrice
	}
	if req.UnitCost != nil {
		lot.UnitCost = *req.UnitCost
	}
	if req.Pieces != nil {
		lot.Pieces = *req.Pieces
	}
	if req.Stock != nil {
		lot.Stock = *req.Stock
	}
	if req.ExpireDate != nil {
		lot.ExpireDate = req.ExpireDate
	}
	if req.PurchaseDate != nil {
		lot.PurchaseDate = *req.PurchaseDate
	}
	if err := validateCounts(lot); err != nil {
		return PurchaseLot{}, err
	}
	if err := s.repo.Update(ctx, id, lot); err != nil {
		return PurchaseLot{}, err
	}
	return lot, nil
}

// Get returns one lot by id.
func (s *Service) Get(ctx context.Context, id int64) (PurchaseLot, error) {
	return s.repo.Get(ctx, id)
}

// List returns lots matching the filter plus the unfiltered total.
func (s *Service) List(ctx context.Context, req ListPurchaseLotsRequest) ([]PurchaseLot, int, error) {
	return s.repo.List(ctx, req)
}

// Delete removes a lot. Sales that already matched the lot keep their
// records; there is no cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// TotalPriceForDate returns the purchase value bought on one date.
func (s *Service) TotalPriceForDate(ctx context.Context, date time.Time) (float64, int, error) {
	return s.repo.TotalPriceForDate(ctx, date)
}

func validateCounts(lot PurchaseLot) error {
	if lot.Pieces < 0 || lot.Stock < 0 {
		return ErrNegativeCount
	}
	if lot.Stock > lot.Pieces {
		return ErrStockExceedsPieces
	}
	return nil
}
