package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Service coordinates dues persistence with the running-balance
// calculator and the per-khata balance cache.
type Service struct {
	repo       Repository
	calculator *Calculator
	cache      *BalanceCache
	logger     *slog.Logger
}

// NewService builds Service.
func NewService(repo Repository, calculator *Calculator, cache *BalanceCache, logger *slog.Logger) *Service {
	if calculator == nil {
		calculator = NewCalculator(nil)
	}
	return &Service{repo: repo, calculator: calculator, cache: cache, logger: logger}
}

// Create appends a new dues entry. An empty khata name falls back to the
// unfiltered group label.
func (s *Service) Create(ctx context.Context, req CreateEntryRequest) (LedgerEntry, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return LedgerEntry{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	khata := strings.TrimSpace(req.KhataName)
	if khata == "" {
		khata = DefaultKhata
	}
	entry, err := s.repo.Create(ctx, LedgerEntry{
		KhataName:        khata,
		Name:             name,
		SinglePiecePrice: req.SinglePiecePrice,
		MedicinePieces:   req.MedicinePieces,
		FeedPieces:       req.FeedPieces,
		OtherPieces:      req.OtherPieces,
		GivenDues:        req.GivenDues,
		TakenDues:        req.TakenDues,
		Date:             req.Date,
	})
	if err != nil {
		return LedgerEntry{}, err
	}
	s.invalidate(ctx, entry.KhataName)
	return entry, nil
}

// Update changes name and/or date only; every other field is immutable
// post-creation.
func (s *Service) Update(ctx context.Context, id int64, req UpdateEntryRequest) (LedgerEntry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return LedgerEntry{}, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return LedgerEntry{}, fmt.Errorf("%w: name required", ErrInvalidInput)
		}
		entry.Name = name
	}
	if req.Date != nil {
		entry.Date = *req.Date
	}
	if err := s.repo.UpdateNameAndDate(ctx, id, entry.Name, entry.Date); err != nil {
		return LedgerEntry{}, err
	}
	s.invalidate(ctx, entry.KhataName)
	return entry, nil
}

// Get returns one entry.
func (s *Service) Get(ctx context.Context, id int64) (LedgerEntry, error) {
	return s.repo.Get(ctx, id)
}

// List returns the raw entries of a khata in stored order.
func (s *Service) List(ctx context.Context, khata string) ([]LedgerEntry, error) {
	return s.repo.ListByKhata(ctx, khata)
}

// ListKhatas returns the distinct khata labels in use.
func (s *Service) ListKhatas(ctx context.Context) ([]string, error) {
	return s.repo.ListKhatas(ctx)
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id int64) error {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, entry.KhataName)
	return nil
}

// Statement replays the khata's entries into running-balance rows.
func (s *Service) Statement(ctx context.Context, khata string) ([]StatementLine, error) {
	entries, err := s.repo.ListByKhata(ctx, khata)
	if err != nil {
		return nil, err
	}
	return s.calculator.Statement(entries, khata), nil
}

// LastBalance returns the current balance of a khata, serving from the
// cache when possible.
func (s *Service) LastBalance(ctx context.Context, khata string) (float64, error) {
	if balance, ok, err := s.cache.Get(ctx, khata); err == nil && ok {
		return balance, nil
	} else if err != nil {
		s.logger.Warn("balance cache read", slog.Any("error", err))
	}

	entries, err := s.repo.ListByKhata(ctx, khata)
	if err != nil {
		return 0, err
	}
	balance := s.calculator.LastBalance(entries, khata)
	if err := s.cache.Set(ctx, khata, balance); err != nil {
		s.logger.Warn("balance cache write", slog.Any("error", err))
	}
	return balance, nil
}

// RenameKhata validates and applies a bulk khata rename; all matching
// rows move or none do.
func (s *Service) RenameKhata(ctx context.Context, req RenameKhataRequest) (int64, error) {
	oldName := strings.TrimSpace(req.OldKhataName)
	newName := strings.TrimSpace(req.NewKhataName)
	if oldName == "" || newName == "" {
		return 0, fmt.Errorf("%w: both khata names are required", ErrInvalidInput)
	}
	if strings.EqualFold(oldName, newName) {
		return 0, fmt.Errorf("%w: khata names must differ", ErrInvalidInput)
	}
	affected, err := s.repo.RenameKhata(ctx, oldName, newName)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, oldName, newName)
	return affected, nil
}

func (s *Service) invalidate(ctx context.Context, khatas ...string) {
	if err := s.cache.Invalidate(ctx, khatas...); err != nil {
		s.logger.Warn("balance cache invalidate", slog.Any("error", err))
	}
}
