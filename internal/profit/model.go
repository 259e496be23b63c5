package profit

import (
	"errors"
	"time"
)

// LedgerLine is one per-sale profit contribution, keyed by
// (sale_id, product_name) so recomputing a day never double-counts.
type LedgerLine struct {
	ID          int64     `json:"id" db:"id"`
	SaleID      int64     `json:"sale_id" db:"sale_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	ProfitDate  time.Time `json:"profit_date" db:"profit_date"`
	LineProfit  float64   `json:"line_profit" db:"line_profit"`
}

// DailyProfit is the computed aggregate for one day. Unmatched lists the
// product names of sales with no surviving purchase lot; they contribute
// zero and never block.
type DailyProfit struct {
	Date         time.Time `json:"date"`
	ProfitAmount float64   `json:"profit_amount"`
	BuyerItems   int       `json:"buyer_item_count"`
	SalerItems   int       `json:"saler_item_count"`
	Unmatched    []string  `json:"unmatched,omitempty"`
}

// DailyProfitRecord is a persisted snapshot, written on explicit user
// action or by the nightly worker, never recomputed automatically.
type DailyProfitRecord struct {
	ID           int64     `json:"id" db:"id"`
	Date         time.Time `json:"date" db:"profit_date"`
	ProfitAmount float64   `json:"profit_amount" db:"profit_amount"`
	BuyerItems   int       `json:"buyer_item_count" db:"buyer_item_count"`
	SalerItems   int       `json:"saler_item_count" db:"saler_item_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// MonthlyProfitRecord is the persisted calendar-month snapshot.
type MonthlyProfitRecord struct {
	ID           int64     `json:"id" db:"id"`
	Month        string    `json:"month" db:"month"`
	ProfitAmount float64   `json:"profit_amount" db:"profit_amount"`
	BuyerItems   int       `json:"buyer_item_count" db:"buyer_item_count"`
	SalerItems   int       `json:"saler_item_count" db:"saler_item_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// DailyTotal is a pre-shaped total-price row for one side (buyer or
// saler) on one date.
type DailyTotal struct {
	Date       time.Time `json:"date"`
	TotalPrice float64   `json:"total_price"`
	ItemCount  int       `json:"item_count"`
}

// Destination tables for SaveDailyTotal.
const (
	TableBuyerTotals = "buyer_daily_totals"
	TableSalerTotals = "saler_daily_totals"
)

var (
	// ErrInvalidMonth indicates a month not in YYYY-MM form.
	ErrInvalidMonth = errors.New("profit: month must be YYYY-MM")

	// ErrUnknownTotalsTable guards the table switch in SaveDailyTotal.
	ErrUnknownTotalsTable = errors.New("profit: unknown totals table")
)
