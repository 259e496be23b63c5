package sales

import (
	"errors"
	"time"
)

// SaleRecord is a sold line persisted in the saler_products table. It
// references its originating purchase lot by product name equality only;
// the lot id is not stored.
type SaleRecord struct {
	ID           int64     `json:"id" db:"id"`
	Ref          string    `json:"ref" db:"ref"`
	ProductName  string    `json:"product_name" db:"product_name"`
	ProductPlace *string   `json:"product_place,omitempty" db:"product_place"`
	UnitPrice    float64   `json:"unit_price" db:"unit_price"`
	LineTotal    float64   `json:"line_total" db:"line_total"`
	Quantity     int64     `json:"quantity" db:"quantity"`
	SaleDate     time.Time `json:"sale_date" db:"sale_date"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SaleResult is returned by RecordSale so callers receive the units-sold
// hand-off explicitly instead of reading ambient state.
type SaleResult struct {
	Sale       SaleRecord `json:"sale"`
	UnitsSold  int64      `json:"units_sold"`
	UnitProfit float64    `json:"unit_profit"`
}

// Business rule errors. All of them fire before any mutation; the sale
// and the stock decrement are all-or-nothing.
var (
	ErrNoMatchingLot     = errors.New("sales: no purchase lot matches product name")
	ErrPriceBelowCost    = errors.New("sales: unit price below purchase cost")
	ErrInsufficientStock = errors.New("sales: quantity exceeds remaining stock")
)

// ErrNotFound indicates a missing sale record.
var ErrNotFound = errors.New("sales: record not found")

// ErrInvalidInput wraps request-level validation failures.
var ErrInvalidInput = errors.New("sales: invalid input")
