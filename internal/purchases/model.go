package purchases

import (
	"errors"
	"time"
)

// PurchaseLot is one purchase batch of a product with its own cost and
// remaining stock. Sales reference lots by product name, not by foreign
// key; deleting a lot never cascades to sales that already matched it.
type PurchaseLot struct {
	ID           int64      `json:"id" db:"id"`
	ProductName  string     `json:"product_name" db:"product_name"`
	SellingPrice float64    `json:"selling_price" db:"selling_price"`
	UnitCost     float64    `json:"unit_cost" db:"unit_cost"`
	Pieces       int64      `json:"pieces" db:"pieces"`
	Stock        int64      `json:"stock" db:"stock"`
	ExpireDate   *time.Time `json:"expire_date,omitempty" db:"expire_date"`
	PurchaseDate time.Time  `json:"purchase_date" db:"purchase_date"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// ErrNotFound indicates a missing purchase lot.
var ErrNotFound = errors.New("purchases: lot not found")

// ErrInvalidInput wraps request-level validation failures.
var ErrInvalidInput = errors.New("purchases: invalid input")

// ErrStockExceedsPieces indicates stock > pieces, which is never valid.
var ErrStockExceedsPieces = errors.New("purchases: stock cannot exceed pieces")

// ErrNegativeCount indicates a negative stock or piece count.
var ErrNegativeCount = errors.New("purchases: counts must be >= 0")
