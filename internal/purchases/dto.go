package purchases

import "time"

type CreatePurchaseLotRequest struct {
	ProductName  string     `json:"product_name" validate:"required,max=200"`
	SellingPrice float64    `json:"selling_price" validate:"gte=0"`
	UnitCost     float64    `json:"unit_cost" validate:"gte=0"`
	Pieces       int64      `json:"pieces" validate:"required,gt=0"`
	Stock        *int64     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ExpireDate   *time.Time `json:"expire_date,omitempty"`
	PurchaseDate time.Time  `json:"purchase_date" validate:"required"`
}

type UpdatePurchaseLotRequest struct {
	ProductName  *string    `json:"product_name,omitempty" validate:"omitempty,max=200"`
	SellingPrice *float64   `json:"selling_price,omitempty" validate:"omitempty,gte=0"`
	UnitCost     *float64   `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
	Pieces       *int64     `json:"pieces,omitempty" validate:"omitempty,gt=0"`
	Stock        *int64     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ExpireDate   *time.Time `json:"expire_date,omitempty"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty"`
}

type ListPurchaseLotsRequest struct {
	Search  string     `json:"search"`
	Date    *time.Time `json:"date,omitempty"`
	Page    int        `json:"page" validate:"gte=0"`
	PerPage int        `json:"per_page" validate:"gte=0,lte=1000"`
}
