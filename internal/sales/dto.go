package sales

import "time"

type CreateSaleRequest struct {
	ProductName  string    `json:"product_name" validate:"required,max=200"`
	ProductPlace *string   `json:"product_place,omitempty" validate:"omitempty,max=200"`
	UnitPrice    float64   `json:"unit_price" validate:"gte=0"`
	Quantity     int64     `json:"quantity" validate:"required,gt=0"`
	SaleDate     time.Time `json:"sale_date" validate:"required"`
}

type UpdateSaleRequest struct {
	ProductName  *string    `json:"product_name,omitempty" validate:"omitempty,max=200"`
	ProductPlace *string    `json:"product_place,omitempty" validate:"omitempty,max=200"`
	UnitPrice    *float64   `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	Quantity     *int64     `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	LineTotal    *float64   `json:"line_total,omitempty" validate:"omitempty,gte=0"`
	SaleDate     *time.Time `json:"sale_date,omitempty"`
}

type ListSalesRequest struct {
	Search  string     `json:"search"`
	Date    *time.Time `json:"date,omitempty"`
	Page    int        `json:"page" validate:"gte=0"`
	PerPage int        `json:"per_page" validate:"gte=0,lte=1000"`
}
