package purchases

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lotColumns = `id, product_name, selling_price, unit_cost, pieces, stock, expire_date, purchase_date, created_at, updated_at`

// Repository persists purchase lots in the buyer_products table.
type Repository interface {
	List(ctx context.Context, req ListPurchaseLotsRequest) ([]PurchaseLot, int, error)
	Get(ctx context.Context, id int64) (PurchaseLot, error)
	FindLatestByName(ctx context.Context, name string) (PurchaseLot, error)
	Create(ctx context.Context, lot PurchaseLot) (PurchaseLot, error)
	Update(ctx context.Context, id int64, lot PurchaseLot) error
	Delete(ctx context.Context, id int64) error
	TotalPriceForDate(ctx context.Context, date time.Time) (float64, int, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, req ListPurchaseLotsRequest) ([]PurchaseLot, int, error) {
	query := `SELECT ` + lotColumns + ` FROM buyer_products WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM buyer_products WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if req.Search != "" {
		argCount++
		clause := ` AND product_name ILIKE $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, "%"+req.Search+"%")
	}
	if req.Date != nil {
		argCount++
		clause := ` AND purchase_date = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.Date)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY id`
	if req.PerPage > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, req.PerPage)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (req.Page - 1) * req.PerPage
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var lots []PurchaseLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, 0, err
		}
		lots = append(lots, lot)
	}
	return lots, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (PurchaseLot, error) {
	row := r.db.QueryRow(ctx, `SELECT `+lotColumns+` FROM buyer_products WHERE id = $1`, id)
	lot, err := scanLot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseLot{}, ErrNotFound
	}
	return lot, err
}

// FindLatestByName returns the most recently created lot whose name matches
// case-insensitively. Last-created wins; ties are impossible because id is
// monotonic. This is the deliberate denormalized join the sale flow uses.
func (r *repository) FindLatestByName(ctx context.Context, name string) (PurchaseLot, error) {
	row := r.db.QueryRow(ctx, `SELECT `+lotColumns+` FROM buyer_products WHERE lower(product_name) = lower($1) ORDER BY id DESC LIMIT 1`, name)
	lot, err := scanLot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseLot{}, ErrNotFound
	}
	return lot, err
}

func (r *repository) Create(ctx context.Context, lot PurchaseLot) (PurchaseLot, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO buyer_products (product_name, selling_price, unit_cost, pieces, stock, expire_date, purchase_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		lot.ProductName, lot.SellingPrice, lot.UnitCost, lot.Pieces, lot.Stock, lot.ExpireDate, lot.PurchaseDate, now, now).Scan(&lot.ID)
	if err != nil {
		return PurchaseLot{}, err
	}
	lot.CreatedAt = now
	lot.UpdatedAt = now
	return lot, nil
}

func (r *repository) Update(ctx context.Context, id int64, lot PurchaseLot) error {
	tag, err := r.db.Exec(ctx, `UPDATE buyer_products SET product_name = $1, selling_price = $2, unit_cost = $3, pieces = $4, stock = $5, expire_date = $6, purchase_date = $7, updated_at = $8 WHERE id = $9`,
		lot.ProductName, lot.SellingPrice, lot.UnitCost, lot.Pieces, lot.Stock, lot.ExpireDate, lot.PurchaseDate, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM buyer_products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TotalPriceForDate sums purchase value (unit_cost * pieces) for lots
// purchased on the given date.
func (r *repository) TotalPriceForDate(ctx context.Context, date time.Time) (float64, int, error) {
	var total float64
	var count int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(unit_cost * pieces), 0), COUNT(*) FROM buyer_products WHERE purchase_date = $1`, date).Scan(&total, &count)
	return total, count, err
}

func scanLot(row pgx.Row) (PurchaseLot, error) {
	var lot PurchaseLot
	err := row.Scan(&lot.ID, &lot.ProductName, &lot.SellingPrice, &lot.UnitCost, &lot.Pieces, &lot.Stock, &lot.ExpireDate, &lot.PurchaseDate, &lot.CreatedAt, &lot.UpdatedAt)
	return lot, err
}
