package sales

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopkhata/shopkhata/internal/platform/db"
	"github.com/shopkhata/shopkhata/internal/purchases"
)

const saleColumns = `id, ref, product_name, product_place, unit_price, line_total, quantity, sale_date, created_at, updated_at`

// Repository persists sale records and runs the reconciliation writes.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context, req ListSalesRequest) ([]SaleRecord, int, error)
	ListByDate(ctx context.Context, date time.Time) ([]SaleRecord, error)
	Get(ctx context.Context, id int64) (SaleRecord, error)
	Update(ctx context.Context, id int64, sale SaleRecord) error
	Delete(ctx context.Context, id int64) error
	TotalPriceForDate(ctx context.Context, date time.Time) (float64, int, error)
}

// TxRepository exposes the operations RecordSale performs inside one
// transaction: lot lookup with a row lock, conditional stock decrement,
// sale insert.
type TxRepository interface {
	FindLatestLotByNameForUpdate(ctx context.Context, name string) (purchases.PurchaseLot, error)
	DecrementLotStock(ctx context.Context, lotID, qty int64) (bool, error)
	InsertSale(ctx context.Context, sale SaleRecord) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps the callback in a repeatable-read transaction.
func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (t *txRepo) FindLatestLotByNameForUpdate(ctx context.Context, name string) (purchases.PurchaseLot, error) {
	row := t.tx.QueryRow(ctx, `SELECT id, product_name, selling_price, unit_cost, pieces, stock, expire_date, purchase_date, created_at, updated_at
FROM buyer_products WHERE lower(product_name) = lower($1) ORDER BY id DESC LIMIT 1 FOR UPDATE`, name)
	var lot purchases.PurchaseLot
	err := row.Scan(&lot.ID, &lot.ProductName, &lot.SellingPrice, &lot.UnitCost, &lot.Pieces, &lot.Stock, &lot.ExpireDate, &lot.PurchaseDate, &lot.CreatedAt, &lot.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return purchases.PurchaseLot{}, purchases.ErrNotFound
	}
	return lot, err
}

// DecrementLotStock performs the single atomic conditional update; the
// stock >= qty guard keeps concurrent sales from driving stock negative.
func (t *txRepo) DecrementLotStock(ctx context.Context, lotID, qty int64) (bool, error) {
	tag, err := t.tx.Exec(ctx, `UPDATE buyer_products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`, lotID, qty)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (t *txRepo) InsertSale(ctx context.Context, sale SaleRecord) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `INSERT INTO saler_products (ref, product_name, product_place, unit_price, line_total, quantity, sale_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		sale.Ref, sale.ProductName, sale.ProductPlace, sale.UnitPrice, sale.LineTotal, sale.Quantity, sale.SaleDate, sale.CreatedAt, sale.UpdatedAt).Scan(&id)
	return id, err
}

func (r *repository) List(ctx context.Context, req ListSalesRequest) ([]SaleRecord, int, error) {
	query := `SELECT ` + saleColumns + ` FROM saler_products WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM saler_products WHERE 1=1`
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
		clause := ` AND sale_date = $` + strconv.Itoa(argCount)
		query += clause
		countQuery += clause
		args = append(args, *req.Date)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
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

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sales []SaleRecord
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		sales = append(sales, sale)
	}
	return sales, total, rows.Err()
}

func (r *repository) ListByDate(ctx context.Context, date time.Time) ([]SaleRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+saleColumns+` FROM saler_products WHERE sale_date = $1 ORDER BY id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []SaleRecord
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (SaleRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM saler_products WHERE id = $1`, id)
	sale, err := scanSale(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return SaleRecord{}, ErrNotFound
	}
	return sale, err
}

func (r *repository) Update(ctx context.Context, id int64, sale SaleRecord) error {
	tag, err := r.pool.Exec(ctx, `UPDATE saler_products SET product_name = $1, product_place = $2, unit_price = $3, line_total = $4, quantity = $5, sale_date = $6, updated_at = $7 WHERE id = $8`,
		sale.ProductName, sale.ProductPlace, sale.UnitPrice, sale.LineTotal, sale.Quantity, sale.SaleDate, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM saler_products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TotalPriceForDate sums line totals of sales on the given date.
func (r *repository) TotalPriceForDate(ctx context.Context, date time.Time) (float64, int, error) {
	var total float64
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(line_total), 0), COUNT(*) FROM saler_products WHERE sale_date = $1`, date).Scan(&total, &count)
	return total, count, err
}

func scanSale(row pgx.Row) (SaleRecord, error) {
	var sale SaleRecord
	err := row.Scan(&sale.ID, &sale.Ref, &sale.ProductName, &sale.ProductPlace, &sale.UnitPrice, &sale.LineTotal, &sale.Quantity, &sale.SaleDate, &sale.CreatedAt, &sale.UpdatedAt)
	return sale, err
}
