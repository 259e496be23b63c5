package profit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	UpsertLedgerLine(ctx context.Context, line LedgerLine) error
	SumLedgerForDate(ctx context.Context, date time.Time) (float64, error)
	SaveDailySnapshot(ctx context.Context, rec DailyProfitRecord) (DailyProfitRecord, error)
	ListDailySnapshots(ctx context.Context) ([]DailyProfitRecord, error)
	SumDailyForMonth(ctx context.Context, from, to time.Time) (float64, int, int, error)
	SaveMonthlySnapshot(ctx context.Context, rec MonthlyProfitRecord) (MonthlyProfitRecord, error)
	ListMonthlySnapshots(ctx context.Context) ([]MonthlyProfitRecord, error)
	SaveDailyTotal(ctx context.Context, table string, total DailyTotal) error
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) UpsertLedgerLine(ctx context.Context, line LedgerLine) error {
	const q = `
INSERT INTO profit_ledger (sale_id, product_name, profit_date, line_profit)
VALUES ($1, $2, $3, $4)
ON CONFLICT (sale_id, product_name) DO UPDATE
SET profit_date = EXCLUDED.profit_date,
    line_profit = EXCLUDED.line_profit`
	_, err := r.pool.Exec(ctx, q, line.SaleID, line.ProductName, line.ProfitDate, line.LineProfit)
	return err
}

func (r *pgRepository) SumLedgerForDate(ctx context.Context, date time.Time) (float64, error) {
	const q = `
SELECT COALESCE(SUM(line_profit), 0)
FROM profit_ledger
WHERE profit_date = $1`
	var sum float64
	if err := r.pool.QueryRow(ctx, q, date).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *pgRepository) SaveDailySnapshot(ctx context.Context, rec DailyProfitRecord) (DailyProfitRecord, error) {
	const q = `
INSERT INTO daily_profit (profit_date, profit_amount, buyer_item_count, saler_item_count)
VALUES ($1, $2, $3, $4)
ON CONFLICT (profit_date) DO UPDATE
SET profit_amount = EXCLUDED.profit_amount,
    buyer_item_count = EXCLUDED.buyer_item_count,
    saler_item_count = EXCLUDED.saler_item_count
RETURNING id, profit_date, profit_amount, buyer_item_count, saler_item_count, created_at`
	var out DailyProfitRecord
	err := r.pool.QueryRow(ctx, q, rec.Date, rec.ProfitAmount, rec.BuyerItems, rec.SalerItems).
		Scan(&out.ID, &out.Date, &out.ProfitAmount, &out.BuyerItems, &out.SalerItems, &out.CreatedAt)
	if err != nil {
		return DailyProfitRecord{}, err
	}
	return out, nil
}

func (r *pgRepository) ListDailySnapshots(ctx context.Context) ([]DailyProfitRecord, error) {
	const q = `
SELECT id, profit_date, profit_amount, buyer_item_count, saler_item_count, created_at
FROM daily_profit
ORDER BY profit_date DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []DailyProfitRecord
	for rows.Next() {
		var rec DailyProfitRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.ProfitAmount, &rec.BuyerItems, &rec.SalerItems, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *pgRepository) SumDailyForMonth(ctx context.Context, from, to time.Time) (float64, int, int, error) {
	const q = `
SELECT COALESCE(SUM(profit_amount), 0),
       COALESCE(SUM(buyer_item_count), 0),
       COALESCE(SUM(saler_item_count), 0)
FROM daily_profit
WHERE profit_date >= $1 AND profit_date < $2`
	var sum float64
	var buyer, saler int
	if err := r.pool.QueryRow(ctx, q, from, to).Scan(&sum, &buyer, &saler); err != nil {
		return 0, 0, 0, err
	}
	return sum, buyer, saler, nil
}

func (r *pgRepository) SaveMonthlySnapshot(ctx context.Context, rec MonthlyProfitRecord) (MonthlyProfitRecord, error) {
	const q = `
INSERT INTO monthly_profit (month, profit_amount, buyer_item_count, saler_item_count)
VALUES ($1, $2, $3, $4)
ON CONFLICT (month) DO UPDATE
SET profit_amount = EXCLUDED.profit_amount,
    buyer_item_count = EXCLUDED.buyer_item_count,
    saler_item_count = EXCLUDED.saler_item_count
RETURNING id, month, profit_amount, buyer_item_count, saler_item_count, created_at`
	var out MonthlyProfitRecord
	err := r.pool.QueryRow(ctx, q, rec.Month, rec.ProfitAmount, rec.BuyerItems, rec.SalerItems).
		Scan(&out.ID, &out.Month, &out.ProfitAmount, &out.BuyerItems, &out.SalerItems, &out.CreatedAt)
	if err != nil {
		return MonthlyProfitRecord{}, err
	}
	return out, nil
}

func (r *pgRepository) ListMonthlySnapshots(ctx context.Context) ([]MonthlyProfitRecord, error) {
	const q = `
SELECT id, month, profit_amount, buyer_item_count, saler_item_count, created_at
FROM monthly_profit
ORDER BY month DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []MonthlyProfitRecord
	for rows.Next() {
		var rec MonthlyProfitRecord
		if err := rows.Scan(&rec.ID, &rec.Month, &rec.ProfitAmount, &rec.BuyerItems, &rec.SalerItems, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// SaveDailyTotal writes one side's pre-shaped total row. table is one of
// TableBuyerTotals or TableSalerTotals; anything else is rejected to keep
// the identifier out of caller control.
func (r *pgRepository) SaveDailyTotal(ctx context.Context, table string, total DailyTotal) error {
	var q string
	switch table {
	case TableBuyerTotals:
		q = `
INSERT INTO buyer_daily_totals (total_date, total_price, item_count)
VALUES ($1, $2, $3)
ON CONFLICT (total_date) DO UPDATE
SET total_price = EXCLUDED.total_price, item_count = EXCLUDED.item_count`
	case TableSalerTotals:
		q = `
INSERT INTO saler_daily_totals (total_date, total_price, item_count)
VALUES ($1, $2, $3)
ON CONFLICT (total_date) DO UPDATE
SET total_price = EXCLUDED.total_price, item_count = EXCLUDED.item_count`
	default:
		return ErrUnknownTotalsTable
	}
	_, err := r.pool.Exec(ctx, q, total.Date, total.TotalPrice, total.ItemCount)
	return err
}
