package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopkhata/shopkhata/internal/platform/db"
)

const entryColumns = `id, khata_name, name, single_piece_price, m_pieces, total_piece, o_pieces, given_dues, taken_dues, date, created_at, updated_at`

// Repository persists dues entries.
type Repository interface {
	ListAll(ctx context.Context) ([]LedgerEntry, error)
	ListByKhata(ctx context.Context, khata string) ([]LedgerEntry, error)
	ListKhatas(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id int64) (LedgerEntry, error)
	Create(ctx context.Context, entry LedgerEntry) (LedgerEntry, error)
	UpdateNameAndDate(ctx context.Context, id int64, name string, date time.Time) error
	Delete(ctx context.Context, id int64) error
	RenameKhata(ctx context.Context, oldName, newName string) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListAll(ctx context.Context) ([]LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+entryColumns+` FROM dues ORDER BY date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *repository) ListByKhata(ctx context.Context, khata string) ([]LedgerEntry, error) {
	if khata == "" || strings.EqualFold(khata, DefaultKhata) {
		return r.ListAll(ctx)
	}
	rows, err := r.pool.Query(ctx, `SELECT `+entryColumns+` FROM dues WHERE lower(khata_name) = lower($1) ORDER BY date, id`, khata)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *repository) ListKhatas(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT khata_name FROM dues ORDER BY khata_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var khatas []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		khatas = append(khatas, name)
	}
	return khatas, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (LedgerEntry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM dues WHERE id = $1`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return LedgerEntry{}, ErrNotFound
	}
	return entry, err
}

func (r *repository) Create(ctx context.Context, entry LedgerEntry) (LedgerEntry, error) {
	now := time.Now()
	err := r.pool.QueryRow(ctx, `INSERT INTO dues (khata_name, name, single_piece_price, m_pieces, total_piece, o_pieces, given_dues, taken_dues, date, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		entry.KhataName, entry.Name, entry.SinglePiecePrice, entry.MedicinePieces, entry.FeedPieces, entry.OtherPieces, entry.GivenDues, entry.TakenDues, entry.Date, now, now).Scan(&entry.ID)
	if err != nil {
		return LedgerEntry{}, err
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return entry, nil
}

// UpdateNameAndDate changes the only two fields the update flow may
// touch.
func (r *repository) UpdateNameAndDate(ctx context.Context, id int64, name string, date time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE dues SET name = $1, date = $2, updated_at = $3 WHERE id = $4`, name, date, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM dues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RenameKhata bulk-updates every entry of a khata inside one
// transaction. Validation happens against rows seen by the same
// transaction, so either all matching rows are renamed or none are.
func (r *repository) RenameKhata(ctx context.Context, oldName, newName string) (int64, error) {
	var affected int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var oldCount int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM dues WHERE lower(khata_name) = lower($1)`, oldName).Scan(&oldCount); err != nil {
			return err
		}
		if oldCount == 0 {
			return ErrKhataNotFound
		}

		var newCount int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM dues WHERE lower(khata_name) = lower($1)`, newName).Scan(&newCount); err != nil {
			return err
		}
		if newCount > 0 {
			return ErrKhataNameConflict
		}

		tag, err := tx.Exec(ctx, `UPDATE dues SET khata_name = $1, updated_at = $2 WHERE lower(khata_name) = lower($3)`, newName, time.Now(), oldName)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func collectEntries(rows pgx.Rows) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (LedgerEntry, error) {
	var entry LedgerEntry
	err := row.Scan(&entry.ID, &entry.KhataName, &entry.Name, &entry.SinglePiecePrice, &entry.MedicinePieces, &entry.FeedPieces, &entry.OtherPieces, &entry.GivenDues, &entry.TakenDues, &entry.Date, &entry.CreatedAt, &entry.UpdatedAt)
	return entry, err
}
