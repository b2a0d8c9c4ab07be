package sales

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/merchpoint/pos/internal/common"
	"github.com/merchpoint/pos/internal/dbx"
	"github.com/merchpoint/pos/internal/pos/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *SQLiteRepository) WithTx(tx dbx.DBTX) Repository {
	return &SQLiteRepository{db: tx}
}

const saleColumns = `id, recorded_at, items, total, collected, payment_method, discount, tip, synced`

// CreateOrUpdate upserts a sale by id. Line items are stored as a JSON column.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, s *models.Sale) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("failed to encode line items: %w", err)
	}

	query := `INSERT INTO sales (` + saleColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET recorded_at = excluded.recorded_at,
				items = excluded.items,
				total = excluded.total,
				collected = excluded.collected,
				payment_method = excluded.payment_method,
				discount = excluded.discount,
				tip = excluded.tip,
				synced = excluded.synced
	`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.RecordedAt, string(items), s.Total, s.Collected, string(s.PaymentMethod), s.Discount, s.Tip, s.Synced)
	if err != nil {
		return fmt.Errorf("failed to upsert sale: %w", err)
	}
	return nil
}

func scanSale(scan func(dest ...any) error) (*models.Sale, error) {
	s := &models.Sale{}
	var items, method string
	if err := scan(&s.ID, &s.RecordedAt, &items, &s.Total, &s.Collected, &method, &s.Discount, &s.Tip, &s.Synced); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &s.Items); err != nil {
		return nil, fmt.Errorf("failed to decode line items: %w", err)
	}
	s.PaymentMethod = models.PaymentMethod(method)
	return s, nil
}

func (r *SQLiteRepository) selectSales(ctx context.Context, query string, args ...any) ([]models.Sale, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select sales: %w", err)
	}
	defer rows.Close()

	var result []models.Sale
	for rows.Next() {
		s, err := scanSale(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a single sale.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Sale, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+saleColumns+` FROM sales WHERE id=?`, id)
	s, err := scanSale(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return s, nil
}

// GetAll lists every sale, oldest first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Sale, error) {
	return r.selectSales(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY recorded_at`)
}

// GetUnsynced lists sales still awaiting sync, oldest first.
func (r *SQLiteRepository) GetUnsynced(ctx context.Context) ([]models.Sale, error) {
	return r.selectSales(ctx, `SELECT `+saleColumns+` FROM sales WHERE synced=0 ORDER BY recorded_at`)
}

// GetUnclosed lists sales not yet aggregated into any close-out.
func (r *SQLiteRepository) GetUnclosed(ctx context.Context) ([]models.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales
			WHERE id NOT IN (SELECT sale_id FROM closeout_sales)
			ORDER BY recorded_at`
	return r.selectSales(ctx, query)
}

// MarkSynced flips synced=true on the given ids in one statement.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := r.db.ExecContext(ctx, `UPDATE sales SET synced=1 WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to mark sales synced: %w", err)
	}
	return nil
}

// CountUnsynced returns how many sales still carry synced=false.
func (r *SQLiteRepository) CountUnsynced(ctx context.Context) (int, error) {
	var n int
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales WHERE synced=0`)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unsynced sales: %w", err)
	}
	return n, nil
}

// DeleteClosedOutSynced removes sales that are synced AND referenced by a
// close-out. Synced sales not yet closed out stay, since a future close-out
// still needs them.
func (r *SQLiteRepository) DeleteClosedOutSynced(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sales WHERE synced=1 AND id IN (SELECT sale_id FROM closeout_sales)`)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up sales: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every sale.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sales`); err != nil {
		return fmt.Errorf("failed to clear sales: %w", err)
	}
	return nil
}
