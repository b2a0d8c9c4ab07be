package products

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

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

const productColumns = `id, name, price, category, sizes, inventory, currency_prices, synced`

// CreateOrUpdate upserts a product by id. Sizes, inventory and currency
// overrides are stored as JSON columns.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, p *models.Product) error {
	sizes, err := json.Marshal(p.Sizes)
	if err != nil {
		return fmt.Errorf("failed to encode sizes: %w", err)
	}
	inventory, err := json.Marshal(p.Inventory)
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	prices, err := json.Marshal(p.CurrencyPrices)
	if err != nil {
		return fmt.Errorf("failed to encode currency prices: %w", err)
	}

	query := `INSERT INTO products (` + productColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name,
				price = excluded.price,
				category = excluded.category,
				sizes = excluded.sizes,
				inventory = excluded.inventory,
				currency_prices = excluded.currency_prices,
				synced = excluded.synced
	`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Price, p.Category, string(sizes), string(inventory), string(prices), p.Synced)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

func scanProduct(scan func(dest ...any) error) (*models.Product, error) {
	p := &models.Product{}
	var sizes, inventory, prices string
	if err := scan(&p.ID, &p.Name, &p.Price, &p.Category, &sizes, &inventory, &prices, &p.Synced); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(sizes), &p.Sizes); err != nil {
		return nil, fmt.Errorf("failed to decode sizes: %w", err)
	}
	if err := json.Unmarshal([]byte(inventory), &p.Inventory); err != nil {
		return nil, fmt.Errorf("failed to decode inventory: %w", err)
	}
	if err := json.Unmarshal([]byte(prices), &p.CurrencyPrices); err != nil {
		return nil, fmt.Errorf("failed to decode currency prices: %w", err)
	}
	return p, nil
}

// GetByID returns a single product.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id=?`, id)
	p, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return p, nil
}

// GetAll lists the whole catalog ordered by category then name.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()

	var result []models.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByID removes a product. It expects exactly one row to be affected.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrNotFound
	}
	return nil
}

// HasUnsynced reports whether the catalog has local edits awaiting sync.
func (r *SQLiteRepository) HasUnsynced(ctx context.Context) (bool, error) {
	var n int
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE synced=0`)
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("failed to count unsynced products: %w", err)
	}
	return n > 0, nil
}

// MarkAllSynced flips synced=true on every product.
func (r *SQLiteRepository) MarkAllSynced(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE products SET synced=1 WHERE synced=0`); err != nil {
		return fmt.Errorf("failed to mark products synced: %w", err)
	}
	return nil
}

// Clear removes every product.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	return nil
}
