package closeouts

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

// SQLiteRepository implements Repository over *sql.DB. Unlike the other
// repos it needs the concrete handle, because Create writes the close-out
// row and its sale references in one transaction.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create stores the aggregate JSON plus one closeout_sales row per sale id.
func (r *SQLiteRepository) Create(ctx context.Context, c *models.CloseOut) error {
	summary, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode close-out: %w", err)
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO closeouts (id, created_at, name, location, notes, actual_cash, summary)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.CreatedAt, c.Name, c.Location, c.Notes, c.ActualCash, string(summary))
		if err != nil {
			return fmt.Errorf("failed to insert close-out: %w", err)
		}

		for _, saleID := range c.SaleIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO closeout_sales (closeout_id, sale_id) VALUES (?, ?)`, c.ID, saleID)
			if err != nil {
				return fmt.Errorf("failed to reference sale %s: %w", saleID, err)
			}
		}
		return nil
	})
}

func scanCloseOut(scan func(dest ...any) error) (*models.CloseOut, error) {
	var summary string
	c := &models.CloseOut{}
	var name, location, notes string
	var actualCash float64
	if err := scan(&c.ID, &c.CreatedAt, &name, &location, &notes, &actualCash, &summary); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(summary), c); err != nil {
		return nil, fmt.Errorf("failed to decode close-out: %w", err)
	}
	// operator-entered fields live in their own columns and win over the
	// snapshot taken at creation time
	c.Name, c.Location, c.Notes, c.ActualCash = name, location, notes, actualCash
	return c, nil
}

const closeOutColumns = `id, created_at, name, location, notes, actual_cash, summary`

// GetByID returns a single close-out.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.CloseOut, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+closeOutColumns+` FROM closeouts WHERE id=?`, id)
	c, err := scanCloseOut(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return c, nil
}

// GetAll lists close-outs newest first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.CloseOut, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+closeOutColumns+` FROM closeouts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select close-outs: %w", err)
	}
	defer rows.Close()

	var result []models.CloseOut
	for rows.Next() {
		c, err := scanCloseOut(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateDetails sets operator metadata. It expects exactly one row affected.
func (r *SQLiteRepository) UpdateDetails(ctx context.Context, id, name, location, notes string, actualCash float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE closeouts SET name=?, location=?, notes=?, actual_cash=? WHERE id=?`,
		name, location, notes, actualCash, id)
	if err != nil {
		return fmt.Errorf("failed to update close-out: %w", err)
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
