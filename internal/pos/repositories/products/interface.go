package products

import (
	"context"

	"github.com/merchpoint/pos/internal/dbx"
	"github.com/merchpoint/pos/internal/pos/models"
)

// Repository describes storage operations for the product catalog.
type Repository interface {
	// CreateOrUpdate inserts a product or updates an existing one by ID.
	CreateOrUpdate(ctx context.Context, product *models.Product) error

	// GetByID returns a product by its identifier.
	GetByID(ctx context.Context, id string) (*models.Product, error)

	// GetAll returns the entire catalog ordered by category then name.
	// The products sync is a full overwrite, so callers always push the
	// whole collection, never a delta.
	GetAll(ctx context.Context) ([]models.Product, error)

	// DeleteByID removes a product immediately. Remote deletion is implied
	// by the next full catalog overwrite.
	DeleteByID(ctx context.Context, id string) error

	// HasUnsynced reports whether any product carries synced=false.
	HasUnsynced(ctx context.Context) (bool, error)

	// MarkAllSynced flips synced=true on the whole catalog.
	MarkAllSynced(ctx context.Context) error

	// Clear removes every product.
	Clear(ctx context.Context) error

	// WithTx returns a copy of the repository bound to the given
	// transactional handle, so multi-repo writes can share one transaction.
	WithTx(tx dbx.DBTX) Repository
}
