package sales

import (
	"context"

	"github.com/merchpoint/pos/internal/dbx"
	"github.com/merchpoint/pos/internal/pos/models"
)

// Repository describes storage operations for Sale records.
// Implementations are backed by the local SQLite database.
type Repository interface {
	// CreateOrUpdate inserts a sale or updates an existing one by ID.
	CreateOrUpdate(ctx context.Context, sale *models.Sale) error

	// GetByID returns a sale by its identifier.
	GetByID(ctx context.Context, id string) (*models.Sale, error)

	// GetAll returns every sale in the store, oldest first.
	GetAll(ctx context.Context) ([]models.Sale, error)

	// GetUnsynced returns sales with synced=false, oldest first.
	GetUnsynced(ctx context.Context) ([]models.Sale, error)

	// GetUnclosed returns sales not yet referenced by any close-out,
	// oldest first. These form the span the next close-out aggregates.
	GetUnclosed(ctx context.Context) ([]models.Sale, error)

	// MarkSynced flips synced=true on the given sale ids.
	MarkSynced(ctx context.Context, ids []string) error

	// CountUnsynced returns the number of sales with synced=false.
	CountUnsynced(ctx context.Context) (int, error)

	// DeleteClosedOutSynced removes sales that are both synced and
	// referenced by a close-out, returning the number removed. Sales
	// missing either condition stay untouched.
	DeleteClosedOutSynced(ctx context.Context) (int64, error)

	// Clear removes every sale.
	Clear(ctx context.Context) error

	// WithTx returns a copy of the repository bound to the given
	// transactional handle, so multi-repo writes can share one transaction.
	WithTx(tx dbx.DBTX) Repository
}
