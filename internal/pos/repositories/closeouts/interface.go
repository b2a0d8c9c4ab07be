package closeouts

import (
	"context"

	"github.com/merchpoint/pos/internal/pos/models"
)

// Repository stores close-out aggregates. A close-out is append-only: after
// Create, only the operator-entered details may change.
type Repository interface {
	// Create persists the close-out and its sale-id references atomically.
	Create(ctx context.Context, c *models.CloseOut) error

	// GetByID returns a close-out by its identifier.
	GetByID(ctx context.Context, id string) (*models.CloseOut, error)

	// GetAll returns every close-out, newest first.
	GetAll(ctx context.Context) ([]models.CloseOut, error)

	// UpdateDetails sets the operator-entered metadata on an existing
	// close-out. The aggregate figures are immutable.
	UpdateDetails(ctx context.Context, id, name, location, notes string, actualCash float64) error
}
