package settings

import (
	"context"

	"github.com/merchpoint/pos/internal/pos/models"
)

// Repository stores the single UserSettings record.
type Repository interface {
	// Get returns the settings record, or common.ErrNotFound before first save.
	Get(ctx context.Context) (*models.UserSettings, error)

	// Save overwrites the record in place, including its PendingSync flag.
	Save(ctx context.Context, s *models.UserSettings) error

	// ClearPending flips pendingSync=false after a successful push.
	ClearPending(ctx context.Context) error

	// Clear removes the record (sign-out).
	Clear(ctx context.Context) error
}
