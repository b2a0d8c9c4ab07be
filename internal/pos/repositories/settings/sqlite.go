package settings

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
// The whole record is stored as one JSON payload; pending_sync is mirrored
// into its own column so the sync engine can query the dirty flag cheaply.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns the single settings record.
func (r *SQLiteRepository) Get(ctx context.Context) (*models.UserSettings, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT payload, pending_sync FROM settings WHERE id=?`, models.SettingsID)

	var payload string
	var pending bool
	if err := row.Scan(&payload, &pending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}

	s := &models.UserSettings{}
	if err := json.Unmarshal([]byte(payload), s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	s.PendingSync = pending
	return s, nil
}

// Save upserts the record. Settings are overwritten in place, never merged.
func (r *SQLiteRepository) Save(ctx context.Context, s *models.UserSettings) error {
	s.ID = models.SettingsID
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	query := `INSERT INTO settings (id, payload, pending_sync) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET payload = excluded.payload,
				pending_sync = excluded.pending_sync`
	if _, err := r.db.ExecContext(ctx, query, s.ID, string(payload), s.PendingSync); err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}
	return nil
}

// ClearPending marks the record as synced.
func (r *SQLiteRepository) ClearPending(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE settings SET pending_sync=0 WHERE id=?`, models.SettingsID); err != nil {
		return fmt.Errorf("failed to clear pending flag: %w", err)
	}
	return nil
}

// Clear removes the record.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM settings`); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	return nil
}
