package settings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/merchpoint/pos/internal/common"
	"github.com/merchpoint/pos/internal/pos/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE settings (
  id TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  pending_sync INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)
	return db
}

func TestGet_BeforeFirstSave(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Get(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSave_OverwritesInPlace(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	s := models.DefaultSettings()
	s.PendingSync = true
	require.NoError(t, r.Save(ctx, s))

	got, err := r.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Currency)
	assert.True(t, got.PendingSync)

	s.Currency = "EUR"
	s.TipJarEnabled = true
	require.NoError(t, r.Save(ctx, s))

	got, err = r.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)
	assert.True(t, got.TipJarEnabled)

	// still a single row
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM settings`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestClearPending(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	s := models.DefaultSettings()
	s.PendingSync = true
	require.NoError(t, r.Save(ctx, s))

	require.NoError(t, r.ClearPending(ctx))

	got, err := r.Get(ctx)
	require.NoError(t, err)
	assert.False(t, got.PendingSync)
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, models.DefaultSettings()))
	require.NoError(t, r.Clear(ctx))

	_, err := r.Get(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
