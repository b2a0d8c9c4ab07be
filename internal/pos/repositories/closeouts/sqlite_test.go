package closeouts

import (
	"context"
	"database/sql"
	"testing"
	"time"

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
CREATE TABLE closeouts (
  id TEXT PRIMARY KEY,
  created_at TIMESTAMP NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  actual_cash REAL NOT NULL DEFAULT 0,
  summary TEXT NOT NULL
);
CREATE TABLE closeout_sales (
  closeout_id TEXT NOT NULL,
  sale_id TEXT NOT NULL,
  PRIMARY KEY (closeout_id, sale_id)
);
`)
	require.NoError(t, err)
	return db
}

func sampleCloseOut(id string) *models.CloseOut {
	return models.BuildCloseOut(id, time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC), []models.Sale{
		{
			ID:            "s1",
			Items:         []models.LineItem{{ProductID: "p1", Name: "Tour Tee", Quantity: 1, UnitPrice: 25}},
			Collected:     25,
			PaymentMethod: models.PaymentCash,
		},
		{
			ID:            "s2",
			Items:         []models.LineItem{{ProductID: "p2", Name: "Poster", Quantity: 2, UnitPrice: 10}},
			Collected:     20,
			PaymentMethod: models.PaymentCard,
		},
	})
}

func TestCreate_WritesRowAndReferences(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, sampleCloseOut("c1")))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.SaleCount)
	assert.Equal(t, 45.0, got.Revenue)
	assert.Equal(t, 25.0, got.ExpectedCash)
	assert.Equal(t, []string{"s1", "s2"}, got.SaleIDs)

	var refs int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM closeout_sales WHERE closeout_id='c1'`).Scan(&refs))
	assert.Equal(t, 2, refs)
}

func TestCreate_DuplicateRollsBackReferences(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, sampleCloseOut("c1")))
	require.Error(t, r.Create(ctx, sampleCloseOut("c1")))

	// the failed insert must not leave partial references behind
	var refs int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM closeout_sales`).Scan(&refs))
	assert.Equal(t, 2, refs)
}

func TestGetAll_NewestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	older := sampleCloseOut("c1")
	newer := models.BuildCloseOut("c2", older.CreatedAt.Add(time.Hour), nil)
	require.NoError(t, r.Create(ctx, older))
	require.NoError(t, r.Create(ctx, newer))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "c2", all[0].ID)
	assert.Equal(t, "c1", all[1].ID)
}

func TestUpdateDetails(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, sampleCloseOut("c1")))
	require.NoError(t, r.UpdateDetails(ctx, "c1", "Denver show", "Mission Ballroom", "rainy", 24.50))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Denver show", got.Name)
	assert.Equal(t, "Mission Ballroom", got.Location)
	assert.Equal(t, "rainy", got.Notes)
	assert.Equal(t, 24.50, got.ActualCash)
	// aggregates untouched
	assert.Equal(t, 45.0, got.Revenue)

	assert.ErrorIs(t, r.UpdateDetails(ctx, "missing", "", "", "", 0), common.ErrNotFound)
}
