package store

import (
	"context"
	"testing"

	"github.com/merchpoint/pos/internal/pos/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestInitDatabase_MigratesAndWires(t *testing.T) {
	ctx := context.Background()

	repos, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	// every table exists and every repo is usable
	require.NoError(t, repos.Products.CreateOrUpdate(ctx, &models.Product{ID: "p1", Name: "Tour Tee", Price: 25}))
	require.NoError(t, repos.Settings.Save(ctx, models.DefaultSettings()))
	require.NoError(t, repos.Metadata.Set(ctx, "sales_ledger_id", "ledger-1"))

	n, err := repos.Sales.CountUnsynced(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	all, err := repos.CloseOuts.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
