// Package remote talks to the three systems of record: the spreadsheet-backed
// sales ledger, the product catalog sheet and the relational settings backend.
// Calls are idempotent upserts (the ledger append tolerates duplicate sale
// ids), so the sync engine may safely retry any of them.
package remote

import (
	"context"

	"github.com/merchpoint/pos/internal/pos/models"
)

// Client is the transport surface consumed by the sync adapters.
type Client interface {
	// Ping probes connectivity. Any error means offline.
	Ping(ctx context.Context) error

	// AppendSales pushes a batch of sales to the remote ledger.
	AppendSales(ctx context.Context, ledgerID string, sales []models.Sale) error

	// OverwriteProducts replaces the remote catalog with the full local
	// collection (last-writer-wins).
	OverwriteProducts(ctx context.Context, catalogID string, products []models.Product) error

	// UpsertSettings pushes the full settings record to the settings backend.
	UpsertSettings(ctx context.Context, settings *models.UserSettings) error

	// Close releases transport resources.
	Close() error
}
