package metadata

import "context"

// Keys used by the sync engine. Their absence is a configuration error, not
// a crash: adapters surface it as a permanent "not found" error.
const (
	KeySalesLedgerID    = "sales_ledger_id"
	KeyProductCatalogID = "product_catalog_id"
)

// Repository is a small persistent key/value store for client-side
// configuration such as the remote ledger and catalog identifiers.
type Repository interface {
	// Get returns the value for key, or common.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set upserts the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
