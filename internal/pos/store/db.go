// Package store opens the local SQLite database, applies migrations and
// bundles the per-collection repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/merchpoint/pos/internal/pos/repositories/closeouts"
	"github.com/merchpoint/pos/internal/pos/repositories/metadata"
	"github.com/merchpoint/pos/internal/pos/repositories/products"
	"github.com/merchpoint/pos/internal/pos/repositories/sales"
	"github.com/merchpoint/pos/internal/pos/repositories/settings"
	"github.com/merchpoint/pos/internal/pos/store/migrations"
	"github.com/pressly/goose/v3"
)

// Repositories bundles every collection of the local store. It is the single
// source of truth while offline; the sync queue is only a cache of the
// dirty-flags persisted here.
type Repositories struct {
	Sales     sales.Repository
	Products  products.Repository
	Settings  settings.Repository
	CloseOuts closeouts.Repository
	Metadata  metadata.Repository

	db *sql.DB
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (or creates) the database at dsn, migrates it and
// returns the repository bundle.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// single-user client; one connection keeps sqlite writes serialized and
	// makes in-memory DSNs safe with the pool
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := &Repositories{
		Sales:     sales.NewSQLiteRepository(db),
		Products:  products.NewSQLiteRepository(db),
		Settings:  settings.NewSQLiteRepository(db),
		CloseOuts: closeouts.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
		db:        db,
	}
	return repos, nil
}

// DB exposes the underlying handle for transactional helpers and tests.
func (r *Repositories) DB() *sql.DB { return r.db }

// Close releases the database handle.
func (r *Repositories) Close() error { return r.db.Close() }
