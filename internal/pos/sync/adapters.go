package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/merchpoint/pos/internal/common"
	"github.com/merchpoint/pos/internal/pos/repositories/metadata"
)

// dispatch routes a task to its adapter. The switch is exhaustive over the
// TaskType variant; an unknown tag is an error, never a silent no-op.
func (e *Engine) dispatch(ctx context.Context, t TaskType) error {
	switch t {
	case TaskSales:
		return e.syncSales(ctx)
	case TaskProducts:
		return e.syncProducts(ctx)
	case TaskSettings:
		return e.syncSettings(ctx)
	default:
		return fmt.Errorf("unhandled sync task type %d", t)
	}
}

// syncSales pushes every unsynced sale in one batch append to the remote
// ledger, flips their synced flags, then deletes only the sales that are
// both synced and already referenced by a close-out. The remote append is
// idempotent by sale id, so a crash between the remote success and the
// local flag update reprocesses harmlessly.
func (e *Engine) syncSales(ctx context.Context) error {
	unsynced, err := e.sales.GetUnsynced(ctx)
	if err != nil {
		return fmt.Errorf("failed to read unsynced sales: %w", err)
	}
	if len(unsynced) == 0 {
		e.status.Apply(Patch{PendingSales: ptr(0)})
		return nil
	}

	ledgerID, err := e.meta.Get(ctx, metadata.KeySalesLedgerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("sales ledger id: %w", common.ErrNotConfigured)
		}
		return fmt.Errorf("failed to read ledger id: %w", err)
	}

	if err := e.remote.AppendSales(ctx, ledgerID, unsynced); err != nil {
		return err
	}

	ids := make([]string, len(unsynced))
	for i, s := range unsynced {
		ids[i] = s.ID
	}
	if err := e.sales.MarkSynced(ctx, ids); err != nil {
		// the dirty-flags stay put, so the next attempt retries; the remote
		// append tolerates the duplicate submission
		return fmt.Errorf("failed to mark sales synced: %w", err)
	}

	removed, err := e.sales.DeleteClosedOutSynced(ctx)
	if err != nil {
		return fmt.Errorf("failed to clean up closed-out sales: %w", err)
	}
	if removed > 0 {
		e.log.Info(ctx, "cleaned up closed-out sales", "removed", removed)
	}

	e.status.Apply(Patch{PendingSales: ptr(0)})
	return nil
}

// syncProducts performs a full overwrite of the remote catalog with the
// entire local collection. Last-writer-wins is deliberate: product
// management is single-operator, so local edits always take priority over
// remote edits captured earlier.
func (e *Engine) syncProducts(ctx context.Context) error {
	catalog, err := e.products.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	catalogID, err := e.meta.Get(ctx, metadata.KeyProductCatalogID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("product catalog id: %w", common.ErrNotConfigured)
		}
		return fmt.Errorf("failed to read catalog id: %w", err)
	}

	if err := e.remote.OverwriteProducts(ctx, catalogID, catalog); err != nil {
		return err
	}

	if err := e.products.MarkAllSynced(ctx); err != nil {
		return fmt.Errorf("failed to mark products synced: %w", err)
	}

	e.status.Apply(Patch{PendingProducts: ptr(false)})
	return nil
}

// syncSettings pushes the single settings record when its pending flag is
// set, then clears the flag locally.
func (e *Engine) syncSettings(ctx context.Context) error {
	s, err := e.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if !s.PendingSync {
		return nil
	}

	if err := e.remote.UpsertSettings(ctx, s); err != nil {
		return err
	}

	if err := e.settings.ClearPending(ctx); err != nil {
		return fmt.Errorf("failed to clear settings pending flag: %w", err)
	}

	e.status.Apply(Patch{PendingSettings: ptr(false)})
	return nil
}
