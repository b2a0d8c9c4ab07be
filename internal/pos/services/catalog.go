package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/merchpoint/pos/internal/logging"
	"github.com/merchpoint/pos/internal/pos/models"
	"github.com/merchpoint/pos/internal/pos/repositories/products"
	"github.com/merchpoint/pos/internal/pos/sync"
)

// CatalogService manages the product catalog. Every mutation marks the
// catalog dirty and enqueues a products sync, which overwrites the remote
// sheet with the full local collection.
type CatalogService struct {
	products products.Repository
	notifier SyncNotifier
	log      logging.Logger
}

func NewCatalogService(productsRepo products.Repository, notifier SyncNotifier, log logging.Logger) *CatalogService {
	return &CatalogService{products: productsRepo, notifier: notifier, log: log}
}

// List returns the whole catalog.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	all, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return all, nil
}

// Save creates or updates a product. A missing id means a new product.
func (s *CatalogService) Save(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Inventory == nil {
		p.Inventory = map[string]int{}
	}
	p.Synced = false

	if err := s.products.CreateOrUpdate(ctx, p); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	s.log.Info(ctx, "product saved", "id", p.ID, "name", p.Name)
	s.notifier.Enqueue(ctx, sync.TaskProducts)
	return nil
}

// Delete removes a product locally at once; the remote catalog loses it on
// the next full overwrite.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.products.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.log.Info(ctx, "product deleted", "id", id)
	s.notifier.Enqueue(ctx, sync.TaskProducts)
	return nil
}
