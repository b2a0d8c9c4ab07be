// Package services holds the application services sitting between the CLI
// and the repositories. They mark entities dirty and nudge the sync engine;
// the engine decides when the work actually runs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/merchpoint/pos/internal/dbx"
	"github.com/merchpoint/pos/internal/logging"
	"github.com/merchpoint/pos/internal/pos/models"
	"github.com/merchpoint/pos/internal/pos/repositories/products"
	"github.com/merchpoint/pos/internal/pos/repositories/sales"
	"github.com/merchpoint/pos/internal/pos/sync"
)

// SyncNotifier is the slice of the engine the services need: marking a
// category as having new work.
type SyncNotifier interface {
	Enqueue(ctx context.Context, t sync.TaskType)
}

// ErrEmptyCart rejects a checkout with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// CartLine is one line of a checkout in progress.
type CartLine struct {
	ProductID string
	Size      string
	Quantity  int
}

// CheckoutService records sales and keeps inventory in step. It holds the
// raw database handle because a checkout writes the sale row and every
// inventory decrement in one transaction.
type CheckoutService struct {
	db       *sql.DB
	sales    sales.Repository
	products products.Repository
	notifier SyncNotifier
	log      logging.Logger
}

func NewCheckoutService(db *sql.DB, salesRepo sales.Repository, productsRepo products.Repository, notifier SyncNotifier, log logging.Logger) *CheckoutService {
	return &CheckoutService{db: db, sales: salesRepo, products: productsRepo, notifier: notifier, log: log}
}

// RecordSale creates an immutable sale from the cart, decrements inventory
// per line and enqueues both the sales and products sync (the inventory
// change is a catalog change).
func (s *CheckoutService) RecordSale(ctx context.Context, lines []CartLine, payment models.PaymentMethod, collected, discount, tip float64) (*models.Sale, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	sale := &models.Sale{
		ID:            uuid.NewString(),
		RecordedAt:    time.Now().UTC(),
		Collected:     collected,
		PaymentMethod: payment,
		Discount:      discount,
		Tip:           tip,
	}

	// one transaction for the sale row and every decrement: a bad cart line
	// or a failed insert leaves the stock exactly as it was
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txSales := s.sales.WithTx(tx)
		txProducts := s.products.WithTx(tx)

		for _, line := range lines {
			p, err := txProducts.GetByID(ctx, line.ProductID)
			if err != nil {
				return fmt.Errorf("unknown product %s: %w", line.ProductID, err)
			}

			sale.Items = append(sale.Items, models.LineItem{
				ProductID: p.ID,
				Name:      p.Name,
				Quantity:  line.Quantity,
				UnitPrice: p.Price,
				Size:      line.Size,
			})
			sale.Total += float64(line.Quantity) * p.Price

			p.Adjust(line.Size, -line.Quantity)
			p.Synced = false
			if err := txProducts.CreateOrUpdate(ctx, p); err != nil {
				return fmt.Errorf("failed to update inventory: %w", err)
			}
		}

		if err := txSales.CreateOrUpdate(ctx, sale); err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "sale recorded", "id", sale.ID, "total", sale.Total, "items", len(sale.Items))

	s.notifier.Enqueue(ctx, sync.TaskSales)
	s.notifier.Enqueue(ctx, sync.TaskProducts)
	return sale, nil
}
