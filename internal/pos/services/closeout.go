package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/merchpoint/pos/internal/logging"
	"github.com/merchpoint/pos/internal/pos/models"
	"github.com/merchpoint/pos/internal/pos/repositories/closeouts"
	"github.com/merchpoint/pos/internal/pos/repositories/sales"
)

// ErrNothingToClose rejects a close-out when every sale is already
// aggregated.
var ErrNothingToClose = errors.New("no sales since the previous close-out")

// CloseOutService aggregates the span of sales since the previous close-out
// into an immutable summary. Creating a close-out also unlocks local
// deletion of its synced sales on the next sales sync.
type CloseOutService struct {
	sales     sales.Repository
	closeouts closeouts.Repository
	log       logging.Logger
}

func NewCloseOutService(salesRepo sales.Repository, closeoutsRepo closeouts.Repository, log logging.Logger) *CloseOutService {
	return &CloseOutService{sales: salesRepo, closeouts: closeoutsRepo, log: log}
}

// Create aggregates all not-yet-closed-out sales.
func (s *CloseOutService) Create(ctx context.Context, name, location string) (*models.CloseOut, error) {
	span, err := s.sales.GetUnclosed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read open sales: %w", err)
	}
	if len(span) == 0 {
		return nil, ErrNothingToClose
	}

	c := models.BuildCloseOut(uuid.NewString(), time.Now().UTC(), span)
	c.Name = name
	c.Location = location

	if err := s.closeouts.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save close-out: %w", err)
	}

	s.log.Info(ctx, "close-out created", "id", c.ID, "sales", c.SaleCount, "revenue", c.Revenue)
	return c, nil
}

// List returns every close-out, newest first.
func (s *CloseOutService) List(ctx context.Context) ([]models.CloseOut, error) {
	all, err := s.closeouts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list close-outs: %w", err)
	}
	return all, nil
}

// UpdateDetails sets the operator-entered metadata on an existing close-out.
func (s *CloseOutService) UpdateDetails(ctx context.Context, id, name, location, notes string, actualCash float64) error {
	if err := s.closeouts.UpdateDetails(ctx, id, name, location, notes, actualCash); err != nil {
		return fmt.Errorf("failed to update close-out: %w", err)
	}
	return nil
}
