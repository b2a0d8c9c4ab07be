package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/merchpoint/pos/internal/common"
	"github.com/merchpoint/pos/internal/logging"
	"github.com/merchpoint/pos/internal/pos/models"
	"github.com/merchpoint/pos/internal/pos/repositories/settings"
	"github.com/merchpoint/pos/internal/pos/sync"
)

// SettingsService manages the single user-settings record.
type SettingsService struct {
	settings settings.Repository
	notifier SyncNotifier
	log      logging.Logger
}

func NewSettingsService(settingsRepo settings.Repository, notifier SyncNotifier, log logging.Logger) *SettingsService {
	return &SettingsService{settings: settingsRepo, notifier: notifier, log: log}
}

// Get returns the current settings, creating the defaults on first use.
func (s *SettingsService) Get(ctx context.Context) (*models.UserSettings, error) {
	current, err := s.settings.Get(ctx)
	if errors.Is(err, common.ErrNotFound) {
		current = models.DefaultSettings()
		if err := s.settings.Save(ctx, current); err != nil {
			return nil, fmt.Errorf("failed to save default settings: %w", err)
		}
		return current, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return current, nil
}

// Update overwrites the record in place, marks it pending and enqueues the
// settings sync.
func (s *SettingsService) Update(ctx context.Context, updated *models.UserSettings) error {
	updated.PendingSync = true
	if err := s.settings.Save(ctx, updated); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.log.Info(ctx, "settings updated")
	s.notifier.Enqueue(ctx, sync.TaskSettings)
	return nil
}

// SignOut removes the record entirely.
func (s *SettingsService) SignOut(ctx context.Context) error {
	if err := s.settings.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	return nil
}
