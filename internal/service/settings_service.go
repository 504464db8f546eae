package service

import (
	"context"
	"fmt"
	"slices"

	"bakery-storefront/internal/model"
	"bakery-storefront/internal/repository"

	"github.com/rs/zerolog"
)

// settingsService implements SettingsService.
type settingsService struct {
	settingsRepo repository.SettingsRepository
	logger       zerolog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(settingsRepo repository.SettingsRepository, logger zerolog.Logger) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		logger:       logger.With().Str("service", "settings").Logger(),
	}
}

func (s *settingsService) Get(ctx context.Context) (*model.StoreSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// UpdatePickupDays stores the allowed weekdays in ascending order.
func (s *settingsService) UpdatePickupDays(ctx context.Context, principal *model.Principal, req *model.PickupDaysRequest) (*model.StoreSettings, error) {
	if err := requireOwner(principal); err != nil {
		return nil, err
	}
	if err := model.Validate(req); err != nil {
		s.logger.Debug().Err(err).Msg("rejected pickup days")
		return nil, model.ErrInvalidPickupDays
	}

	days := slices.Clone(req.PickupDays)
	slices.Sort(days)

	settings, err := s.settingsRepo.UpdatePickupDays(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}
