package repository

import (
	"context"
	"errors"
	"fmt"

	"bakery-storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type settingsRepository struct {
	db     DBTX
	logger zerolog.Logger
}

// NewSettingsRepository creates a new PostgreSQL-backed store settings repository.
func NewSettingsRepository(db DBTX, logger zerolog.Logger) SettingsRepository {
	return &settingsRepository{
		db:     db,
		logger: logger.With().Str("repository", "settings").Logger(),
	}
}

func scanSettings(row pgx.Row) (*model.StoreSettings, error) {
	var (
		days     []int32
		settings model.StoreSettings
	)
	if err := row.Scan(&days, &settings.UpdatedAt); err != nil {
		return nil, err
	}

	settings.PickupDays = make([]int, len(days))
	for i, d := range days {
		settings.PickupDays[i] = int(d)
	}
	return &settings, nil
}

// Get returns the store settings. A missing row yields the defaults.
func (r *settingsRepository) Get(ctx context.Context) (*model.StoreSettings, error) {
	settings, err := scanSettings(r.db.QueryRow(ctx, `SELECT pickup_days, updated_at FROM store_settings WHERE id = 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &model.StoreSettings{PickupDays: model.DefaultPickupDays()}, nil
		}
		r.logger.Error().Err(err).Msg("failed to query store settings")
		return nil, fmt.Errorf("failed to query store settings: %w", err)
	}
	return settings, nil
}

// UpdatePickupDays replaces the allowed pickup weekdays.
func (r *settingsRepository) UpdatePickupDays(ctx context.Context, days []int) (*model.StoreSettings, error) {
	query := `
		INSERT INTO store_settings (id, pickup_days, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET pickup_days = EXCLUDED.pickup_days, updated_at = NOW()
		RETURNING pickup_days, updated_at
	`

	pgDays := make([]int32, len(days))
	for i, d := range days {
		pgDays[i] = int32(d)
	}

	settings, err := scanSettings(r.db.QueryRow(ctx, query, pgDays))
	if err != nil {
		r.logger.Error().Err(err).Ints("pickup_days", days).Msg("failed to update pickup days")
		return nil, fmt.Errorf("failed to update pickup days: %w", err)
	}

	r.logger.Info().Ints("pickup_days", days).Msg("pickup days updated")
	return settings, nil
}
