package repository

import (
	"context"
	"errors"
	"fmt"

	"bakery-storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type profileRepository struct {
	db     DBTX
	logger zerolog.Logger
}

// NewProfileRepository creates a new PostgreSQL-backed profile repository.
func NewProfileRepository(db DBTX, logger zerolog.Logger) ProfileRepository {
	return &profileRepository{
		db:     db,
		logger: logger.With().Str("repository", "profile").Logger(),
	}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	query := `SELECT id, full_name, role, created_at FROM profiles WHERE id = $1`

	var p model.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.FullName, &p.Role, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("profile_id", id).Msg("failed to query profile")
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	return &p, nil
}
