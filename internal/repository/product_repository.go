package repository

import (
	"context"
	"errors"
	"fmt"

	"bakery-storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, description, price, image_url, is_active, created_at, updated_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	db     DBTX
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db DBTX, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepository) list(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ListActive retrieves the public menu with pagination support.
func (r *productRepository) ListActive(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset)
}

// ListAll retrieves every product, including hidden ones.
func (r *productRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY name
	`
	return r.list(ctx, query)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	var p model.Product
	if err := scanProduct(r.db.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetActiveByIDs retrieves the active products among ids.
func (r *productRepository) GetActiveByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1) AND is_active
		ORDER BY name
	`
	return r.list(ctx, query, ids)
}

// Upsert inserts or updates a product and fills its timestamps.
func (r *productRepository) Upsert(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.IsActive).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to upsert product")
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	r.logger.Debug().Str("product_id", p.ID).Msg("product saved")
	return nil
}

// SetActive changes menu visibility.
func (r *productRepository) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	query := `
		UPDATE products
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product visibility")
		return false, fmt.Errorf("failed to update product visibility: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
