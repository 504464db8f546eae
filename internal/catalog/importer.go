package catalog

import (
	"context"
	"fmt"

	"bakery-storefront/internal/model"

	"github.com/rs/zerolog"
)

// ProductWriter is the store the importer writes to.
type ProductWriter interface {
	Upsert(ctx context.Context, product *model.Product) error
}

// Importer upserts seed products into the product store. Re-running an
// import with the same file is a no-op apart from updated_at.
type Importer struct {
	products ProductWriter
	logger   zerolog.Logger
}

// NewImporter creates an importer writing to products.
func NewImporter(products ProductWriter, logger zerolog.Logger) *Importer {
	return &Importer{
		products: products,
		logger:   logger.With().Str("component", "menu-importer").Logger(),
	}
}

// Import upserts every product and returns how many were written. It stops
// at the first failure.
func (i *Importer) Import(ctx context.Context, products []model.Product) (int, error) {
	written := 0
	for idx := range products {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		p := products[idx]
		if err := i.products.Upsert(ctx, &p); err != nil {
			i.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to import product")
			return written, fmt.Errorf("import product %s: %w", p.ID, err)
		}
		written++
	}

	i.logger.Info().Int("imported", written).Msg("menu import finished")
	return written, nil
}

// Seed loads paths with loader and imports the merged result.
func Seed(ctx context.Context, loader Loader, paths []string, products ProductWriter, logger zerolog.Logger) (int, error) {
	menu, err := LoadAll(ctx, loader, paths, logger)
	if err != nil {
		return 0, err
	}
	return NewImporter(products, logger).Import(ctx, menu)
}
