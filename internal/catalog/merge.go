package catalog

import (
	"context"
	"fmt"

	"bakery-storefront/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// LoadAll reads several seed files concurrently and merges them in the
// order given. A product in a later file replaces the same id from an
// earlier one.
func LoadAll(ctx context.Context, loader Loader, paths []string, logger zerolog.Logger) ([]model.Product, error) {
	results := make([][]model.Product, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			products, err := loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load menu file %s: %w", path, err)
			}
			results[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []model.Product
	index := make(map[string]int)
	for i, products := range results {
		logger.Debug().Str("file", paths[i]).Int("size", len(products)).Msg("merging menu file")
		for _, p := range products {
			if at, seen := index[p.ID]; seen {
				merged[at] = p
				continue
			}
			index[p.ID] = len(merged)
			merged = append(merged, p)
		}
	}

	logger.Info().
		Int("file_count", len(paths)).
		Int("products", len(merged)).
		Msg("menu files merged")

	return merged, nil
}
