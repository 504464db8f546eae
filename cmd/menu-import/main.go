// Command menu-import loads gzipped JSON-lines menu files and upserts them
// into the products table. Paths come from the arguments, or from
// MENU_SEED_PATHS when none are given.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bakery-storefront/internal/catalog"
	"bakery-storefront/internal/config"
	"bakery-storefront/internal/database"
	"bakery-storefront/internal/repository"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// importConfig is the subset of the server configuration the importer needs.
type importConfig struct {
	Database config.DatabaseConfig
	Logger   config.LoggerConfig
	Menu     config.MenuConfig
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	var cfg importConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	paths := args
	if len(paths) == 0 {
		paths = cfg.Menu.SeedPaths
	}
	if len(paths) == 0 {
		return fmt.Errorf("usage: menu-import <menu.jsonl.gz>... (or set MENU_SEED_PATHS)")
	}

	logger := config.NewLogger(cfg.Logger, "menu-import")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	var s3Loader catalog.Loader
	if cfg.Menu.S3Enabled {
		s3Loader, err = catalog.NewS3Loader(ctx, cfg.Menu.S3Bucket, cfg.Menu.S3Region, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 loader, falling back to local file system only")
			s3Loader = nil
		}
	}
	loader := catalog.NewFallbackLoader(s3Loader, catalog.NewFileLoader(logger), cfg.Menu.S3Prefix, s3Loader != nil, logger)

	n, err := catalog.Seed(ctx, loader, paths, repository.NewProductRepository(pool, logger), logger)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d products from %d file(s)\n", n, len(paths))
	return nil
}
