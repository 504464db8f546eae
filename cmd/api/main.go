package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bakery-storefront/internal/auth"
	"bakery-storefront/internal/board"
	"bakery-storefront/internal/cart"
	"bakery-storefront/internal/catalog"
	"bakery-storefront/internal/config"
	"bakery-storefront/internal/database"
	"bakery-storefront/internal/events"
	"bakery-storefront/internal/handler"
	"bakery-storefront/internal/payment"
	"bakery-storefront/internal/pricing"
	"bakery-storefront/internal/repository"
	"bakery-storefront/internal/router"
	"bakery-storefront/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "bakery-api")
	logger.Info().Msg("starting bakery storefront API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redisClient.Close()

	// Repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	settingsRepo := repository.NewSettingsRepository(pool, logger)
	profileRepo := repository.NewProfileRepository(pool, logger)

	if len(cfg.Menu.SeedPaths) > 0 {
		if err := seedMenu(ctx, cfg.Menu, productRepo, logger); err != nil {
			return err
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic, logger)
	} else {
		logger.Info().Msg("kafka disabled, order events are not published")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	var gateway payment.Gateway
	if cfg.Payment.StripeSecretKey != "" {
		breaker := payment.DefaultBreakerConfig()
		breaker.Timeout = cfg.Payment.BreakerTimeout
		gateway = payment.NewBreakerGateway(
			payment.NewStripeGateway(cfg.Payment.StripeSecretKey, cfg.Payment.StripeWebhookSecret, cfg.Payment.Currency, logger),
			breaker,
			logger,
		)
	} else {
		logger.Warn().Msg("no stripe key configured, using the simulated payment gateway")
		gateway = payment.NewSimulatedGateway(cfg.Payment.StripeWebhookSecret, logger)
	}

	calculator, err := newCalculator(cfg.Pricing)
	if err != nil {
		return err
	}
	taxRate := decimal.NewFromFloat(cfg.Pricing.TaxRate)

	boardCache := board.NewRedisCache(redisClient, cfg.Redis.BoardCacheTTL, logger)
	cartStore := cart.NewRedisStore(redisClient, cfg.Redis.CartTTL, taxRate, logger)

	// Services
	productService := service.NewProductService(productRepo, logger)
	paymentService := service.NewPaymentService(orderRepo, gateway, boardCache, publisher, logger)
	checkoutService := service.NewCheckoutService(service.CheckoutOptions{
		OrderRepo:         orderRepo,
		ProductRepo:       productRepo,
		SettingsRepo:      settingsRepo,
		Calculator:        calculator,
		Gateway:           gateway,
		Payments:          paymentService,
		Publisher:         publisher,
		SimulationEnabled: cfg.Payment.SimulationEnabled,
	}, logger)
	orderService := service.NewOrderService(orderRepo, boardCache, publisher, logger)
	cartService := service.NewCartService(cartStore, productRepo, logger)
	reportService := service.NewReportService(orderRepo, logger)
	settingsService := service.NewSettingsService(settingsRepo, logger)

	mux := router.New(router.Handlers{
		Products: handler.NewProductHandler(productService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, cartService, logger),
		Webhooks: handler.NewWebhookHandler(paymentService, logger),
		Orders:   handler.NewOrderHandler(orderService, logger),
		Carts:    handler.NewCartHandler(cartService, logger),
		Admin:    handler.NewAdminHandler(reportService, settingsService, logger),
	}, auth.NewVerifier(cfg.Auth.JWTSecret, profileRepo, logger), logger,
		router.WithWriteRateLimit(cfg.Server.WriteRateLimit, cfg.Server.WriteBurst),
	)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("payment_gateway", gateway.Name()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

func newCalculator(cfg config.PricingConfig) (*pricing.Calculator, error) {
	policy, err := pricing.ParsePolicy(cfg.UnknownItemPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid pricing configuration: %w", err)
	}
	return pricing.New(
		pricing.WithTaxRate(decimal.NewFromFloat(cfg.TaxRate)),
		pricing.WithMinimumOrder(cfg.MinOrderCents),
		pricing.WithUnknownItemPolicy(policy),
	), nil
}

// seedMenu imports the configured menu files before serving. S3 is tried
// first when enabled, with the local file system as fallback.
func seedMenu(ctx context.Context, cfg config.MenuConfig, products catalog.ProductWriter, logger zerolog.Logger) error {
	fileLoader := catalog.NewFileLoader(logger)
	var s3Loader catalog.Loader
	if cfg.S3Enabled {
		l, err := catalog.NewS3Loader(ctx, cfg.S3Bucket, cfg.S3Region, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	}
	loader := catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3Prefix, s3Loader != nil, logger)

	n, err := catalog.Seed(ctx, loader, cfg.SeedPaths, products, logger)
	if err != nil {
		return fmt.Errorf("failed to seed menu: %w", err)
	}
	logger.Info().Int("products", n).Strs("paths", cfg.SeedPaths).Msg("menu seeded")
	return nil
}
