// Package integration drives the full HTTP stack against PostgreSQL in a
// container, Redis in memory and the simulated payment gateway.
package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"bakery-storefront/internal/auth"
	"bakery-storefront/internal/board"
	"bakery-storefront/internal/cart"
	"bakery-storefront/internal/database/dbtest"
	"bakery-storefront/internal/handler"
	"bakery-storefront/internal/payment"
	"bakery-storefront/internal/pricing"
	"bakery-storefront/internal/repository"
	"bakery-storefront/internal/router"
	"bakery-storefront/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	jwtSecret     = "integration-jwt-secret"
	webhookSecret = "whsec_integration"
)

// TestServer is a fully wired storefront.
type TestServer struct {
	Handler http.Handler
	Pool    *pgxpool.Pool
	Redis   *miniredis.Miniredis
}

// SetupTestServer wires every service the way cmd/api does, with payment
// simulation enabled.
func SetupTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := dbtest.Setup(t)
	logger := zerolog.Nop()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	settingsRepo := repository.NewSettingsRepository(testDB.Pool, logger)
	profileRepo := repository.NewProfileRepository(testDB.Pool, logger)

	gateway := payment.NewSimulatedGateway(webhookSecret, logger)
	boardCache := board.NewRedisCache(client, 30*time.Second, logger)
	cartStore := cart.NewRedisStore(client, time.Hour, pricing.DefaultTaxRate, logger)

	payments := service.NewPaymentService(orderRepo, gateway, boardCache, nil, logger)
	checkout := service.NewCheckoutService(service.CheckoutOptions{
		OrderRepo:         orderRepo,
		ProductRepo:       productRepo,
		SettingsRepo:      settingsRepo,
		Calculator:        pricing.New(),
		Gateway:           gateway,
		Payments:          payments,
		SimulationEnabled: true,
	}, logger)
	carts := service.NewCartService(cartStore, productRepo, logger)

	h := router.New(router.Handlers{
		Products: handler.NewProductHandler(service.NewProductService(productRepo, logger), logger),
		Checkout: handler.NewCheckoutHandler(checkout, carts, logger),
		Webhooks: handler.NewWebhookHandler(payments, logger),
		Orders:   handler.NewOrderHandler(service.NewOrderService(orderRepo, boardCache, nil, logger), logger),
		Carts:    handler.NewCartHandler(carts, logger),
		Admin: handler.NewAdminHandler(
			service.NewReportService(orderRepo, logger),
			service.NewSettingsService(settingsRepo, logger),
			logger,
		),
	}, auth.NewVerifier(jwtSecret, profileRepo, logger), logger)

	return &TestServer{Handler: h, Pool: testDB.Pool, Redis: mr}
}

// Reset empties the database and Redis between subtests.
func (s *TestServer) Reset(t *testing.T) {
	t.Helper()
	dbtest.Cleanup(t, s.Pool)
	s.Redis.FlushAll()
}

// SeedProducts inserts the test menu.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO products (id, name, description, price, is_active) VALUES
		('croissant', 'Butter Croissant', 'Laminated, all butter', 375, TRUE),
		('loaf', 'Sourdough Loaf', 'Three day ferment', 900, TRUE),
		('cookie', 'Chocolate Chip Cookie', '', 25, TRUE),
		('stollen', 'Stollen', 'Seasonal', 1800, FALSE)
	`)
	if err != nil {
		t.Fatalf("failed to seed products: %v", err)
	}
}

// SeedProfile registers a user with role and returns a bearer token for it.
func SeedProfile(t *testing.T, pool *pgxpool.Pool, id, role string) string {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO profiles (id, full_name, role) VALUES ($1, $2, $3)`, id, "Test "+role, role)
	if err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	token, err := auth.SignToken(jwtSecret, id, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}
