package router

import (
	"net/http"
	"time"

	"bakery-storefront/internal/handler"
	"bakery-storefront/internal/middleware"
	"bakery-storefront/internal/model"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Products *handler.ProductHandler
	Checkout *handler.CheckoutHandler
	Webhooks *handler.WebhookHandler
	Orders   *handler.OrderHandler
	Carts    *handler.CartHandler
	Admin    *handler.AdminHandler
}

type options struct {
	writeRPS   float64
	writeBurst int
}

// Option adjusts router behaviour.
type Option func(*options)

// WithWriteRateLimit throttles the cart and checkout writes per client.
// The payment webhook is never throttled.
func WithWriteRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.writeRPS = rps
		o.writeBurst = burst
	}
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, verifier middleware.Authenticator, logger zerolog.Logger, opts ...Option) http.Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	throttle := middleware.RateLimit(o.writeRPS, o.writeBurst, logger)

	r := chi.NewRouter()

	// Order matters: request ids must exist before anything logs.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// The processor signs the body itself; bearer auth does not apply.
		r.Post("/webhooks/stripe", h.Webhooks.Stripe)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(verifier, logger))

			r.Get("/products", h.Products.List)
			r.Get("/products/{id}", h.Products.Get)
			r.Get("/settings/pickup-days", h.Admin.PickupDays)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Carts.Get)
				r.Group(func(r chi.Router) {
					r.Use(throttle)
					r.Delete("/", h.Carts.Clear)
					r.Post("/items", h.Carts.AddItem)
					r.Patch("/items/{productId}", h.Carts.SetQuantity)
					r.Delete("/items/{productId}", h.Carts.RemoveItem)
				})
			})

			// Guests may check out; the service records who, if anyone, ordered.
			r.With(throttle).Post("/checkout", h.Checkout.Checkout)
			r.With(throttle).Post("/dev/simulate-payment", h.Checkout.Simulate)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole())
				r.Get("/me/orders", h.Orders.Mine)
				r.Get("/orders/{id}", h.Orders.Get)
			})

			r.Route("/staff", func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleEmployee, model.RoleOwner))
				r.Get("/board", h.Orders.Board)
				r.Get("/orders/history", h.Orders.History)
				r.Patch("/orders/{id}/status", h.Orders.UpdateStatus)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleEmployee, model.RoleOwner))
				r.Get("/products", h.Products.ListAll)
				r.Put("/products", h.Products.Save)
				r.Patch("/products/{id}/active", h.Products.SetActive)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleOwner))
				r.Get("/owner/overview", h.Admin.Overview)
				r.Put("/settings/pickup-days", h.Admin.UpdatePickupDays)
			})
		})
	})

	return r
}
