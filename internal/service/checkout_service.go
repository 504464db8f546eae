package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bakery-storefront/internal/events"
	"bakery-storefront/internal/metrics"
	"bakery-storefront/internal/model"
	"bakery-storefront/internal/payment"
	"bakery-storefront/internal/pricing"
	"bakery-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	calculator   *pricing.Calculator
	gateway      payment.Gateway
	payments     PaymentService
	publisher    events.Publisher
	simulation   bool
	now          func() time.Time
	logger       zerolog.Logger
}

// CheckoutOptions collects the collaborators of the checkout service.
type CheckoutOptions struct {
	OrderRepo         repository.OrderRepository
	ProductRepo       repository.ProductRepository
	SettingsRepo      repository.SettingsRepository
	Calculator        *pricing.Calculator
	Gateway           payment.Gateway
	Payments          PaymentService
	Publisher         events.Publisher
	SimulationEnabled bool
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(opts CheckoutOptions, logger zerolog.Logger) CheckoutService {
	publisher := opts.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &checkoutService{
		orderRepo:    opts.OrderRepo,
		productRepo:  opts.ProductRepo,
		settingsRepo: opts.SettingsRepo,
		calculator:   opts.Calculator,
		gateway:      opts.Gateway,
		payments:     opts.Payments,
		publisher:    publisher,
		simulation:   opts.SimulationEnabled,
		now:          time.Now,
		logger:       logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout creates a pending order and initiates payment. If payment
// initiation fails the order is deleted again.
func (s *checkoutService) Checkout(ctx context.Context, principal *model.Principal, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	order, err := s.createPendingOrder(ctx, principal, req)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, order.ID, order.Total)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("payment initiation failed, removing pending order")
		if delErr := s.orderRepo.DeletePending(ctx, order.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("order_id", order.ID.String()).Msg("failed to remove pending order")
		}
		return nil, fmt.Errorf("failed to initiate payment: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("gateway", s.gateway.Name()).
		Int64("total", order.Total).
		Msg("checkout started")

	return &model.CheckoutResponse{
		OrderID:            order.ID,
		PaymentClientToken: intent.ClientSecret,
		Subtotal:           order.Subtotal,
		Tax:                order.Tax,
		Total:              order.Total,
	}, nil
}

// SimulatePayment runs checkout and confirms the order immediately.
func (s *checkoutService) SimulatePayment(ctx context.Context, principal *model.Principal, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	if !s.simulation {
		return nil, model.ErrSimulationDisabled
	}
	if principal == nil {
		return nil, model.ErrUnauthorized
	}

	order, err := s.createPendingOrder(ctx, principal, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.payments.ConfirmPayment(ctx, order.ID, payment.SimulatedReference); err != nil {
		return nil, fmt.Errorf("failed to confirm simulated payment: %w", err)
	}

	s.logger.Info().Str("order_id", order.ID.String()).Msg("simulated payment applied")

	return &model.CheckoutResponse{
		OrderID:            order.ID,
		PaymentClientToken: payment.SimulatedReference,
		Subtotal:           order.Subtotal,
		Tax:                order.Tax,
		Total:              order.Total,
	}, nil
}

func (s *checkoutService) createPendingOrder(ctx context.Context, principal *model.Principal, req *model.CheckoutRequest) (*model.Order, error) {
	if req == nil {
		return nil, model.ErrEmptyCart
	}
	if err := model.Validate(req); err != nil {
		return nil, s.reject(err)
	}

	pickup, err := s.validatePickupDate(ctx, req)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, len(req.Items))
	ids := make([]string, 0, len(req.Items))
	for i, item := range req.Items {
		lines[i] = pricing.Line{ProductID: item.ProductID, Quantity: item.Quantity}
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetActiveByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}
	prices := make(map[string]int64, len(products))
	names := make(map[string]string, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
		names[p.ID] = p.Name
	}

	quote, err := s.calculator.Calculate(lines, prices)
	if err != nil {
		return nil, s.reject(err)
	}
	if len(quote.Dropped) > 0 {
		s.logger.Warn().Strs("product_ids", quote.Dropped).Msg("dropped unknown products from checkout")
	}

	now := s.now().UTC()
	order := &model.Order{
		ID:         uuid.New(),
		Status:     model.StatusPending,
		Subtotal:   quote.Subtotal,
		Tax:        quote.Tax,
		Total:      quote.Total,
		PickupDate: pickup,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if principal != nil {
		customerID := principal.UserID
		order.CustomerID = &customerID
	}

	order.Items = make([]model.OrderItem, len(quote.Lines))
	for i, l := range quote.Lines {
		order.Items[i] = model.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   l.ProductID,
			ProductName: names[l.ProductID],
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	}

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	if err := s.publisher.OrderCreated(ctx, order); err != nil {
		metrics.EventPublishFailures.WithLabelValues(events.TypeOrderCreated).Inc()
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("order created event not published")
	}

	return order, nil
}

// persist writes the order, its items and the first timeline entry in one transaction.
func (s *checkoutService) persist(ctx context.Context, order *model.Order) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(order.Items)).
			Msg("failed to create order items")
		return fmt.Errorf("failed to create order items: %w", err)
	}

	event := &model.OrderStatusEvent{OrderID: order.ID, ToStatus: model.StatusPending, ActorID: order.CustomerID}
	if err = s.orderRepo.AppendEvent(ctx, tx, event); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// validatePickupDate requires a day from tomorrow onwards on which the store
// offers pickup.
func (s *checkoutService) validatePickupDate(ctx context.Context, req *model.CheckoutRequest) (time.Time, error) {
	pickup, err := req.Pickup()
	if err != nil {
		return time.Time{}, s.reject(err)
	}

	now := s.now().UTC()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	if pickup.Before(tomorrow) {
		return time.Time{}, s.reject(model.ErrInvalidPickupDate)
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load store settings: %w", err)
	}
	if !settings.AllowsPickupOn(pickup.Weekday()) {
		return time.Time{}, s.reject(model.ErrInvalidPickupDate)
	}

	return pickup, nil
}

// reject counts a checkout refused for a domain reason and passes err through.
func (s *checkoutService) reject(err error) error {
	code := "unknown"
	var de *model.DomainError
	if errors.As(err, &de) {
		code = de.Code
	}
	metrics.CheckoutRejected.WithLabelValues(code).Inc()
	s.logger.Debug().Err(err).Str("code", code).Msg("checkout rejected")
	return err
}
