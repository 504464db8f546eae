package service

import (
	"context"
	"fmt"
	"time"

	"bakery-storefront/internal/board"
	"bakery-storefront/internal/events"
	"bakery-storefront/internal/metrics"
	"bakery-storefront/internal/model"
	"bakery-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	boardLimit      = 200
	defaultListSize = 50
	maxListSize     = 200
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cache     board.Cache
	publisher events.Publisher
	now       func() time.Time
	logger    zerolog.Logger
}

// NewOrderService creates a new order lifecycle service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cache board.Cache,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &orderService{
		orderRepo: orderRepo,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Transition applies a staff status change. Payment is never a staff
// action, and the update only succeeds if nobody moved the order first.
func (s *orderService) Transition(ctx context.Context, orderID uuid.UUID, target model.OrderStatus, principal *model.Principal) (*model.Order, error) {
	if err := requireStaff(principal); err != nil {
		return nil, err
	}
	if target == model.StatusPaid {
		return nil, model.ErrInvalidTransition
	}

	current, err := s.orderRepo.GetStatus(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if current == nil {
		return nil, model.ErrOrderNotFound
	}
	if !current.CanTransitionTo(target) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("from", string(*current)).
			Str("to", string(target)).
			Msg("rejected transition")
		return nil, model.ErrInvalidTransition
	}

	if err := s.apply(ctx, orderID, *current, target, principal.UserID); err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(string(*current), string(target)).Inc()
	s.afterChange(ctx, orderID, *current, target, &principal.UserID)

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("from", string(*current)).
		Str("to", string(target)).
		Str("actor", principal.UserID).
		Msg("order status changed")

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) apply(ctx context.Context, orderID uuid.UUID, from, to model.OrderStatus, actorID string) (err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	updated, err := s.orderRepo.UpdateStatus(ctx, tx, orderID, from, to)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if !updated {
		s.logger.Warn().Str("order_id", orderID.String()).Str("expected", string(from)).Msg("order changed concurrently")
		err = model.ErrInvalidTransition
		return err
	}

	fromStatus := from
	event := &model.OrderStatusEvent{OrderID: orderID, FromStatus: &fromStatus, ToStatus: to, ActorID: &actorID}
	if err = s.orderRepo.AppendEvent(ctx, tx, event); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// afterChange refreshes downstream views. Failures are logged only; the
// status change is already committed.
func (s *orderService) afterChange(ctx context.Context, orderID uuid.UUID, from, to model.OrderStatus, actorID *string) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate kitchen board")
	}
	if err := s.publisher.StatusChanged(ctx, orderID, from, to, actorID); err != nil {
		metrics.EventPublishFailures.WithLabelValues(events.TypeOrderStatusChanged).Inc()
		s.logger.Warn().Err(err).Str("order_id", orderID.String()).Msg("status change event not published")
	}
}

// GetOrder returns the order with its timeline. An order belonging to
// someone else is reported as not found.
func (s *orderService) GetOrder(ctx context.Context, principal *model.Principal, orderID uuid.UUID) (*model.OrderDetail, error) {
	if principal == nil {
		return nil, model.ErrUnauthorized
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	if !principal.IsStaff() && (order.CustomerID == nil || *order.CustomerID != principal.UserID) {
		return nil, model.ErrOrderNotFound
	}

	timeline, err := s.orderRepo.ListEvents(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order timeline: %w", err)
	}

	return &model.OrderDetail{Order: order, Timeline: timeline}, nil
}

// Board returns paid, baking and ready orders grouped into columns.
func (s *orderService) Board(ctx context.Context, principal *model.Principal) (*model.KitchenBoard, error) {
	if err := requireStaff(principal); err != nil {
		return nil, err
	}

	cached, generation, err := s.cache.Get(ctx)
	cacheUp := err == nil
	if !cacheUp {
		s.logger.Warn().Err(err).Msg("kitchen board cache unavailable")
	} else if cached != nil {
		return cached, nil
	}

	orders, err := s.orderRepo.ListByStatuses(ctx, []model.OrderStatus{model.StatusPaid, model.StatusBaking, model.StatusReady}, boardLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load kitchen board: %w", err)
	}

	b := &model.KitchenBoard{
		ToBake:      []model.Order{},
		Baking:      []model.Order{},
		Ready:       []model.Order{},
		GeneratedAt: s.now().UTC(),
	}
	for _, o := range orders {
		switch o.Status {
		case model.StatusPaid:
			b.ToBake = append(b.ToBake, o)
		case model.StatusBaking:
			b.Baking = append(b.Baking, o)
		case model.StatusReady:
			b.Ready = append(b.Ready, o)
		}
	}

	if cacheUp {
		if err := s.cache.Set(ctx, b, generation); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache kitchen board")
		}
	}
	return b, nil
}

// History returns picked up and cancelled orders.
func (s *orderService) History(ctx context.Context, principal *model.Principal, limit int) ([]model.Order, error) {
	if err := requireStaff(principal); err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListByStatuses(ctx, []model.OrderStatus{model.StatusPickedUp, model.StatusCancelled}, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to load order history: %w", err)
	}
	return orders, nil
}

// CustomerOrders returns the caller's orders, newest first.
func (s *orderService) CustomerOrders(ctx context.Context, principal *model.Principal, limit int) ([]model.Order, error) {
	if principal == nil {
		return nil, model.ErrUnauthorized
	}

	orders, err := s.orderRepo.ListByCustomer(ctx, principal.UserID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to load customer orders: %w", err)
	}
	return orders, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListSize
	}
	if limit > maxListSize {
		return maxListSize
	}
	return limit
}
