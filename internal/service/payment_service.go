package service

import (
	"context"
	"errors"
	"fmt"

	"bakery-storefront/internal/board"
	"bakery-storefront/internal/events"
	"bakery-storefront/internal/metrics"
	"bakery-storefront/internal/model"
	"bakery-storefront/internal/payment"
	"bakery-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// paymentService implements PaymentService.
type paymentService struct {
	orderRepo repository.OrderRepository
	gateway   payment.Gateway
	cache     board.Cache
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewPaymentService creates the payment confirmation bridge.
func NewPaymentService(
	orderRepo repository.OrderRepository,
	gateway payment.Gateway,
	cache board.Cache,
	publisher events.Publisher,
	logger zerolog.Logger,
) PaymentService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &paymentService{
		orderRepo: orderRepo,
		gateway:   gateway,
		cache:     cache,
		publisher: publisher,
		logger:    logger.With().Str("service", "payment").Logger(),
	}
}

// HandleNotification verifies a webhook delivery and marks the referenced
// order paid. Unknown, already paid and cancelled orders are acknowledged
// without error so the processor stops redelivering.
func (s *paymentService) HandleNotification(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSignature) {
			metrics.PaymentNotifications.WithLabelValues(metrics.OutcomeBadSignature).Inc()
			s.logger.Warn().Err(err).Msg("webhook signature verification failed")
			return model.ErrInvalidSignature
		}
		metrics.PaymentNotifications.WithLabelValues(metrics.OutcomeInternalError).Inc()
		return fmt.Errorf("failed to parse payment event: %w", err)
	}

	if event.Type != payment.EventPaymentSucceeded {
		metrics.PaymentNotifications.WithLabelValues(metrics.OutcomeIgnored).Inc()
		s.logger.Debug().Str("event_id", event.ID).Str("type", event.Type).Msg("ignoring payment event")
		return nil
	}

	orderID, err := uuid.Parse(event.OrderID)
	if event.OrderID == "" || err != nil {
		metrics.PaymentNotifications.WithLabelValues(metrics.OutcomeMissingOrder).Inc()
		s.logger.Error().
			Str("event_id", event.ID).
			Str("payment_reference", event.PaymentReference).
			Str("order_ref", event.OrderID).
			Msg("payment event without a usable order reference")
		return model.ErrMissingOrderReference
	}

	outcome, err := s.ConfirmPayment(ctx, orderID, event.PaymentReference)
	if errors.Is(err, model.ErrOrderNotFound) {
		s.logger.Error().
			Str("event_id", event.ID).
			Str("order_id", orderID.String()).
			Str("payment_reference", event.PaymentReference).
			Msg("payment received for unknown order")
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("event_id", event.ID).
		Str("order_id", orderID.String()).
		Str("outcome", outcome).
		Msg("payment notification handled")
	return nil
}

// ConfirmPayment moves a pending order to paid with a single conditional
// update. A replay finds nothing to update and is reported as a duplicate.
func (s *paymentService) ConfirmPayment(ctx context.Context, orderID uuid.UUID, reference string) (string, error) {
	applied, err := s.markPaid(ctx, orderID, reference)
	if err != nil {
		metrics.PaymentNotifications.WithLabelValues(metrics.OutcomeInternalError).Inc()
		return metrics.OutcomeInternalError, err
	}

	if applied {
		metrics.PaymentNotifications.WithLabelValues(metrics.OutcomePaid).Inc()
		metrics.OrderTransitions.WithLabelValues(string(model.StatusPending), string(model.StatusPaid)).Inc()

		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate kitchen board")
		}
		if err := s.publisher.OrderPaid(ctx, orderID, reference); err != nil {
			metrics.EventPublishFailures.WithLabelValues(events.TypeOrderPaid).Inc()
			s.logger.Warn().Err(err).Str("order_id", orderID.String()).Msg("order paid event not published")
		}
		return metrics.OutcomePaid, nil
	}

	status, err := s.orderRepo.GetStatus(ctx, orderID)
	if err != nil {
		metrics.PaymentNotifications.WithLabelValues(metrics.OutcomeInternalError).Inc()
		return metrics.OutcomeInternalError, fmt.Errorf("failed to load order: %w", err)
	}

	switch {
	case status == nil:
		metrics.PaymentNotifications.WithLabelValues(metrics.OutcomeUnknownOrder).Inc()
		return metrics.OutcomeUnknownOrder, model.ErrOrderNotFound
	case *status == model.StatusCancelled:
		metrics.PaymentNotifications.WithLabelValues(metrics.OutcomeCancelled).Inc()
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("payment_reference", reference).
			Msg("payment received for cancelled order, refund manually")
		return metrics.OutcomeCancelled, nil
	default:
		metrics.PaymentNotifications.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		s.logger.Info().
			Str("order_id", orderID.String()).
			Str("status", string(*status)).
			Msg("duplicate payment notification")
		return metrics.OutcomeDuplicate, nil
	}
}

func (s *paymentService) markPaid(ctx context.Context, orderID uuid.UUID, reference string) (applied bool, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to confirm payment: %w", err)
	}

	defer func() {
		if err != nil || !applied {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	applied, err = s.orderRepo.MarkPaid(ctx, tx, orderID, reference)
	if err != nil {
		return false, fmt.Errorf("failed to confirm payment: %w", err)
	}
	if !applied {
		return false, nil
	}

	from := model.StatusPending
	event := &model.OrderStatusEvent{OrderID: orderID, FromStatus: &from, ToStatus: model.StatusPaid}
	if err = s.orderRepo.AppendEvent(ctx, tx, event); err != nil {
		return false, fmt.Errorf("failed to confirm payment: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to confirm payment: %w", err)
	}
	return true, nil
}
