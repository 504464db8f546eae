package repository

import (
	"context"
	"errors"
	"fmt"

	"bakery-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const orderColumns = `id, customer_id, status, subtotal_amount, tax_amount, total_amount, pickup_date, payment_reference, created_at, updated_at`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	db     DBTX
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(db DBTX, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID,
		&o.CustomerID,
		&o.Status,
		&o.Subtotal,
		&o.Tax,
		&o.Total,
		&o.PickupDate,
		&o.PaymentReference,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.CustomerID,
		order.Status,
		order.Subtotal,
		order.Tax,
		order.Total,
		order.PickupDate,
		order.PaymentReference,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int64("total", order.Total).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// AppendEvent records a status change on the order timeline.
func (r *orderRepository) AppendEvent(ctx context.Context, tx pgx.Tx, event *model.OrderStatusEvent) error {
	query := `
		INSERT INTO order_status_events (order_id, from_status, to_status, actor_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query, event.OrderID, event.FromStatus, event.ToStatus, event.ActorID).
		Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", event.OrderID.String()).
			Str("to_status", string(event.ToStatus)).
			Msg("failed to record status event")
		return fmt.Errorf("failed to record status event: %w", err)
	}

	return nil
}

// UpdateStatus moves an order from one status to another only if it is still in from.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) (bool, error) {
	query := `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	tag, err := tx.Exec(ctx, query, id, from, to)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("failed to update order status")
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// MarkPaid moves a pending order to paid and records the payment reference.
func (r *orderRepository) MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID, paymentReference string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $2, payment_reference = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4
	`

	tag, err := tx.Exec(ctx, query, id, model.StatusPaid, paymentReference, model.StatusPending)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to mark order paid")
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// DeletePending removes an order that never left pending. Items cascade.
func (r *orderRepository) DeletePending(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM orders WHERE id = $1 AND status = $2`

	if _, err := r.db.Exec(ctx, query, id, model.StatusPending); err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete pending order")
		return fmt.Errorf("failed to delete pending order: %w", err)
	}

	return nil
}

// GetStatus returns the current status, or nil if the order does not exist.
func (r *orderRepository) GetStatus(ctx context.Context, id uuid.UUID) (*model.OrderStatus, error) {
	var status model.OrderStatus
	err := r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order status")
		return nil, fmt.Errorf("failed to query order status: %w", err)
	}
	return &status, nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	if err := scanOrder(r.db.QueryRow(ctx, query, id), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	orders := []model.Order{order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// ListEvents returns the status timeline of an order, oldest first.
func (r *orderRepository) ListEvents(ctx context.Context, id uuid.UUID) ([]model.OrderStatusEvent, error) {
	query := `
		SELECT id, order_id, from_status, to_status, actor_id, created_at
		FROM order_status_events
		WHERE order_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query status events")
		return nil, fmt.Errorf("failed to query status events: %w", err)
	}
	defer rows.Close()

	events := []model.OrderStatusEvent{}
	for rows.Next() {
		var e model.OrderStatusEvent
		if err := rows.Scan(&e.ID, &e.OrderID, &e.FromStatus, &e.ToStatus, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status events: %w", err)
	}

	return events, nil
}
