package repository

import (
	"context"
	"fmt"
	"time"

	"bakery-storefront/internal/model"

	"github.com/google/uuid"
)

func (r *orderRepository) listOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachItems loads the line items of orders in one query and sets Items
// on each, with product names for display.
func (r *orderRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []model.OrderItem{}
	}

	query := `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, p.name
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("orders", len(orders)).Msg("failed to query order items")
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return fmt.Errorf("error iterating order items: %w", err)
	}

	return nil
}

// ListByStatuses returns orders in any of statuses, ordered by pickup date.
func (r *orderRepository) ListByStatuses(ctx context.Context, statuses []model.OrderStatus, limit int) ([]model.Order, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status = ANY($1)
		ORDER BY pickup_date, created_at
		LIMIT $2
	`
	return r.listOrders(ctx, query, names, limit)
}

// ListByCustomer returns a customer's orders, newest first.
func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return r.listOrders(ctx, query, customerID, limit)
}

// RevenueSummary returns lifetime revenue and the count of revenue orders since a point in time.
func (r *orderRepository) RevenueSummary(ctx context.Context, since time.Time) (int64, int, error) {
	query := `
		SELECT
			COALESCE(SUM(total_amount), 0)::BIGINT,
			COUNT(*) FILTER (WHERE created_at >= $3)::INT
		FROM orders
		WHERE status NOT IN ($1, $2)
	`

	var (
		revenue int64
		count   int
	)
	err := r.db.QueryRow(ctx, query, model.StatusPending, model.StatusCancelled, since).Scan(&revenue, &count)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query revenue summary")
		return 0, 0, fmt.Errorf("failed to query revenue summary: %w", err)
	}

	return revenue, count, nil
}

// ListRecent returns the latest orders with the customer's name.
func (r *orderRepository) ListRecent(ctx context.Context, limit int) ([]model.RecentOrder, error) {
	query := `
		SELECT o.id, COALESCE(NULLIF(p.full_name, ''), 'Guest'), o.status, o.total_amount, o.created_at
		FROM orders o
		LEFT JOIN profiles p ON p.id = o.customer_id
		ORDER BY o.created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query recent orders")
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	defer rows.Close()

	recent := []model.RecentOrder{}
	for rows.Next() {
		var ro model.RecentOrder
		if err := rows.Scan(&ro.ID, &ro.CustomerName, &ro.Status, &ro.Total, &ro.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent order: %w", err)
		}
		recent = append(recent, ro)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent orders: %w", err)
	}

	return recent, nil
}
