package repository

import (
	"context"
	"time"

	"bakery-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the part of *pgxpool.Pool the repositories use. pgxmock pools
// satisfy it as well.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// ListActive retrieves the public menu with pagination support.
	ListActive(ctx context.Context, limit, offset int) ([]model.Product, error)

	// ListAll retrieves every product, including hidden ones.
	ListAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil if absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetActiveByIDs retrieves the active products among ids. Inactive and
	// unknown ids are simply missing from the result.
	GetActiveByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Upsert inserts or updates a product and fills its timestamps.
	Upsert(ctx context.Context, product *model.Product) error

	// SetActive changes menu visibility. Returns false if the product does not exist.
	SetActive(ctx context.Context, id string, active bool) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// AppendEvent records a status change on the order timeline.
	AppendEvent(ctx context.Context, tx pgx.Tx, event *model.OrderStatusEvent) error

	// UpdateStatus moves an order from one status to another only if it is
	// still in from. Returns false when no row matched.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) (bool, error)

	// MarkPaid moves a pending order to paid and records the payment
	// reference. Returns false when the order was not pending.
	MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID, paymentReference string) (bool, error)

	// DeletePending removes an order that never left pending.
	DeletePending(ctx context.Context, id uuid.UUID) error

	// GetStatus returns the current status, or nil if the order does not exist.
	GetStatus(ctx context.Context, id uuid.UUID) (*model.OrderStatus, error)

	// GetByID retrieves an order by its ID along with its items. Returns nil if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListEvents returns the status timeline of an order, oldest first.
	ListEvents(ctx context.Context, id uuid.UUID) ([]model.OrderStatusEvent, error)

	// ListByStatuses returns orders in any of statuses with their items,
	// ordered by pickup date.
	ListByStatuses(ctx context.Context, statuses []model.OrderStatus, limit int) ([]model.Order, error)

	// ListByCustomer returns a customer's orders with items, newest first.
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]model.Order, error)

	// RevenueSummary returns total revenue of paid, non-cancelled orders and
	// the number of such orders created at or after since.
	RevenueSummary(ctx context.Context, since time.Time) (int64, int, error)

	// ListRecent returns the latest orders with the customer's name.
	ListRecent(ctx context.Context, limit int) ([]model.RecentOrder, error)
}

// ProfileRepository resolves account roles.
type ProfileRepository interface {
	// GetByID returns the profile, or nil if none exists.
	GetByID(ctx context.Context, id string) (*model.Profile, error)
}

// SettingsRepository reads and writes the single store settings row.
type SettingsRepository interface {
	Get(ctx context.Context) (*model.StoreSettings, error)
	UpdatePickupDays(ctx context.Context, days []int) (*model.StoreSettings, error)
}
