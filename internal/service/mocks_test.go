package service

import (
	"context"
	"time"

	"bakery-storefront/internal/cart"
	"bakery-storefront/internal/model"
	"bakery-storefront/internal/payment"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	// Return a MockTx interface value, not a pointer
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) AppendEvent(ctx context.Context, tx pgx.Tx, event *model.OrderStatusEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to model.OrderStatus) (bool, error) {
	args := m.Called(ctx, tx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, tx pgx.Tx, id uuid.UUID, paymentReference string) (bool, error) {
	args := m.Called(ctx, tx, id, paymentReference)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) DeletePending(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) GetStatus(ctx context.Context, id uuid.UUID) (*model.OrderStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderStatus), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListEvents(ctx context.Context, id uuid.UUID) ([]model.OrderStatusEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderStatusEvent), args.Error(1)
}

func (m *MockOrderRepository) ListByStatuses(ctx context.Context, statuses []model.OrderStatus, limit int) ([]model.Order, error) {
	args := m.Called(ctx, statuses, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]model.Order, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) RevenueSummary(ctx context.Context, since time.Time) (int64, int, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) ListRecent(ctx context.Context, limit int) ([]model.RecentOrder, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecentOrder), args.Error(1)
}

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListActive(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetActiveByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Upsert(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	args := m.Called(ctx, id, active)
	return args.Bool(0), args.Error(1)
}

// MockSettingsRepository is a mock implementation of SettingsRepository.
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*model.StoreSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoreSettings), args.Error(1)
}

func (m *MockSettingsRepository) UpdatePickupDays(ctx context.Context, days []int) (*model.StoreSettings, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoreSettings), args.Error(1)
}

// MockGateway is a mock payment gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) CreateIntent(ctx context.Context, orderID uuid.UUID, amount int64) (*payment.Intent, error) {
	args := m.Called(ctx, orderID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}

func (m *MockGateway) ParseEvent(payload []byte, signature string) (*payment.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Event), args.Error(1)
}

// MockPublisher is a mock event publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) OrderCreated(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPublisher) OrderPaid(ctx context.Context, orderID uuid.UUID, paymentReference string) error {
	args := m.Called(ctx, orderID, paymentReference)
	return args.Error(0)
}

func (m *MockPublisher) StatusChanged(ctx context.Context, orderID uuid.UUID, from, to model.OrderStatus, actorID *string) error {
	args := m.Called(ctx, orderID, from, to, actorID)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockBoardCache is a mock kitchen board cache.
type MockBoardCache struct {
	mock.Mock
}

func (m *MockBoardCache) Get(ctx context.Context) (*model.KitchenBoard, int64, error) {
	args := m.Called(ctx)
	gen, _ := args.Get(1).(int64)
	if args.Get(0) == nil {
		return nil, gen, args.Error(2)
	}
	return args.Get(0).(*model.KitchenBoard), gen, args.Error(2)
}

func (m *MockBoardCache) Set(ctx context.Context, b *model.KitchenBoard, generation int64) error {
	args := m.Called(ctx, b, generation)
	return args.Error(0)
}

func (m *MockBoardCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockPaymentService is a mock of the confirmation bridge.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) HandleNotification(ctx context.Context, payload []byte, signature string) error {
	args := m.Called(ctx, payload, signature)
	return args.Error(0)
}

func (m *MockPaymentService) ConfirmPayment(ctx context.Context, orderID uuid.UUID, reference string) (string, error) {
	args := m.Called(ctx, orderID, reference)
	return args.String(0), args.Error(1)
}

// MockCartStore is a mock cart store.
type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Get(ctx context.Context, token string) (*cart.Cart, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartStore) Save(ctx context.Context, token string, c *cart.Cart) error {
	args := m.Called(ctx, token, c)
	return args.Error(0)
}

func (m *MockCartStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx; repositories are mocked so these are never reached.
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

func statusPtr(s model.OrderStatus) *model.OrderStatus {
	return &s
}

func strPtr(s string) *string {
	return &s
}

var (
	staff    = &model.Principal{UserID: "staff-1", Role: model.RoleEmployee, FullName: "Sam Baker"}
	owner    = &model.Principal{UserID: "owner-1", Role: model.RoleOwner, FullName: "Olive Owner"}
	customer = &model.Principal{UserID: "cust-1", Role: model.RoleCustomer, FullName: "Casey"}
)
