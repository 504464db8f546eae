package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"bakery-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository_CreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	seedProducts(t, pool, bakeryMenu())
	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	customer := "user-1"
	order := newOrder(&customer, time.Now().Add(48*time.Hour), map[string]int{"1": 2, "3": 1})
	insertOrder(t, repo, order)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, int64(2400), got.Subtotal)
	assert.Equal(t, order.Total, got.Total)
	assert.Equal(t, "user-1", *got.CustomerID)
	assert.Nil(t, got.PaymentReference)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Cinnamon Roll", got.Items[0].ProductName)
	assert.Equal(t, int64(500), got.Items[0].UnitPrice)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "Sourdough", got.Items[1].ProductName)
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewOrderRepository(pool, zerolog.Nop())

	got, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOrderRepository_ItemFailureLeavesNoOrder(t *testing.T) {
	pool := setupTestDB(t)
	seedProducts(t, pool, bakeryMenu())
	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newOrder(nil, time.Now().Add(48*time.Hour), map[string]int{"1": 1})
	order.Items = append(order.Items, model.OrderItem{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: "does-not-exist",
		Quantity:  1,
		UnitPrice: 100,
	})

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	err = repo.CreateOrderItems(ctx, tx, order.Items)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create order item")
	require.NoError(t, tx.Rollback(ctx))

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&count))
	assert.Equal(t, 0, count)
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM order_items").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestOrderRepository_MarkPaid_IsConditional(t *testing.T) {
	pool := setupTestDB(t)
	seedProducts(t, pool, bakeryMenu())
	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newOrder(nil, time.Now().Add(48*time.Hour), map[string]int{"2": 4})
	insertOrder(t, repo, order)

	for i, want := range []bool{true, false} {
		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		updated, err := repo.MarkPaid(ctx, tx, order.ID, "pi_123")
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))
		assert.Equal(t, want, updated, "delivery %d", i+1)
	}

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, got.Status)
	require.NotNil(t, got.PaymentReference)
	assert.Equal(t, "pi_123", *got.PaymentReference)
}

func TestOrderRepository_MarkPaid_ConcurrentDeliveries(t *testing.T) {
	pool := setupTestDB(t)
	seedProducts(t, pool, bakeryMenu())
	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newOrder(nil, time.Now().Add(48*time.Hour), map[string]int{"3": 1})
	insertOrder(t, repo, order)

	const deliveries = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := repo.BeginTx(ctx)
			if !assert.NoError(t, err) {
				return
			}
			defer tx.Rollback(ctx)
			updated, err := repo.MarkPaid(ctx, tx, order.ID, "pi_concurrent")
			if !assert.NoError(t, err) {
				return
			}
			if assert.NoError(t, tx.Commit(ctx)) && updated {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, applied)
}

func TestOrderRepository_UpdateStatusAndTimeline(t *testing.T) {
	pool := setupTestDB(t)
	seedProducts(t, pool, bakeryMenu())
	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order := newOrder(nil, time.Now().Add(48*time.Hour), map[string]int{"1": 1})
	insertOrder(t, repo, order)
	setStatus(t, pool, order.ID, model.StatusPaid)

	actor := "staff-1"
	from := model.StatusPaid

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	updated, err := repo.UpdateStatus(ctx, tx, order.ID, model.StatusPaid, model.StatusBaking)
	require.NoError(t, err)
	require.True(t, updated)
	event := &model.OrderStatusEvent{OrderID: order.ID, FromStatus: &from, ToStatus: model.StatusBaking, ActorID: &actor}
	require.NoError(t, repo.AppendEvent(ctx, tx, event))
	require.NoError(t, tx.Commit(ctx))
	assert.NotZero(t, event.ID)

	// Stale expected status does not overwrite.
	tx, err = repo.BeginTx(ctx)
	require.NoError(t, err)
	updated, err = repo.UpdateStatus(ctx, tx, order.ID, model.StatusPaid, model.StatusCancelled)
	require.NoError(t, err)
	assert.False(t, updated)
	require.NoError(t, tx.Rollback(ctx))

	status, err := repo.GetStatus(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, model.StatusBaking, *status)

	events, err := repo.ListEvents(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.StatusPaid, *events[0].FromStatus)
	assert.Equal(t, model.StatusBaking, events[0].ToStatus)
	assert.Equal(t, "staff-1", *events[0].ActorID)
}

func TestOrderRepository_DeletePending(t *testing.T) {
	pool := setupTestDB(t)
	seedProducts(t, pool, bakeryMenu())
	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	pending := newOrder(nil, time.Now().Add(48*time.Hour), map[string]int{"1": 1})
	paid := newOrder(nil, time.Now().Add(48*time.Hour), map[string]int{"1": 1})
	insertOrder(t, repo, pending)
	insertOrder(t, repo, paid)
	setStatus(t, pool, paid.ID, model.StatusPaid)

	require.NoError(t, repo.DeletePending(ctx, pending.ID))
	require.NoError(t, repo.DeletePending(ctx, paid.ID))

	got, err := repo.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByID(ctx, paid.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestOrderRepository_ListByStatuses(t *testing.T) {
	pool := setupTestDB(t)
	seedProducts(t, pool, bakeryMenu())
	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	base := time.Now().Add(72 * time.Hour)
	late := newOrder(nil, base.Add(6*time.Hour), map[string]int{"1": 1})
	early := newOrder(nil, base, map[string]int{"2": 3})
	pending := newOrder(nil, base.Add(-time.Hour), map[string]int{"3": 1})
	done := newOrder(nil, base.Add(-2*time.Hour), map[string]int{"3": 1})
	for _, o := range []*model.Order{late, early, pending, done} {
		insertOrder(t, repo, o)
	}
	setStatus(t, pool, late.ID, model.StatusReady)
	setStatus(t, pool, early.ID, model.StatusPaid)
	setStatus(t, pool, done.ID, model.StatusPickedUp)

	orders, err := repo.ListByStatuses(ctx, []model.OrderStatus{model.StatusPaid, model.StatusBaking, model.StatusReady}, 100)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, early.ID, orders[0].ID)
	assert.Equal(t, late.ID, orders[1].ID)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Macaron", orders[0].Items[0].ProductName)

	history, err := repo.ListByStatuses(ctx, []model.OrderStatus{model.StatusPickedUp, model.StatusCancelled}, 100)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, done.ID, history[0].ID)
}

func TestOrderRepository_ListByCustomer(t *testing.T) {
	pool := setupTestDB(t)
	seedProducts(t, pool, bakeryMenu())
	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	alice, bob := "alice", "bob"
	first := newOrder(&alice, time.Now().Add(48*time.Hour), map[string]int{"1": 1})
	second := newOrder(&alice, time.Now().Add(48*time.Hour), map[string]int{"2": 1})
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	other := newOrder(&bob, time.Now().Add(48*time.Hour), map[string]int{"3": 1})
	for _, o := range []*model.Order{first, second, other} {
		insertOrder(t, repo, o)
	}

	orders, err := repo.ListByCustomer(ctx, alice, 10)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestOrderRepository_RevenueAndRecent(t *testing.T) {
	pool := setupTestDB(t)
	seedProducts(t, pool, bakeryMenu())
	seedProfile(t, pool, "alice", "Alice Baker", model.RoleCustomer)
	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	alice := "alice"
	paid := newOrder(&alice, time.Now().Add(48*time.Hour), map[string]int{"3": 1})
	pickedUp := newOrder(nil, time.Now().Add(48*time.Hour), map[string]int{"1": 2})
	oldPaid := newOrder(nil, time.Now().Add(48*time.Hour), map[string]int{"2": 1})
	pending := newOrder(nil, time.Now().Add(48*time.Hour), map[string]int{"3": 5})
	cancelled := newOrder(&alice, time.Now().Add(48*time.Hour), map[string]int{"3": 5})
	oldPaid.CreatedAt = time.Now().AddDate(0, -2, 0).UTC().Truncate(time.Microsecond)
	for _, o := range []*model.Order{paid, pickedUp, oldPaid, pending, cancelled} {
		insertOrder(t, repo, o)
	}
	setStatus(t, pool, paid.ID, model.StatusPaid)
	setStatus(t, pool, pickedUp.ID, model.StatusPickedUp)
	setStatus(t, pool, oldPaid.ID, model.StatusBaking)
	setStatus(t, pool, cancelled.ID, model.StatusCancelled)

	monthStart := time.Now().AddDate(0, 0, -7)
	revenue, count, err := repo.RevenueSummary(ctx, monthStart)
	require.NoError(t, err)
	assert.Equal(t, paid.Total+pickedUp.Total+oldPaid.Total, revenue)
	assert.Equal(t, 2, count)

	recent, err := repo.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	names := map[uuid.UUID]string{}
	for _, r := range recent {
		names[r.ID] = r.CustomerName
	}
	assert.Equal(t, "Alice Baker", names[paid.ID])
	assert.Equal(t, "Guest", names[pickedUp.ID])
	assert.Equal(t, oldPaid.ID, recent[4].ID)
}
