package repository

import (
	"context"
	"testing"
	"time"

	"bakery-storefront/internal/database/dbtest"
	"bakery-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

// setupTestDB starts a container with the full schema and empties it.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	testDB := dbtest.Setup(t)
	dbtest.Cleanup(t, testDB.Pool)
	return testDB.Pool
}

func setupMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// seedProducts inserts test products into the database.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	t.Helper()
	ctx := context.Background()

	query := `
		INSERT INTO products (id, name, description, price, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, p := range products {
		_, err := pool.Exec(ctx, query, p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.IsActive)
		require.NoError(t, err)
	}
}

func bakeryMenu() []model.Product {
	return []model.Product{
		{ID: "1", Name: "Cinnamon Roll", Price: 500, IsActive: true},
		{ID: "2", Name: "Macaron", Price: 375, IsActive: true},
		{ID: "3", Name: "Sourdough", Price: 1400, IsActive: true},
		{ID: "4", Name: "Focaccia", Price: 1600, IsActive: false},
	}
}

func seedProfile(t *testing.T, pool *pgxpool.Pool, id, name string, role model.Role) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO profiles (id, full_name, role) VALUES ($1, $2, $3)`, id, name, role)
	require.NoError(t, err)
}

// newOrder builds a pending order whose items reference bakeryMenu products.
func newOrder(customerID *string, pickup time.Time, lines map[string]int) *model.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	prices := map[string]int64{}
	for _, p := range bakeryMenu() {
		prices[p.ID] = p.Price
	}

	o := &model.Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     model.StatusPending,
		PickupDate: pickup.UTC().Truncate(time.Microsecond),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for productID, qty := range lines {
		o.Items = append(o.Items, model.OrderItem{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: productID,
			Quantity:  qty,
			UnitPrice: prices[productID],
		})
		o.Subtotal += prices[productID] * int64(qty)
	}
	o.Tax = o.Subtotal * 82 / 1000
	o.Total = o.Subtotal + o.Tax
	return o
}

// insertOrder writes order and items in one committed transaction.
func insertOrder(t *testing.T, repo OrderRepository, o *model.Order) {
	t.Helper()
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	require.NoError(t, repo.CreateOrder(ctx, tx, o))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, o.Items))
	require.NoError(t, tx.Commit(ctx))
}

// setStatus forces an order into a status for read-side tests.
func setStatus(t *testing.T, pool *pgxpool.Pool, id uuid.UUID, status model.OrderStatus) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	require.NoError(t, err)
}
