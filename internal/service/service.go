package service

import (
	"context"

	"bakery-storefront/internal/cart"
	"bakery-storefront/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for the menu.
type ProductService interface {
	// ListMenu retrieves active products with pagination.
	ListMenu(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single active product.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// ListAll retrieves the full menu including hidden products. Staff only.
	ListAll(ctx context.Context, principal *model.Principal) ([]model.Product, error)

	// Save creates or updates a product. Owner only.
	Save(ctx context.Context, principal *model.Principal, req *model.ProductRequest) (*model.Product, error)

	// SetActive shows or hides a product. Owner only.
	SetActive(ctx context.Context, principal *model.Principal, id string, active bool) (*model.Product, error)
}

// CheckoutService turns a basket into a pending order awaiting payment.
type CheckoutService interface {
	// Checkout prices the request, persists a pending order and opens a payment intent.
	Checkout(ctx context.Context, principal *model.Principal, req *model.CheckoutRequest) (*model.CheckoutResponse, error)

	// SimulatePayment creates an order and confirms it without a processor.
	SimulatePayment(ctx context.Context, principal *model.Principal, req *model.CheckoutRequest) (*model.CheckoutResponse, error)
}

// OrderService manages the order lifecycle after payment.
type OrderService interface {
	// Transition moves an order to target on behalf of a staff member.
	Transition(ctx context.Context, orderID uuid.UUID, target model.OrderStatus, principal *model.Principal) (*model.Order, error)

	// GetOrder returns an order and its timeline. Customers only see their own orders.
	GetOrder(ctx context.Context, principal *model.Principal, orderID uuid.UUID) (*model.OrderDetail, error)

	// Board returns the kitchen board.
	Board(ctx context.Context, principal *model.Principal) (*model.KitchenBoard, error)

	// History returns finished orders for staff.
	History(ctx context.Context, principal *model.Principal, limit int) ([]model.Order, error)

	// CustomerOrders returns the caller's own orders.
	CustomerOrders(ctx context.Context, principal *model.Principal, limit int) ([]model.Order, error)
}

// PaymentService confirms payments reported by the processor.
type PaymentService interface {
	// HandleNotification verifies and applies a webhook delivery.
	HandleNotification(ctx context.Context, payload []byte, signature string) error

	// ConfirmPayment marks a pending order paid. It returns the outcome label.
	ConfirmPayment(ctx context.Context, orderID uuid.UUID, reference string) (string, error)
}

// CartService edits carts addressed by device token.
type CartService interface {
	Get(ctx context.Context, token string) (*cart.Cart, error)
	AddItem(ctx context.Context, token string, req *model.CartItemRequest) (*cart.Cart, error)
	SetQuantity(ctx context.Context, token, productID string, req *model.CartQuantityRequest) (*cart.Cart, error)
	RemoveItem(ctx context.Context, token, productID string) (*cart.Cart, error)
	Clear(ctx context.Context, token string) error
}

// ReportService builds the owner's dashboard.
type ReportService interface {
	Overview(ctx context.Context, principal *model.Principal) (*model.OwnerOverview, error)
}

// SettingsService manages store-wide settings.
type SettingsService interface {
	Get(ctx context.Context) (*model.StoreSettings, error)
	UpdatePickupDays(ctx context.Context, principal *model.Principal, req *model.PickupDaysRequest) (*model.StoreSettings, error)
}

func requireStaff(p *model.Principal) error {
	if p == nil {
		return model.ErrUnauthorized
	}
	if !p.IsStaff() {
		return model.ErrForbidden
	}
	return nil
}

func requireOwner(p *model.Principal) error {
	if p == nil {
		return model.ErrUnauthorized
	}
	if !p.IsOwner() {
		return model.ErrForbidden
	}
	return nil
}
