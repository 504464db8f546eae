package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"bakery-storefront/internal/auth"
	"bakery-storefront/internal/cart"
	"bakery-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListMenu(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) ListAll(ctx context.Context, principal *model.Principal) ([]model.Product, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) Save(ctx context.Context, principal *model.Principal, req *model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, principal, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) SetActive(ctx context.Context, principal *model.Principal, id string, active bool) (*model.Product, error) {
	args := m.Called(ctx, principal, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockCheckoutService is a mock implementation of service.CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, principal *model.Principal, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	args := m.Called(ctx, principal, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResponse), args.Error(1)
}

func (m *MockCheckoutService) SimulatePayment(ctx context.Context, principal *model.Principal, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	args := m.Called(ctx, principal, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResponse), args.Error(1)
}

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Transition(ctx context.Context, orderID uuid.UUID, target model.OrderStatus, principal *model.Principal) (*model.Order, error) {
	args := m.Called(ctx, orderID, target, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, principal *model.Principal, orderID uuid.UUID) (*model.OrderDetail, error) {
	args := m.Called(ctx, principal, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderDetail), args.Error(1)
}

func (m *MockOrderService) Board(ctx context.Context, principal *model.Principal) (*model.KitchenBoard, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.KitchenBoard), args.Error(1)
}

func (m *MockOrderService) History(ctx context.Context, principal *model.Principal, limit int) ([]model.Order, error) {
	args := m.Called(ctx, principal, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) CustomerOrders(ctx context.Context, principal *model.Principal, limit int) ([]model.Order, error) {
	args := m.Called(ctx, principal, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

// MockPaymentService is a mock implementation of service.PaymentService.
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

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, token string) (*cart.Cart, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, token string, req *model.CartItemRequest) (*cart.Cart, error) {
	args := m.Called(ctx, token, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) SetQuantity(ctx context.Context, token, productID string, req *model.CartQuantityRequest) (*cart.Cart, error) {
	args := m.Called(ctx, token, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, token, productID string) (*cart.Cart, error) {
	args := m.Called(ctx, token, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Overview(ctx context.Context, principal *model.Principal) (*model.OwnerOverview, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OwnerOverview), args.Error(1)
}

// MockSettingsService is a mock implementation of service.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context) (*model.StoreSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoreSettings), args.Error(1)
}

func (m *MockSettingsService) UpdatePickupDays(ctx context.Context, principal *model.Principal, req *model.PickupDaysRequest) (*model.StoreSettings, error) {
	args := m.Called(ctx, principal, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoreSettings), args.Error(1)
}

var (
	staff    = &model.Principal{UserID: "staff-1", Role: model.RoleEmployee}
	owner    = &model.Principal{UserID: "owner-1", Role: model.RoleOwner}
	customer = &model.Principal{UserID: "cust-1", Role: model.RoleCustomer}
)

// newRequest builds a request carrying principal, which may be nil.
func newRequest(method, target, body string, principal *model.Principal) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if principal != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), principal))
	}
	return req
}
