package model

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a bakery order. Amounts are in cents and are fixed at
// checkout time from server-side prices.
type Order struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	CustomerID       *string     `json:"customerId,omitempty" db:"customer_id"`
	Status           OrderStatus `json:"status" db:"status"`
	Subtotal         int64       `json:"subtotal" db:"subtotal_amount"`
	Tax              int64       `json:"tax" db:"tax_amount"`
	Total            int64       `json:"total" db:"total_amount"`
	PickupDate       time.Time   `json:"pickupDate" db:"pickup_date"`
	PaymentReference *string     `json:"paymentReference,omitempty" db:"payment_reference"`
	CreatedAt        time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time   `json:"updatedAt" db:"updated_at"`
	Items            []OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem represents a line item in an order. UnitPrice is the price at
// order time and never changes after creation.
type OrderItem struct {
	ID          uuid.UUID `json:"-" db:"id"`
	OrderID     uuid.UUID `json:"-" db:"order_id"`
	ProductID   string    `json:"productId" db:"product_id"`
	ProductName string    `json:"productName,omitempty" db:"-"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   int64     `json:"unitPrice" db:"unit_price"`
}

// OrderStatusEvent is one entry of an order's status timeline.
type OrderStatusEvent struct {
	ID         int64        `json:"id" db:"id"`
	OrderID    uuid.UUID    `json:"orderId" db:"order_id"`
	FromStatus *OrderStatus `json:"fromStatus,omitempty" db:"from_status"`
	ToStatus   OrderStatus  `json:"toStatus" db:"to_status"`
	ActorID    *string      `json:"actorId,omitempty" db:"actor_id"`
	CreatedAt  time.Time    `json:"createdAt" db:"created_at"`
}

// CheckoutRequest represents the request payload for starting a checkout.
// Client-side prices are never accepted; only ids and quantities.
type CheckoutRequest struct {
	Items      []CheckoutItemRequest `json:"items" validate:"dive"`
	PickupDate string                `json:"pickupDate" validate:"required"`
}

// Pickup parses PickupDate as a calendar day, either "2006-01-02" or an
// RFC 3339 timestamp whose local date is used. The result is midnight UTC.
func (r *CheckoutRequest) Pickup() (time.Time, error) {
	t, err := time.Parse(time.DateOnly, r.PickupDate)
	if err != nil {
		t, err = time.Parse(time.RFC3339, r.PickupDate)
		if err != nil {
			return time.Time{}, ErrInvalidPickupDate
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// CheckoutItemRequest represents a single item in a checkout request.
type CheckoutItemRequest struct {
	ProductID string `json:"id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// CheckoutResponse is returned once the pending order exists and payment
// has been initiated.
type CheckoutResponse struct {
	OrderID            uuid.UUID `json:"orderId"`
	PaymentClientToken string    `json:"paymentClientToken"`
	Subtotal           int64     `json:"subtotal"`
	Tax                int64     `json:"tax"`
	Total              int64     `json:"total"`
}

// OrderDetail is an order with its status timeline.
type OrderDetail struct {
	Order    *Order             `json:"order"`
	Timeline []OrderStatusEvent `json:"timeline"`
}

// StatusUpdateRequest is the staff payload for moving an order forward.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// KitchenBoard groups active orders by the column they appear in.
type KitchenBoard struct {
	ToBake      []Order   `json:"toBake"`
	Baking      []Order   `json:"baking"`
	Ready       []Order   `json:"ready"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// RecentOrder is a row of the owner's recent transactions list.
type RecentOrder struct {
	ID           uuid.UUID   `json:"id"`
	CustomerName string      `json:"customerName"`
	Status       OrderStatus `json:"status"`
	Total        int64       `json:"total"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// OwnerOverview is the owner's financial summary.
type OwnerOverview struct {
	TotalRevenue    int64         `json:"totalRevenue"`
	OrdersThisMonth int           `json:"ordersThisMonth"`
	RecentOrders    []RecentOrder `json:"recentOrders"`
}
