package model

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusBaking    OrderStatus = "baking"
	StatusReady     OrderStatus = "ready"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusCancelled OrderStatus = "cancelled"
)

// AllStatuses returns every lifecycle state in forward order.
func AllStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPending,
		StatusPaid,
		StatusBaking,
		StatusReady,
		StatusPickedUp,
		StatusCancelled,
	}
}

// ParseOrderStatus validates a status string from the outside world.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range AllStatuses() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// AllowedTransitions defines the single forward steps an order can take.
// pending -> paid belongs to payment confirmation, every other edge to staff.
func AllowedTransitions() map[OrderStatus][]OrderStatus {
	return map[OrderStatus][]OrderStatus{
		StatusPending:   {StatusPaid, StatusCancelled},
		StatusPaid:      {StatusBaking, StatusCancelled},
		StatusBaking:    {StatusReady, StatusCancelled},
		StatusReady:     {StatusPickedUp, StatusCancelled},
		StatusPickedUp:  {},
		StatusCancelled: {},
	}
}

// CanTransitionTo reports whether target is one step forward from s.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range AllowedTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return len(AllowedTransitions()[s]) == 0
}

// OnKitchenBoard reports whether orders in this state are shown to the kitchen.
func (s OrderStatus) OnKitchenBoard() bool {
	return s == StatusPaid || s == StatusBaking || s == StatusReady
}

// CountsAsRevenue reports whether an order in this state has been paid for
// and not cancelled.
func (s OrderStatus) CountsAsRevenue() bool {
	return s != StatusPending && s != StatusCancelled
}
