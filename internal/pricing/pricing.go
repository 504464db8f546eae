// Package pricing computes order totals from server-trusted unit prices.
package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"bakery-storefront/internal/model"
)

// DefaultTaxRate is the sales tax applied to every order.
var DefaultTaxRate = decimal.RequireFromString("0.082")

// MaxQuantity is the most units of one product a line may carry. The cart
// enforces the same limit.
const MaxQuantity = 99

// DefaultMinimumOrder is the smallest total the payment processor accepts, in cents.
const DefaultMinimumOrder int64 = 50

// UnknownItemPolicy decides what happens to a line whose product cannot be priced.
type UnknownItemPolicy string

const (
	// RejectUnknown fails the whole computation.
	RejectUnknown UnknownItemPolicy = "reject"
	// DropUnknown removes the line and prices the rest.
	DropUnknown UnknownItemPolicy = "drop"
)

// ParsePolicy maps a config value to a policy.
func ParsePolicy(s string) (UnknownItemPolicy, error) {
	switch UnknownItemPolicy(s) {
	case RejectUnknown, DropUnknown:
		return UnknownItemPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown item policy %q", s)
	}
}

// Line is a requested product and quantity.
type Line struct {
	ProductID string
	Quantity  int
}

// PricedLine is a resolved line with the unit price it was charged at.
type PricedLine struct {
	ProductID string
	Quantity  int
	UnitPrice int64
}

// Quote is the result of a computation. All amounts are in cents.
type Quote struct {
	Lines    []PricedLine
	Dropped  []string
	Subtotal int64
	Tax      int64
	Total    int64
}

// Calculator computes totals. The zero value is not usable; use New.
type Calculator struct {
	taxRate      decimal.Decimal
	minimumOrder int64
	policy       UnknownItemPolicy
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithTaxRate overrides the tax rate.
func WithTaxRate(rate decimal.Decimal) Option {
	return func(c *Calculator) { c.taxRate = rate }
}

// WithMinimumOrder overrides the minimum total in cents.
func WithMinimumOrder(cents int64) Option {
	return func(c *Calculator) { c.minimumOrder = cents }
}

// WithUnknownItemPolicy overrides how unpriceable lines are handled.
func WithUnknownItemPolicy(p UnknownItemPolicy) Option {
	return func(c *Calculator) { c.policy = p }
}

// New creates a Calculator with the storefront defaults.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		taxRate:      DefaultTaxRate,
		minimumOrder: DefaultMinimumOrder,
		policy:       RejectUnknown,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TaxRate returns the configured rate.
func (c *Calculator) TaxRate() decimal.Decimal {
	return c.taxRate
}

// Calculate prices lines against prices, a product id to unit price (cents)
// map that must come from the datastore. Ids absent from prices are unknown.
func (c *Calculator) Calculate(lines []Line, prices map[string]int64) (*Quote, error) {
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}

	q := &Quote{Lines: make([]PricedLine, 0, len(lines))}
	var unknown []string
	for _, l := range lines {
		if l.Quantity < 1 || l.Quantity > MaxQuantity {
			return nil, model.ErrInvalidQuantity
		}

		price, ok := prices[l.ProductID]
		if !ok {
			unknown = append(unknown, l.ProductID)
			continue
		}

		amount, ok := lineAmount(price, l.Quantity)
		if !ok || amount > math.MaxInt64-q.Subtotal {
			return nil, model.ErrInvalidQuantity
		}

		q.Lines = append(q.Lines, PricedLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: price,
		})
		q.Subtotal += amount
	}

	if len(q.Lines) == 0 {
		return nil, model.ErrNoValidItems
	}
	if len(unknown) > 0 {
		if c.policy == RejectUnknown {
			return nil, model.ErrProductNotFound
		}
		q.Dropped = unknown
	}

	q.Tax = c.Tax(q.Subtotal)
	if q.Tax > math.MaxInt64-q.Subtotal {
		return nil, model.ErrInvalidQuantity
	}
	q.Total = q.Subtotal + q.Tax

	if q.Total < c.minimumOrder {
		return nil, model.ErrBelowMinimumOrder
	}

	return q, nil
}

// lineAmount is price*qty, false when it does not fit in int64.
func lineAmount(price int64, qty int) (int64, bool) {
	if price < 0 {
		return 0, false
	}
	if price > 0 && int64(qty) > math.MaxInt64/price {
		return 0, false
	}
	return price * int64(qty), true
}

// Tax returns subtotal times the tax rate, rounded half away from zero.
func (c *Calculator) Tax(subtotal int64) int64 {
	return Tax(subtotal, c.taxRate)
}

// Tax returns subtotal times rate rounded to whole cents, half away from zero.
func Tax(subtotal int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(subtotal).Mul(rate).Round(0).IntPart()
}
