// Package cart holds the shopper's cart between page loads. Totals shown
// here are for display; checkout always reprices on the server.
package cart

import (
	"encoding/json"
	"fmt"
	"time"

	"bakery-storefront/internal/model"
	"bakery-storefront/internal/pricing"

	"github.com/shopspring/decimal"
)

// LineItem is a product snapshot plus quantity.
type LineItem struct {
	ProductID string `json:"id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"price"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Cart is the state container. Every mutation recomputes the totals.
type Cart struct {
	Items     []LineItem `json:"items"`
	Subtotal  int64      `json:"subtotal"`
	Tax       int64      `json:"tax"`
	Total     int64      `json:"total"`
	UpdatedAt time.Time  `json:"updatedAt"`

	taxRate decimal.Decimal
}

// New returns an empty cart priced at taxRate.
func New(taxRate decimal.Decimal) *Cart {
	return &Cart{Items: []LineItem{}, taxRate: taxRate}
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts one unit of p in the cart.
func (c *Cart) Add(p model.Product) {
	c.AddN(p, 1)
}

// AddN puts qty units of p in the cart, refreshing the price snapshot of
// an existing line. qty below one is ignored.
func (c *Cart) AddN(p model.Product, qty int) {
	if qty < 1 {
		return
	}
	if i := c.indexOf(p.ID); i >= 0 {
		c.Items[i].Quantity += qty
		c.Items[i].Name = p.Name
		c.Items[i].UnitPrice = p.Price
		c.Items[i].ImageURL = p.ImageURL
	} else {
		c.Items = append(c.Items, LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			ImageURL:  p.ImageURL,
			Quantity:  qty,
		})
	}
	c.recompute()
}

// Remove drops the line for productID. It reports whether a line existed.
func (c *Cart) Remove(productID string) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.recompute()
	return true
}

// SetQuantity overwrites a line quantity; qty < 1 removes the line.
func (c *Cart) SetQuantity(productID string, qty int) bool {
	if qty < 1 {
		return c.Remove(productID)
	}
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.Items[i].Quantity = qty
	c.recompute()
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
	c.recompute()
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Lines converts the cart into pricing input for checkout.
func (c *Cart) Lines() []pricing.Line {
	lines := make([]pricing.Line, len(c.Items))
	for i, item := range c.Items {
		lines[i] = pricing.Line{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return lines
}

func (c *Cart) recompute() {
	var subtotal int64
	for _, item := range c.Items {
		subtotal += item.UnitPrice * int64(item.Quantity)
	}
	c.Subtotal = subtotal
	c.Tax = pricing.Tax(subtotal, c.taxRate)
	c.Total = subtotal + c.Tax
	c.UpdatedAt = time.Now().UTC()
}

// Marshal encodes the cart for storage.
func Marshal(c *Cart) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal cart: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a stored cart. Stored totals are ignored and recomputed,
// and lines with a non-positive quantity are dropped.
func Unmarshal(data []byte, taxRate decimal.Decimal) (*Cart, error) {
	var stored Cart
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	c := New(taxRate)
	for _, item := range stored.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			continue
		}
		c.Items = append(c.Items, item)
	}
	updated := stored.UpdatedAt
	c.recompute()
	if !updated.IsZero() {
		c.UpdatedAt = updated
	}
	return c, nil
}
