package model

// CartItemRequest adds a product to a cart.
type CartItemRequest struct {
	ProductID string `json:"id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1,lte=99"`
}

// CartQuantityRequest sets a line quantity. Zero removes the line.
type CartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=99"`
}
