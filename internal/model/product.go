package model

import "time"

// Product represents a baked good on the menu. Price is in cents.
type Product struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       int64     `json:"price" db:"price"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductRequest is the menu editor payload. An empty ID inserts a new product.
type ProductRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
	Price       int64  `json:"price" validate:"gte=0"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	IsActive    bool   `json:"isActive"`
}

// ProductActiveRequest toggles menu visibility.
type ProductActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
