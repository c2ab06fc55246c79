package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddRequest puts a product into the cart, merging with any existing
// line for the same product.
type AddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required"`
}

// UpdateRequest replaces the quantity of a cart line. Zero or negative
// removes the line.
type UpdateRequest struct {
	Quantity int `json:"quantity"`
}

// ItemDTO is one cart line joined with its product.
type ItemDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Subtotal    float64   `json:"subtotal"`
}

// CartDTO is the full cart view with the running total.
type CartDTO struct {
	Items []ItemDTO `json:"items"`
	Total float64   `json:"total"`
}

func lineSubtotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}
