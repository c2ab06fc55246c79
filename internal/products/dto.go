package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopmall/backend/pkg/db/models"
)

// ProductDTO is the wire shape of a catalog entry. Price travels as a
// JSON number.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	VendorID    uuid.UUID `json:"vendor_id"`
	Stock       int       `json:"stock"`
	Category    *string   `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRequest is the vendor payload for a new listing.
type CreateRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,min=0"`
	Stock       int     `json:"stock" validate:"min=0"`
	Category    *string `json:"category,omitempty"`
}

// UpdateRequest carries optional fields for a listing edit.
type UpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
	Category    *string  `json:"category,omitempty"`
}

// ListResponse is a page of products with count metadata.
type ListResponse struct {
	Products []ProductDTO `json:"products"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	Pages    int          `json:"pages"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		VendorID:    p.VendorID,
		Stock:       p.Stock,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (c CreateRequest) ToModel(vendorID uuid.UUID) *models.Product {
	return &models.Product{
		ID:          uuid.New(),
		Name:        c.Name,
		Description: c.Description,
		Price:       decimal.NewFromFloat(c.Price),
		VendorID:    vendorID,
		Stock:       c.Stock,
		Category:    c.Category,
	}
}
