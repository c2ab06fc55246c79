package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopmall/backend/pkg/db/models"
	"github.com/shopmall/backend/pkg/enums"
)

// OrderItemDTO is one purchased line with the price captured at
// purchase time.
type OrderItemDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// OrderDTO is the wire shape of an order with its items.
type OrderDTO struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Total     float64           `json:"total"`
	Status    enums.OrderStatus `json:"status"`
	Items     []OrderItemDTO    `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// UpdateStatusRequest carries the requested status transition.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(o.Items))
	for i := range o.Items {
		item := o.Items[i]
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.InexactFloat64(),
		})
	}
	return &OrderDTO{
		ID:        o.ID,
		UserID:    o.UserID,
		Total:     o.Total.InexactFloat64(),
		Status:    o.Status,
		Items:     items,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
