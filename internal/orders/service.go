package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopmall/backend/pkg/db/models"
	"github.com/shopmall/backend/pkg/enums"
	pkgerrors "github.com/shopmall/backend/pkg/errors"
	"github.com/shopmall/backend/pkg/pagination"
)

// ListResponse is a page of orders with count metadata.
type ListResponse struct {
	Orders []OrderDTO `json:"orders"`
	Total  int64      `json:"total"`
	Page   int        `json:"page"`
	Pages  int        `json:"pages"`
}

// VendorOrderDTO is an order restricted to one vendor's lines, with a
// total covering only those lines.
type VendorOrderDTO struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Status    enums.OrderStatus `json:"status"`
	Items     []OrderItemDTO    `json:"items"`
	Total     float64           `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
}

// Service exposes order reads and the status sub-machine.
type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID, role enums.Role, params pagination.Params) (*ListResponse, error)
	Get(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID) (*OrderDTO, error)
	ListVendorOrders(ctx context.Context, vendorID uuid.UUID) ([]VendorOrderDTO, error)
	ListAll(ctx context.Context, params pagination.Params) (*ListResponse, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID, status string) (enums.OrderStatus, error)
}

// ServiceParams bundles the dependencies for the orders service.
type ServiceParams struct {
	Repo *Repository
}

type service struct {
	repo *Repository
}

// NewService constructs an orders service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, role enums.Role, params pagination.Params) (*ListResponse, error) {
	params = params.Normalize()

	var (
		rows  []models.Order
		total int64
		err   error
	)
	if role == enums.RoleAdmin {
		rows, total, err = s.repo.ListAll(ctx, params)
	} else {
		rows, total, err = s.repo.ListByUser(ctx, userID, params)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return buildListResponse(rows, total, params), nil
}

func (s *service) Get(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch {
	case role == enums.RoleAdmin:
	case order.UserID == actorID:
	case role == enums.RoleVendor:
		ids, err := s.repo.VendorProductIDsInOrder(ctx, orderID, actorID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check vendor products")
		}
		if len(ids) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "无权查看该订单")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "无权查看该订单")
	}

	return FromModel(order), nil
}

func (s *service) ListVendorOrders(ctx context.Context, vendorID uuid.UUID) ([]VendorOrderDTO, error) {
	rows, err := s.repo.ListContainingVendorProducts(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vendor orders")
	}

	result := make([]VendorOrderDTO, 0, len(rows))
	for i := range rows {
		order := rows[i]
		ids, err := s.repo.VendorProductIDsInOrder(ctx, order.ID, vendorID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "scope vendor lines")
		}
		owned := make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			owned[id] = struct{}{}
		}

		items := make([]OrderItemDTO, 0, len(order.Items))
		total := decimal.Zero
		for j := range order.Items {
			item := order.Items[j]
			if _, ok := owned[item.ProductID]; !ok {
				continue
			}
			items = append(items, OrderItemDTO{
				ID:        item.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price.InexactFloat64(),
			})
			total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if len(items) == 0 {
			continue
		}
		result = append(result, VendorOrderDTO{
			ID:        order.ID,
			UserID:    order.UserID,
			Status:    order.Status,
			Items:     items,
			Total:     total.InexactFloat64(),
			CreatedAt: order.CreatedAt,
		})
	}
	return result, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) (*ListResponse, error) {
	params = params.Normalize()
	rows, total, err := s.repo.ListAll(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return buildListResponse(rows, total, params), nil
}

// UpdateStatus validates the requested status before any authorization
// check, then applies the role sub-machine: customers never transition,
// vendors may set processing or shipped on orders containing their own
// products, admins may set anything.
func (s *service) UpdateStatus(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID, status string) (enums.OrderStatus, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "无效的订单状态")
	}

	if _, err := s.loadOrder(ctx, orderID); err != nil {
		return "", err
	}

	switch role {
	case enums.RoleAdmin:
	case enums.RoleVendor:
		if parsed != enums.OrderStatusProcessing && parsed != enums.OrderStatusShipped {
			return "", pkgerrors.New(pkgerrors.CodeForbidden, "无权设置该订单状态")
		}
		ids, err := s.repo.VendorProductIDsInOrder(ctx, orderID, actorID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check vendor products")
		}
		if len(ids) == 0 {
			return "", pkgerrors.New(pkgerrors.CodeForbidden, "无权操作该订单")
		}
	default:
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "无权更新订单状态")
	}

	if err := s.repo.UpdateStatus(ctx, orderID, string(parsed)); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	return parsed, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "订单不存在")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func buildListResponse(rows []models.Order, total int64, params pagination.Params) *ListResponse {
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &ListResponse{
		Orders: dtos,
		Total:  total,
		Page:   params.Page,
		Pages:  pagination.TotalPages(total, params.Limit),
	}
}
