package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopmall/backend/internal/products"
	"github.com/shopmall/backend/pkg/db/models"
	pkgerrors "github.com/shopmall/backend/pkg/errors"
)

// Service exposes the shopping cart operations.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateRequest) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
}

// ServiceParams bundles the dependencies for the cart service.
type ServiceParams struct {
	CartRepo    *Repository
	ProductRepo *products.Repository
}

type service struct {
	cartRepo    *Repository
	productRepo *products.Repository
}

// NewService constructs a cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	return &service{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
	}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	return s.buildCart(ctx, userID)
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*CartDTO, error) {
	if req.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "缺少产品ID")
	}

	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "产品不存在")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	existing, err := s.cartRepo.FindByUserAndProduct(ctx, userID, req.ProductID)
	switch {
	case err == nil:
		merged := existing.Quantity + req.Quantity
		if merged <= 0 {
			if err := s.cartRepo.Delete(ctx, existing.ID); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
			}
		} else if err := s.cartRepo.UpdateQuantity(ctx, existing.ID, merged); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if req.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "数量必须大于0")
		}
		item := &models.CartItem{
			ID:        uuid.New(),
			UserID:    userID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if err := s.cartRepo.Create(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart item")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart item")
	}

	return s.buildCart(ctx, userID)
}

func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateRequest) (*CartDTO, error) {
	item, err := s.loadOwnedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Quantity <= 0 {
		if err := s.cartRepo.Delete(ctx, item.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
		}
	} else if err := s.cartRepo.UpdateQuantity(ctx, item.ID, req.Quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}

	return s.buildCart(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	item, err := s.loadOwnedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Delete(ctx, item.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
	}
	return s.buildCart(ctx, userID)
}

func (s *service) loadOwnedItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "购物车项不存在")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}
	if item.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "购物车项不存在")
	}
	return item, nil
}

func (s *service) buildCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	rows, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart")
	}

	cart := &CartDTO{Items: make([]ItemDTO, 0, len(rows))}
	total := decimal.Zero
	for i := range rows {
		row := rows[i]
		product, err := s.productRepo.FindByID(ctx, row.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// product was deleted after it went into the cart
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		subtotal := lineSubtotal(product.Price, row.Quantity)
		total = total.Add(subtotal)
		cart.Items = append(cart.Items, ItemDTO{
			ID:          row.ID,
			ProductID:   row.ProductID,
			ProductName: product.Name,
			Price:       product.Price.InexactFloat64(),
			Quantity:    row.Quantity,
			Subtotal:    subtotal.InexactFloat64(),
		})
	}
	cart.Total = total.InexactFloat64()
	return cart, nil
}
