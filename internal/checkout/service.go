package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopmall/backend/internal/cart"
	"github.com/shopmall/backend/internal/orders"
	"github.com/shopmall/backend/pkg/db"
	"github.com/shopmall/backend/pkg/db/models"
	"github.com/shopmall/backend/pkg/enums"
	pkgerrors "github.com/shopmall/backend/pkg/errors"
)

// UnavailableProduct describes one cart line that cannot be fulfilled.
type UnavailableProduct struct {
	ProductID         uuid.UUID `json:"product_id"`
	ProductName       string    `json:"product_name"`
	RequestedQuantity int       `json:"requested_quantity"`
	AvailableStock    int       `json:"available_stock"`
}

// Service converts a cart into an order atomically.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error)
}

// ServiceParams bundles the checkout dependencies.
type ServiceParams struct {
	DB         *db.Client
	Repo       *Repository
	CartRepo   *cart.Repository
	OrdersRepo *orders.Repository
}

type service struct {
	db         *db.Client
	repo       *Repository
	cartRepo   *cart.Repository
	ordersRepo *orders.Repository
}

// NewService constructs the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("checkout repository is required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.OrdersRepo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	return &service{
		db:         params.DB,
		repo:       params.Repo,
		cartRepo:   params.CartRepo,
		ordersRepo: params.OrdersRepo,
	}, nil
}

// Checkout validates availability for every cart line, then inside one
// transaction creates the order, decrements stock with a guarded
// update, and clears the cart. Any shortfall aborts the transaction so
// no partial writes survive.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "购物车为空，无法结账")
	}

	products, unavailable, err := s.checkAvailability(ctx, items)
	if err != nil {
		return nil, err
	}
	if len(unavailable) > 0 {
		return nil, insufficientStockError(unavailable)
	}

	orderID := uuid.New()
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		order := &models.Order{
			ID:     orderID,
			UserID: userID,
			Status: enums.OrderStatusPending,
		}
		total := decimal.Zero
		for _, item := range items {
			product := products[item.ProductID]
			line := models.OrderItem{
				ID:        uuid.New(),
				OrderID:   orderID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			}
			order.Items = append(order.Items, line)
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		order.Total = total

		if err := s.ordersRepo.WithTx(tx).Create(ctx, order); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		txRepo := s.repo.WithTx(tx)
		for _, item := range items {
			ok, err := txRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrementing stock: %w", err)
			}
			if !ok {
				// Stock moved between the pre-flight check and here.
				return errStockRace{productID: item.ProductID, requested: item.Quantity}
			}
		}

		if err := s.cartRepo.WithTx(tx).DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("clearing cart: %w", err)
		}
		return nil
	})
	if txErr != nil {
		var race errStockRace
		if errors.As(txErr, &race) {
			return nil, s.stockRaceError(ctx, race)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "checkout transaction")
	}

	order, err := s.ordersRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeOrderReadback, "订单创建成功但无法获取订单详情").
			WithDetails(map[string]any{"order_id": orderID})
	}
	return orders.FromModel(order), nil
}

// checkAvailability resolves every cart line against live products and
// reports the lines that cannot be fulfilled.
func (s *service) checkAvailability(ctx context.Context, items []models.CartItem) (map[uuid.UUID]*models.Product, []UnavailableProduct, error) {
	products := make(map[uuid.UUID]*models.Product, len(items))
	var unavailable []UnavailableProduct
	for _, item := range items {
		product, err := s.repo.FindProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				unavailable = append(unavailable, UnavailableProduct{
					ProductID:         item.ProductID,
					RequestedQuantity: item.Quantity,
				})
				continue
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		if product.Stock < item.Quantity {
			unavailable = append(unavailable, UnavailableProduct{
				ProductID:         item.ProductID,
				ProductName:       product.Name,
				RequestedQuantity: item.Quantity,
				AvailableStock:    product.Stock,
			})
			continue
		}
		products[item.ProductID] = product
	}
	return products, unavailable, nil
}

// stockRaceError rebuilds the unavailable entry for a product whose
// stock changed after the pre-flight check.
func (s *service) stockRaceError(ctx context.Context, race errStockRace) error {
	entry := UnavailableProduct{
		ProductID:         race.productID,
		RequestedQuantity: race.requested,
	}
	if product, err := s.repo.FindProduct(ctx, race.productID); err == nil {
		entry.ProductName = product.Name
		entry.AvailableStock = product.Stock
	}
	return insufficientStockError([]UnavailableProduct{entry})
}

func insufficientStockError(unavailable []UnavailableProduct) error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "部分产品库存不足或不可用").
		WithDetails(map[string]any{"unavailable_products": unavailable})
}

type errStockRace struct {
	productID uuid.UUID
	requested int
}

func (e errStockRace) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.productID)
}
