package favorites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopmall/backend/pkg/db"
	"github.com/shopmall/backend/pkg/db/models"
	pkgerrors "github.com/shopmall/backend/pkg/errors"
)

// FavoriteDTO is a favorite joined with its product's live listing.
type FavoriteDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// AddRequest names the product to favorite.
type AddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// CheckResponse reports whether a product is favorited.
type CheckResponse struct {
	Favorited bool `json:"favorited"`
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service manages a customer's favorites.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]FavoriteDTO, error)
	Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*FavoriteDTO, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Check(ctx context.Context, userID, productID uuid.UUID) (*CheckResponse, error)
}

// ServiceParams bundles the favorites dependencies.
type ServiceParams struct {
	Repo     *Repository
	Products productFinder
}

type service struct {
	repo     *Repository
	products productFinder
}

// NewService constructs the favorites service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("favorites repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]FavoriteDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list favorites")
	}

	dtos := make([]FavoriteDTO, 0, len(rows))
	for _, row := range rows {
		product, err := s.products.FindByID(ctx, row.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Product removed since it was favorited.
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}
		dtos = append(dtos, favoriteDTO(row, product))
	}
	return dtos, nil
}

func (s *service) Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*FavoriteDTO, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "产品不存在")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if _, err := s.repo.FindByUserAndProduct(ctx, userID, req.ProductID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "已收藏该产品")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check favorite")
	}

	favorite := models.Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: req.ProductID,
	}
	if err := s.repo.Create(ctx, &favorite); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "已收藏该产品")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create favorite")
	}

	dto := favoriteDTO(favorite, product)
	return &dto, nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	removed, err := s.repo.DeleteByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove favorite")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "收藏不存在")
	}
	return nil
}

func (s *service) Check(ctx context.Context, userID, productID uuid.UUID) (*CheckResponse, error) {
	_, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CheckResponse{Favorited: false}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check favorite")
	}
	return &CheckResponse{Favorited: true}, nil
}

func favoriteDTO(row models.Favorite, product *models.Product) FavoriteDTO {
	return FavoriteDTO{
		ID:          row.ID,
		ProductID:   row.ProductID,
		ProductName: product.Name,
		Price:       product.Price.InexactFloat64(),
		Stock:       product.Stock,
		CreatedAt:   row.CreatedAt,
	}
}
