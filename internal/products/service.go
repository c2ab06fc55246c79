package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopmall/backend/pkg/db/models"
	"github.com/shopmall/backend/pkg/enums"
	pkgerrors "github.com/shopmall/backend/pkg/errors"
	"github.com/shopmall/backend/pkg/pagination"
)

// Service exposes catalog reads plus vendor/admin mutations.
type Service interface {
	List(ctx context.Context, params pagination.Params, filter ListFilter) (*ListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListVendor(ctx context.Context, vendorID uuid.UUID) ([]ProductDTO, error)
	Create(ctx context.Context, vendorID uuid.UUID, req CreateRequest) (*ProductDTO, error)
	Update(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, id uuid.UUID, req UpdateRequest) (*ProductDTO, error)
	Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, id uuid.UUID) error
}

// ServiceParams bundles the dependencies for the products service.
type ServiceParams struct {
	Repo *Repository
}

type service struct {
	repo *Repository
}

// NewService constructs a products service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filter ListFilter) (*ListResponse, error) {
	params = params.Normalize()
	rows, total, err := s.repo.List(ctx, params, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &ListResponse{
		Products: dtos,
		Total:    total,
		Page:     params.Page,
		Pages:    pagination.TotalPages(total, params.Limit),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) ListVendor(ctx context.Context, vendorID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vendor products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Create(ctx context.Context, vendorID uuid.UUID, req CreateRequest) (*ProductDTO, error) {
	product := req.ToModel(vendorID)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, id uuid.UUID, req UpdateRequest) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwnership(actorID, actorRole, product.VendorID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = decimal.NewFromFloat(*req.Price)
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Category != nil {
		product.Category = req.Category
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save product")
	}
	return FromModel(product), nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, id uuid.UUID) error {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureOwnership(actorID, actorRole, product.VendorID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "产品不存在")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func ensureOwnership(actorID uuid.UUID, actorRole enums.Role, vendorID uuid.UUID) error {
	if actorRole == enums.RoleAdmin {
		return nil
	}
	if actorRole == enums.RoleVendor && actorID == vendorID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "无权操作该产品")
}
