package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopmall/backend/pkg/db/models"
	pkgerrors "github.com/shopmall/backend/pkg/errors"
)

// Site-wide defaults applied when an admin reads settings for the
// first time.
const (
	defaultSiteName        = "在线购物管理系统"
	defaultSiteDescription = "多角色在线购物管理系统"
	defaultContactEmail    = "admin@example.com"
	defaultOrderPrefix     = "ORD-"
	defaultItemsPerPage    = 10
	defaultTheme           = "light"
	defaultCurrencySymbol  = "¥"
	defaultTaxRate         = 13.0
	defaultGateways        = "alipay,wechatpay"
	defaultLogLevel        = "info"
)

// Service serves per-role profile and settings rows, creating them
// lazily on first read.
type Service interface {
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*UserProfileDTO, error)
	UpdateUserProfile(ctx context.Context, userID uuid.UUID, req UpdateUserProfileRequest) (*UserProfileDTO, error)
	GetVendorProfile(ctx context.Context, vendorID uuid.UUID) (*VendorProfileDTO, error)
	UpdateVendorProfile(ctx context.Context, vendorID uuid.UUID, req UpdateVendorProfileRequest) (*VendorProfileDTO, error)
	GetAdminSettings(ctx context.Context, actorID, adminID uuid.UUID) (*AdminSettingsDTO, error)
	UpdateAdminSettings(ctx context.Context, actorID, adminID uuid.UUID, req UpdateAdminSettingsRequest) (*AdminSettingsDTO, error)
}

// ServiceParams bundles the profiles dependencies.
type ServiceParams struct {
	Repo *Repository
}

type service struct {
	repo *Repository
}

// NewService constructs the profiles service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("profiles repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) GetUserProfile(ctx context.Context, userID uuid.UUID) (*UserProfileDTO, error) {
	profile, err := s.loadOrCreateUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return userProfileDTO(profile), nil
}

func (s *service) UpdateUserProfile(ctx context.Context, userID uuid.UUID, req UpdateUserProfileRequest) (*UserProfileDTO, error) {
	profile, err := s.loadOrCreateUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		profile.Username = req.Username
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}
	if req.Address != nil {
		profile.Address = req.Address
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	if req.Gender != nil {
		profile.Gender = req.Gender
	}
	if req.BirthDate != nil {
		profile.BirthDate = req.BirthDate
	}

	if err := s.repo.SaveUserProfile(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save profile")
	}
	return userProfileDTO(profile), nil
}

func (s *service) GetVendorProfile(ctx context.Context, vendorID uuid.UUID) (*VendorProfileDTO, error) {
	profile, err := s.loadOrCreateVendorProfile(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return vendorProfileDTO(profile), nil
}

func (s *service) UpdateVendorProfile(ctx context.Context, vendorID uuid.UUID, req UpdateVendorProfileRequest) (*VendorProfileDTO, error) {
	profile, err := s.loadOrCreateVendorProfile(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	if req.StoreName != nil {
		profile.StoreName = req.StoreName
	}
	if req.StoreDescription != nil {
		profile.StoreDescription = req.StoreDescription
	}
	if req.ContactEmail != nil {
		profile.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != nil {
		profile.ContactPhone = req.ContactPhone
	}
	if req.StoreAddress != nil {
		profile.StoreAddress = req.StoreAddress
	}
	if req.BusinessHours != nil {
		profile.BusinessHours = req.BusinessHours
	}
	if req.AcceptsReturns != nil {
		profile.AcceptsReturns = *req.AcceptsReturns
	}
	if req.ReturnPolicy != nil {
		profile.ReturnPolicy = req.ReturnPolicy
	}

	if err := s.repo.SaveVendorProfile(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save vendor profile")
	}
	return vendorProfileDTO(profile), nil
}

func (s *service) GetAdminSettings(ctx context.Context, actorID, adminID uuid.UUID) (*AdminSettingsDTO, error) {
	if err := requireSelf(actorID, adminID); err != nil {
		return nil, err
	}
	settings, err := s.loadOrCreateAdminSettings(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return adminSettingsDTO(settings), nil
}

func (s *service) UpdateAdminSettings(ctx context.Context, actorID, adminID uuid.UUID, req UpdateAdminSettingsRequest) (*AdminSettingsDTO, error) {
	if err := requireSelf(actorID, adminID); err != nil {
		return nil, err
	}
	settings, err := s.loadOrCreateAdminSettings(ctx, adminID)
	if err != nil {
		return nil, err
	}

	if req.SiteName != nil {
		settings.SiteName = *req.SiteName
	}
	if req.SiteDescription != nil {
		settings.SiteDescription = *req.SiteDescription
	}
	if req.ContactEmail != nil {
		settings.ContactEmail = *req.ContactEmail
	}
	if req.OrderPrefix != nil {
		settings.OrderPrefix = *req.OrderPrefix
	}
	if req.ItemsPerPage != nil {
		settings.ItemsPerPage = *req.ItemsPerPage
	}
	if req.AllowRegistration != nil {
		settings.AllowRegistration = *req.AllowRegistration
	}
	if req.MaintenanceMode != nil {
		settings.MaintenanceMode = *req.MaintenanceMode
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.CurrencySymbol != nil {
		settings.CurrencySymbol = *req.CurrencySymbol
	}
	if req.TaxRate != nil {
		settings.TaxRate = *req.TaxRate
	}
	if req.PaymentGateways != nil {
		settings.PaymentGateways = joinGateways(req.PaymentGateways)
	}
	if req.LogLevel != nil {
		settings.LogLevel = *req.LogLevel
	}

	if err := s.repo.SaveAdminSettings(ctx, settings); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save admin settings")
	}
	return adminSettingsDTO(settings), nil
}

func (s *service) loadOrCreateUserProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile, err := s.repo.FindUserProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}

	fresh := &models.UserProfile{ID: uuid.New(), UserID: userID}
	if err := s.repo.CreateUserProfile(ctx, fresh); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
	}
	return fresh, nil
}

func (s *service) loadOrCreateVendorProfile(ctx context.Context, vendorID uuid.UUID) (*models.VendorProfile, error) {
	profile, err := s.repo.FindVendorProfile(ctx, vendorID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load vendor profile")
	}

	fresh := &models.VendorProfile{ID: uuid.New(), VendorID: vendorID}
	if err := s.repo.CreateVendorProfile(ctx, fresh); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create vendor profile")
	}
	return fresh, nil
}

func (s *service) loadOrCreateAdminSettings(ctx context.Context, adminID uuid.UUID) (*models.AdminSettings, error) {
	settings, err := s.repo.FindAdminSettings(ctx, adminID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load admin settings")
	}

	fresh := &models.AdminSettings{
		ID:                uuid.New(),
		AdminID:           adminID,
		SiteName:          defaultSiteName,
		SiteDescription:   defaultSiteDescription,
		ContactEmail:      defaultContactEmail,
		OrderPrefix:       defaultOrderPrefix,
		ItemsPerPage:      defaultItemsPerPage,
		AllowRegistration: true,
		Theme:             defaultTheme,
		CurrencySymbol:    defaultCurrencySymbol,
		TaxRate:           defaultTaxRate,
		PaymentGateways:   defaultGateways,
		LogLevel:          defaultLogLevel,
	}
	if err := s.repo.CreateAdminSettings(ctx, fresh); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin settings")
	}
	return fresh, nil
}

func requireSelf(actorID, adminID uuid.UUID) error {
	if actorID != adminID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "无权访问其他管理员的设置")
	}
	return nil
}
