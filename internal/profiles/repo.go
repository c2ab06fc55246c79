package profiles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopmall/backend/pkg/db/models"
)

// Repository persists per-role profile rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a profiles repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindUserProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var row models.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateUserProfile(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *Repository) SaveUserProfile(ctx context.Context, profile *models.UserProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *Repository) FindVendorProfile(ctx context.Context, vendorID uuid.UUID) (*models.VendorProfile, error) {
	var row models.VendorProfile
	if err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateVendorProfile(ctx context.Context, profile *models.VendorProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *Repository) SaveVendorProfile(ctx context.Context, profile *models.VendorProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *Repository) FindAdminSettings(ctx context.Context, adminID uuid.UUID) (*models.AdminSettings, error) {
	var row models.AdminSettings
	if err := r.db.WithContext(ctx).Where("admin_id = ?", adminID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateAdminSettings(ctx context.Context, settings *models.AdminSettings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

func (r *Repository) SaveAdminSettings(ctx context.Context, settings *models.AdminSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
