package models

import (
	"time"

	"github.com/google/uuid"
)

// VendorProfile holds storefront settings, one row per vendor,
// created lazily on first read.
type VendorProfile struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID         uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex"`
	StoreName        *string   `gorm:"column:store_name"`
	StoreDescription *string   `gorm:"column:store_description"`
	ContactEmail     *string   `gorm:"column:contact_email"`
	ContactPhone     *string   `gorm:"column:contact_phone"`
	StoreAddress     *string   `gorm:"column:store_address"`
	BusinessHours    *string   `gorm:"column:business_hours"`
	AcceptsReturns   bool      `gorm:"column:accepts_returns;not null;default:false"`
	ReturnPolicy     *string   `gorm:"column:return_policy"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
