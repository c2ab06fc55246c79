package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminSettings stores site-wide configuration owned by one admin
// account. PaymentGateways is a comma-joined list on disk.
type AdminSettings struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID           uuid.UUID `gorm:"column:admin_id;type:uuid;not null;uniqueIndex"`
	SiteName          string    `gorm:"column:site_name;not null"`
	SiteDescription   string    `gorm:"column:site_description;not null;default:''"`
	ContactEmail      string    `gorm:"column:contact_email;not null;default:''"`
	OrderPrefix       string    `gorm:"column:order_prefix;not null;default:'ORD-'"`
	ItemsPerPage      int       `gorm:"column:items_per_page;not null;default:10"`
	AllowRegistration bool      `gorm:"column:allow_registration;not null;default:true"`
	MaintenanceMode   bool      `gorm:"column:maintenance_mode;not null;default:false"`
	Theme             string    `gorm:"column:theme;not null;default:'light'"`
	CurrencySymbol    string    `gorm:"column:currency_symbol;not null;default:'¥'"`
	TaxRate           float64   `gorm:"column:tax_rate;type:numeric(5,2);not null;default:0"`
	PaymentGateways   string    `gorm:"column:payment_gateways;not null;default:''"`
	LogLevel          string    `gorm:"column:log_level;not null;default:'info'"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
