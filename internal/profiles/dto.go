package profiles

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopmall/backend/pkg/db/models"
)

// UserProfileDTO is the customer profile wire shape.
type UserProfileDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  *string   `json:"username"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	AvatarURL *string   `json:"avatar_url"`
	Gender    *string   `json:"gender"`
	BirthDate *string   `json:"birth_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateUserProfileRequest carries a partial profile update; absent
// fields are left untouched.
type UpdateUserProfileRequest struct {
	Username  *string `json:"username"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	AvatarURL *string `json:"avatar_url"`
	Gender    *string `json:"gender"`
	BirthDate *string `json:"birth_date"`
}

// VendorProfileDTO is the storefront profile wire shape.
type VendorProfileDTO struct {
	ID               uuid.UUID `json:"id"`
	VendorID         uuid.UUID `json:"vendor_id"`
	StoreName        *string   `json:"store_name"`
	StoreDescription *string   `json:"store_description"`
	ContactEmail     *string   `json:"contact_email"`
	ContactPhone     *string   `json:"contact_phone"`
	StoreAddress     *string   `json:"store_address"`
	BusinessHours    *string   `json:"business_hours"`
	AcceptsReturns   bool      `json:"accepts_returns"`
	ReturnPolicy     *string   `json:"return_policy"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// UpdateVendorProfileRequest carries a partial storefront update.
type UpdateVendorProfileRequest struct {
	StoreName        *string `json:"store_name"`
	StoreDescription *string `json:"store_description"`
	ContactEmail     *string `json:"contact_email"`
	ContactPhone     *string `json:"contact_phone"`
	StoreAddress     *string `json:"store_address"`
	BusinessHours    *string `json:"business_hours"`
	AcceptsReturns   *bool   `json:"accepts_returns"`
	ReturnPolicy     *string `json:"return_policy"`
}

// AdminSettingsDTO serves payment gateways as a list even though they
// are stored comma-joined.
type AdminSettingsDTO struct {
	ID                uuid.UUID `json:"id"`
	AdminID           uuid.UUID `json:"admin_id"`
	SiteName          string    `json:"site_name"`
	SiteDescription   string    `json:"site_description"`
	ContactEmail      string    `json:"contact_email"`
	OrderPrefix       string    `json:"order_prefix"`
	ItemsPerPage      int       `json:"items_per_page"`
	AllowRegistration bool      `json:"allow_registration"`
	MaintenanceMode   bool      `json:"maintenance_mode"`
	Theme             string    `json:"theme"`
	CurrencySymbol    string    `json:"currency_symbol"`
	TaxRate           float64   `json:"tax_rate"`
	PaymentGateways   []string  `json:"payment_gateways"`
	LogLevel          string    `json:"log_level"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UpdateAdminSettingsRequest carries a partial settings update.
type UpdateAdminSettingsRequest struct {
	SiteName          *string  `json:"site_name"`
	SiteDescription   *string  `json:"site_description"`
	ContactEmail      *string  `json:"contact_email"`
	OrderPrefix       *string  `json:"order_prefix"`
	ItemsPerPage      *int     `json:"items_per_page"`
	AllowRegistration *bool    `json:"allow_registration"`
	MaintenanceMode   *bool    `json:"maintenance_mode"`
	Theme             *string  `json:"theme"`
	CurrencySymbol    *string  `json:"currency_symbol"`
	TaxRate           *float64 `json:"tax_rate"`
	PaymentGateways   []string `json:"payment_gateways"`
	LogLevel          *string  `json:"log_level"`
}

func userProfileDTO(p *models.UserProfile) *UserProfileDTO {
	return &UserProfileDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		Username:  p.Username,
		Phone:     p.Phone,
		Address:   p.Address,
		AvatarURL: p.AvatarURL,
		Gender:    p.Gender,
		BirthDate: p.BirthDate,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func vendorProfileDTO(p *models.VendorProfile) *VendorProfileDTO {
	return &VendorProfileDTO{
		ID:               p.ID,
		VendorID:         p.VendorID,
		StoreName:        p.StoreName,
		StoreDescription: p.StoreDescription,
		ContactEmail:     p.ContactEmail,
		ContactPhone:     p.ContactPhone,
		StoreAddress:     p.StoreAddress,
		BusinessHours:    p.BusinessHours,
		AcceptsReturns:   p.AcceptsReturns,
		ReturnPolicy:     p.ReturnPolicy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func adminSettingsDTO(s *models.AdminSettings) *AdminSettingsDTO {
	return &AdminSettingsDTO{
		ID:                s.ID,
		AdminID:           s.AdminID,
		SiteName:          s.SiteName,
		SiteDescription:   s.SiteDescription,
		ContactEmail:      s.ContactEmail,
		OrderPrefix:       s.OrderPrefix,
		ItemsPerPage:      s.ItemsPerPage,
		AllowRegistration: s.AllowRegistration,
		MaintenanceMode:   s.MaintenanceMode,
		Theme:             s.Theme,
		CurrencySymbol:    s.CurrencySymbol,
		TaxRate:           s.TaxRate,
		PaymentGateways:   splitGateways(s.PaymentGateways),
		LogLevel:          s.LogLevel,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func splitGateways(joined string) []string {
	if joined == "" {
		return []string{}
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func joinGateways(gateways []string) string {
	out := make([]string, 0, len(gateways))
	for _, g := range gateways {
		if trimmed := strings.TrimSpace(g); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, ",")
}
