package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile holds optional customer-facing profile fields, one row
// per user, created lazily on first read.
type UserProfile struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Username  *string   `gorm:"column:username"`
	Phone     *string   `gorm:"column:phone"`
	Address   *string   `gorm:"column:address"`
	AvatarURL *string   `gorm:"column:avatar_url"`
	Gender    *string   `gorm:"column:gender"`
	BirthDate *string   `gorm:"column:birth_date"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
