package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/example/neelam/internal/utils"
)

// Roles a user account can hold. Values are only written by the service
// itself; customer-facing paths never change a role.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleGuest    = "guest"
)

// User represents an account created through admin, OAuth or guest login.
type User struct {
	ID        string    `gorm:"primaryKey" json:"user_id"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	Phone     string    `gorm:"index" json:"phone,omitempty"`
	Role      string    `gorm:"index" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = utils.NewID("user")
	}
	return nil
}

// Session is an opaque credential issued on login. Expired sessions are
// not purged; they simply stop resolving.
type Session struct {
	Token     string    `gorm:"primaryKey;column:session_token" json:"session_token"`
	UserID    string    `gorm:"index" json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
