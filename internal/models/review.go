package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/example/neelam/internal/utils"
)

// Review holds one customer review. The one-review-per-user-per-product
// rule is enforced by a pre-check in the handler, not by a unique
// constraint.
type Review struct {
	ID        string    `gorm:"primaryKey" json:"review_id"`
	ProductID string    `gorm:"index" json:"product_id"`
	UserID    string    `gorm:"index" json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = utils.NewID("review")
	}
	return nil
}

// WishlistItem is a (user, product) pair with set semantics.
type WishlistItem struct {
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	ProductID string    `gorm:"primaryKey" json:"product_id"`
	AddedAt   time.Time `gorm:"autoCreateTime" json:"added_at"`
}
