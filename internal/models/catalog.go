package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/neelam/internal/utils"
)

// Category groups products by a matching category string; there is no
// foreign key between the two.
type Category struct {
	ID            string         `gorm:"primaryKey" json:"category_id"`
	Name          string         `json:"name"`
	Slug          string         `gorm:"uniqueIndex" json:"slug"`
	Description   string         `json:"description,omitempty"`
	Image         string         `json:"image,omitempty"`
	Subcategories pq.StringArray `gorm:"type:text[]" json:"subcategories"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = utils.NewID("cat")
	}
	return nil
}
