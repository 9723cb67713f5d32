package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/neelam/internal/utils"
)

// Product is a catalog entry. Rating and ReviewsCount are derived from
// reviews and recomputed whenever a review is created.
type Product struct {
	ID           string         `gorm:"primaryKey" json:"product_id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Price        float64        `json:"price"`
	Images       pq.StringArray `gorm:"type:text[]" json:"images"`
	Category     string         `gorm:"index" json:"category"`
	Subcategory  string         `json:"subcategory,omitempty"`
	Stock        int            `json:"stock"`
	Rating       float64        `json:"rating"`
	ReviewsCount int            `json:"reviews_count"`
	Tags         pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`
	Weight       string         `json:"weight,omitempty"`
	Material     string         `json:"material,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = utils.NewID("prod")
	}
	return nil
}
