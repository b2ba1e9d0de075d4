package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProductColor is one purchasable variant of a product. Stock is tracked per
// color, never on the product row itself.
type ProductColor struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID      `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_product_color_hex"`
	Name      string         `gorm:"column:name;not null"`
	Hex       string         `gorm:"column:hex;not null;uniqueIndex:idx_product_color_hex"`
	Stock     int            `gorm:"column:stock;not null;default:0"`
	Images    pq.StringArray `gorm:"column:images;type:text[]"`
	Position  int            `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// PrimaryImage returns the first image URL, or "" when none are set.
func (c ProductColor) PrimaryImage() string {
	if len(c.Images) == 0 {
		return ""
	}
	return c.Images[0]
}
