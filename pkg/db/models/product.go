package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing with color variants.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID  *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	Name        string          `gorm:"column:name;not null"`
	Slug        string          `gorm:"column:slug;not null;uniqueIndex"`
	Description *string         `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	SalePercent int             `gorm:"column:sale_percent;not null;default:0"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	Colors      []ProductColor  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice applies the sale percentage when one is set. Callers round
// to 2 decimal places only at the point of storage or display.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePercent <= 0 {
		return p.Price
	}
	factor := decimal.NewFromInt(100 - int64(p.SalePercent)).Div(decimal.NewFromInt(100))
	return p.Price.Mul(factor)
}
