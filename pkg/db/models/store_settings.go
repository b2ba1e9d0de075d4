package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreSettingsID is the fixed primary key of the singleton settings row.
const StoreSettingsID = 1

// StoreSettings is the single-row store configuration. The fixed primary key
// keeps writes converging on one record.
type StoreSettings struct {
	ID              int             `gorm:"column:id;primaryKey;default:1"`
	StoreName       string          `gorm:"column:store_name;not null"`
	SupportEmail    string          `gorm:"column:support_email;not null"`
	CurrencyCode    string          `gorm:"column:currency_code;not null;default:'USD'"`
	ShippingFlatFee decimal.Decimal `gorm:"column:shipping_flat_fee;type:numeric(10,2);not null;default:0"`
	Maintenance     bool            `gorm:"column:maintenance;not null;default:false"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the singular table name.
func (StoreSettings) TableName() string {
	return "store_settings"
}
