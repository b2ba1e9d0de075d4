package settings

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lmorales/shopworks-backend/pkg/db/models"
)

func setupSettingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS store_settings (
  id INTEGER PRIMARY KEY,
  store_name TEXT NOT NULL,
  support_email TEXT NOT NULL,
  currency_code TEXT NOT NULL DEFAULT 'USD',
  shipping_flat_fee NUMERIC NOT NULL DEFAULT 0,
  maintenance INTEGER NOT NULL DEFAULT 0,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func TestGetMissingRow(t *testing.T) {
	repo := NewRepository(setupSettingsTestDB(t))

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSavePinsSingletonID(t *testing.T) {
	repo := NewRepository(setupSettingsTestDB(t))

	first := &models.StoreSettings{
		ID:           42, // deliberately wrong; Save must pin it
		StoreName:    "ShopWorks",
		SupportEmail: "support@shopworks.local",
		CurrencyCode: "USD",
	}
	require.NoError(t, repo.Save(context.Background(), first))

	second := &models.StoreSettings{
		StoreName:       "ShopWorks EU",
		SupportEmail:    "support@shopworks.eu",
		CurrencyCode:    "EUR",
		ShippingFlatFee: decimal.RequireFromString("4.99"),
	}
	require.NoError(t, repo.Save(context.Background(), second))

	var count int64
	require.NoError(t, repo.db.Model(&models.StoreSettings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StoreSettingsID, got.ID)
	assert.Equal(t, "ShopWorks EU", got.StoreName)
	assert.Equal(t, "EUR", got.CurrencyCode)
	assert.True(t, got.ShippingFlatFee.Equal(decimal.RequireFromString("4.99")))
}
