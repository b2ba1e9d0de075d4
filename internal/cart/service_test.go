package cart

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lmorales/shopworks-backend/internal/catalog"
	"github.com/lmorales/shopworks-backend/pkg/config"
	"github.com/lmorales/shopworks-backend/pkg/db"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/lmorales/shopworks-backend/pkg/logger"
)

func setupCartService(t *testing.T) (*Repository, *fakeResolver, Service) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	client, err := db.New(context.Background(), config.DBConfig{DSN: dsn, Driver: "sqlite"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cartsDDL := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  total_price NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItemsDDL := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  color_name TEXT NOT NULL,
  color_hex TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  subtotal NUMERIC NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, client.DB().Exec(cartsDDL).Error)
	require.NoError(t, client.DB().Exec(cartItemsDDL).Error)

	repo := NewRepository(client.DB())
	resolver := newFakeResolver()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	svc, err := NewService(repo, client, resolver, logg)
	require.NoError(t, err)
	return repo, resolver, svc
}

func TestAddItemsClampsToStockAndMerges(t *testing.T) {
	repo, resolver, svc := setupCartService(t)
	productID := uuid.New()
	resolver.add(toteVariant(productID, 3))
	userID := uuid.New()

	dto, err := svc.AddItems(context.Background(), userID, []AddItemInput{
		{ProductID: productID, Quantity: 5},
	})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 3, dto.Items[0].Quantity)
	assert.Equal(t, "90.00", dto.Items[0].UnitPrice)
	assert.Equal(t, "270.00", dto.Items[0].Subtotal)
	assert.Equal(t, "270.00", dto.TotalPrice)

	// Re-adding the same (product, color) merges and stays capped at stock.
	dto, err = svc.AddItems(context.Background(), userID, []AddItemInput{
		{ProductID: productID, ColorHex: "#d2b48c", Quantity: 2},
	})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 3, dto.Items[0].Quantity)
	assert.Equal(t, "270.00", dto.TotalPrice)

	stored, err := repo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, stored.ID)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 3, stored.Items[0].Quantity)
	assert.Equal(t, "270.00", stored.TotalPrice.StringFixed(2))
}

func TestAddItemsSkipsZeroStockLines(t *testing.T) {
	_, resolver, svc := setupCartService(t)
	inStock := uuid.New()
	soldOut := uuid.New()
	resolver.add(toteVariant(inStock, 3))
	resolver.add(&catalog.VariantInfo{
		ProductID:   soldOut,
		ProductName: "Field Jacket",
		ColorName:   "Olive",
		ColorHex:    "#708238",
		UnitPrice:   decimal.NewFromInt(120),
		Available:   0,
	})

	dto, err := svc.AddItems(context.Background(), uuid.New(), []AddItemInput{
		{ProductID: inStock, Quantity: 1},
		{ProductID: soldOut, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, inStock, dto.Items[0].ProductID)
	assert.Equal(t, "90.00", dto.TotalPrice)
}

func TestAddItemsAllLinesOutOfStockLeavesNoCart(t *testing.T) {
	repo, resolver, svc := setupCartService(t)
	soldOut := uuid.New()
	resolver.add(&catalog.VariantInfo{
		ProductID:   soldOut,
		ProductName: "Field Jacket",
		ColorName:   "Olive",
		ColorHex:    "#708238",
		UnitPrice:   decimal.NewFromInt(120),
		Available:   0,
	})
	userID := uuid.New()

	dto, err := svc.AddItems(context.Background(), userID, []AddItemInput{
		{ProductID: soldOut, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
	assert.Equal(t, "0.00", dto.TotalPrice)

	// No row was materialized for the no-op add.
	_, err = repo.FindByUserID(context.Background(), userID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAddItemsValidatesInput(t *testing.T) {
	_, resolver, svc := setupCartService(t)
	productID := uuid.New()
	resolver.add(toteVariant(productID, 3))

	_, err := svc.AddItems(context.Background(), uuid.New(), nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.AddItems(context.Background(), uuid.New(), []AddItemInput{
		{ProductID: productID, Quantity: 0},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateItemRejectsNegativeQuantity(t *testing.T) {
	_, resolver, svc := setupCartService(t)
	productID := uuid.New()
	resolver.add(toteVariant(productID, 3))

	_, err := svc.UpdateItem(context.Background(), uuid.New(), UpdateItemInput{
		ProductID: productID,
		Quantity:  -1,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateItemStoresUnclampedQuantity(t *testing.T) {
	repo, resolver, svc := setupCartService(t)
	productID := uuid.New()
	resolver.add(toteVariant(productID, 3))
	userID := uuid.New()

	_, err := svc.AddItems(context.Background(), userID, []AddItemInput{
		{ProductID: productID, Quantity: 2},
	})
	require.NoError(t, err)

	// The stored quantity is taken as-is; only the subtotal is clamped to
	// live stock, so checkout can still fail on it.
	dto, err := svc.UpdateItem(context.Background(), userID, UpdateItemInput{
		ProductID: productID,
		Quantity:  7,
	})
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 7, dto.Items[0].Quantity)
	assert.Equal(t, "270.00", dto.Items[0].Subtotal)
	assert.Equal(t, "270.00", dto.TotalPrice)

	stored, err := repo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 7, stored.Items[0].Quantity)
}

func TestUpdateItemRemovesLineAtZero(t *testing.T) {
	repo, resolver, svc := setupCartService(t)
	productID := uuid.New()
	resolver.add(toteVariant(productID, 3))
	userID := uuid.New()

	_, err := svc.AddItems(context.Background(), userID, []AddItemInput{
		{ProductID: productID, Quantity: 2},
	})
	require.NoError(t, err)

	dto, err := svc.UpdateItem(context.Background(), userID, UpdateItemInput{
		ProductID: productID,
		ColorHex:  "#d2b48c",
		Quantity:  0,
	})
	require.NoError(t, err)
	assert.Empty(t, dto.Items)
	assert.Equal(t, "0.00", dto.TotalPrice)

	stored, err := repo.FindByUserID(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, stored.Items)
}

func TestUpdateItemMissingLine(t *testing.T) {
	_, resolver, svc := setupCartService(t)
	inCart := uuid.New()
	other := uuid.New()
	resolver.add(toteVariant(inCart, 3))
	resolver.add(&catalog.VariantInfo{
		ProductID: other,
		ColorName: "Black",
		ColorHex:  "#000000",
		UnitPrice: decimal.NewFromInt(50),
		Available: 5,
	})
	userID := uuid.New()

	_, err := svc.AddItems(context.Background(), userID, []AddItemInput{
		{ProductID: inCart, Quantity: 1},
	})
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), userID, UpdateItemInput{
		ProductID: other,
		Quantity:  1,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUpdateItemMissingCart(t *testing.T) {
	_, resolver, svc := setupCartService(t)
	productID := uuid.New()
	resolver.add(toteVariant(productID, 3))

	_, err := svc.UpdateItem(context.Background(), uuid.New(), UpdateItemInput{
		ProductID: productID,
		Quantity:  1,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestGetCartRecomputesFromLiveStock(t *testing.T) {
	_, resolver, svc := setupCartService(t)
	productID := uuid.New()
	variant := toteVariant(productID, 3)
	resolver.add(variant)
	userID := uuid.New()

	_, err := svc.AddItems(context.Background(), userID, []AddItemInput{
		{ProductID: productID, Quantity: 3},
	})
	require.NoError(t, err)

	// Stock dropped since the add; the read reprices to min(qty, stock)
	// while the quantity stays put.
	variant.Available = 1

	dto, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 3, dto.Items[0].Quantity)
	assert.Equal(t, "90.00", dto.Items[0].Subtotal)
	assert.Equal(t, "90.00", dto.TotalPrice)
}

func TestGetCartMissing(t *testing.T) {
	_, _, svc := setupCartService(t)

	_, err := svc.GetCart(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
