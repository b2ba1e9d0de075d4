package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/internal/catalog"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver serves variants from a map keyed by product ID and hex. An
// empty hex falls back to the first registered variant for the product.
type fakeResolver struct {
	variants map[uuid.UUID][]*catalog.VariantInfo
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{variants: make(map[uuid.UUID][]*catalog.VariantInfo)}
}

func (f *fakeResolver) add(info *catalog.VariantInfo) {
	f.variants[info.ProductID] = append(f.variants[info.ProductID], info)
}

func (f *fakeResolver) Resolve(_ context.Context, productID uuid.UUID, colorHex string) (*catalog.VariantInfo, error) {
	infos, ok := f.variants[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if colorHex == "" {
		return infos[0], nil
	}
	for _, info := range infos {
		if info.ColorHex == colorHex {
			return info, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "color not available")
}

func toteVariant(productID uuid.UUID, stock int) *catalog.VariantInfo {
	return &catalog.VariantInfo{
		ProductID:   productID,
		ProductName: "Canvas Tote",
		ColorName:   "Sand",
		ColorHex:    "#d2b48c",
		UnitPrice:   decimal.NewFromInt(90), // 100 with a 10% sale
		Available:   stock,
		ImageURL:    "https://cdn.example.com/tote-sand.jpg",
	}
}

func TestRecomputeTotalsDerivesSubtotalsFromLiveData(t *testing.T) {
	productID := uuid.New()
	resolver := newFakeResolver()
	resolver.add(toteVariant(productID, 3))

	cart := &models.Cart{
		Items: []models.CartItem{
			{ProductID: productID, ColorHex: "#d2b48c", Quantity: 3},
		},
	}

	_, warnings, err := RecomputeTotals(context.Background(), cart, resolver)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "270.00", cart.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "270.00", cart.TotalPrice.StringFixed(2))
}

func TestRecomputeTotalsClampsSubtotalToStock(t *testing.T) {
	productID := uuid.New()
	resolver := newFakeResolver()
	resolver.add(toteVariant(productID, 2))

	// Stored quantity exceeds live stock; subtotal must use min(qty, stock)
	// while the quantity itself stays untouched.
	cart := &models.Cart{
		Items: []models.CartItem{
			{ProductID: productID, ColorHex: "#d2b48c", Quantity: 5},
		},
	}

	_, _, err := RecomputeTotals(context.Background(), cart, resolver)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, "180.00", cart.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "180.00", cart.TotalPrice.StringFixed(2))
}

func TestRecomputeTotalsDropsUnresolvableLines(t *testing.T) {
	productID := uuid.New()
	resolver := newFakeResolver()
	resolver.add(toteVariant(productID, 3))

	cart := &models.Cart{
		Items: []models.CartItem{
			{ProductID: productID, ColorHex: "#d2b48c", Quantity: 1},
			{ProductID: uuid.New(), ColorHex: "#000000", Quantity: 2},
		},
	}

	_, warnings, err := RecomputeTotals(context.Background(), cart, resolver)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "90.00", cart.TotalPrice.StringFixed(2))
}

func TestMergeLineCapsCombinedQuantityAtStock(t *testing.T) {
	productID := uuid.New()
	info := toteVariant(productID, 3)
	cart := &models.Cart{}

	// First add requests more than stock and is clamped.
	mergeLine(cart, info, 5)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// Re-adding merges into the same line and stays capped.
	mergeLine(cart, info, 2)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestMergeLineKeepsDistinctColorsSeparate(t *testing.T) {
	productID := uuid.New()
	sand := toteVariant(productID, 3)
	black := &catalog.VariantInfo{
		ProductID: productID,
		ColorName: "Black",
		ColorHex:  "#000000",
		UnitPrice: decimal.NewFromInt(90),
		Available: 4,
	}
	cart := &models.Cart{}

	mergeLine(cart, sand, 1)
	mergeLine(cart, black, 2)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, "#d2b48c", cart.Items[0].ColorHex)
	assert.Equal(t, "#000000", cart.Items[1].ColorHex)
}
