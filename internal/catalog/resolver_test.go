package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubProductFinder struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProductFinder) FindProductByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func saleProduct() *models.Product {
	return &models.Product{
		ID:          uuid.New(),
		Name:        "Canvas Tote",
		Slug:        "canvas-tote",
		Price:       decimal.NewFromInt(100),
		SalePercent: 10,
		IsActive:    true,
		Colors: []models.ProductColor{
			{
				Name:   "Sand",
				Hex:    "#d2b48c",
				Stock:  3,
				Images: pq.StringArray{"https://cdn.example.com/tote-sand.jpg"},
			},
			{
				Name:  "Black",
				Hex:   "#000000",
				Stock: 0,
			},
		},
	}
}

func TestResolveAppliesSalePrice(t *testing.T) {
	product := saleProduct()
	resolver, err := NewResolver(&stubProductFinder{
		products: map[uuid.UUID]*models.Product{product.ID: product},
	})
	require.NoError(t, err)

	info, err := resolver.Resolve(context.Background(), product.ID, "#d2b48c")
	require.NoError(t, err)

	assert.Equal(t, "90", info.UnitPrice.String())
	assert.Equal(t, 3, info.Available)
	assert.Equal(t, "Sand", info.ColorName)
	assert.Equal(t, "https://cdn.example.com/tote-sand.jpg", info.ImageURL)
}

func TestResolveDefaultsToFirstColor(t *testing.T) {
	product := saleProduct()
	resolver, err := NewResolver(&stubProductFinder{
		products: map[uuid.UUID]*models.Product{product.ID: product},
	})
	require.NoError(t, err)

	info, err := resolver.Resolve(context.Background(), product.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "#d2b48c", info.ColorHex)
}

func TestResolveUnknownColorIsValidationError(t *testing.T) {
	product := saleProduct()
	resolver, err := NewResolver(&stubProductFinder{
		products: map[uuid.UUID]*models.Product{product.ID: product},
	})
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), product.ID, "#ff0000")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestResolveNoColorsIsValidationError(t *testing.T) {
	product := saleProduct()
	product.Colors = nil
	resolver, err := NewResolver(&stubProductFinder{
		products: map[uuid.UUID]*models.Product{product.ID: product},
	})
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), product.ID, "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestResolveMissingProductIsNotFound(t *testing.T) {
	resolver, err := NewResolver(&stubProductFinder{products: map[uuid.UUID]*models.Product{}})
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), uuid.New(), "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
