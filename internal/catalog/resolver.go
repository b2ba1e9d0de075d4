package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VariantInfo is the live snapshot cart and checkout price against.
type VariantInfo struct {
	ProductID   uuid.UUID
	ProductName string
	ColorName   string
	ColorHex    string
	UnitPrice   decimal.Decimal
	Available   int
	ImageURL    string
}

type productFinder interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Resolver maps a (product, color) reference onto live pricing and stock.
// An empty colorHex selects the product's first color.
type Resolver struct {
	products productFinder
}

// NewResolver constructs a resolver over the catalog repository.
func NewResolver(products productFinder) (*Resolver, error) {
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	return &Resolver{products: products}, nil
}

// Resolve returns the variant snapshot for productID and colorHex.
func (r *Resolver) Resolve(ctx context.Context, productID uuid.UUID, colorHex string) (*VariantInfo, error) {
	product, err := r.products.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	if len(product.Colors) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product has no purchasable colors")
	}

	color := product.Colors[0]
	if colorHex != "" {
		found := false
		for _, candidate := range product.Colors {
			if candidate.Hex == colorHex {
				color = candidate
				found = true
				break
			}
		}
		if !found {
			return nil, pkgerrors.New(
				pkgerrors.CodeValidation,
				fmt.Sprintf("color %s is not available for this product", colorHex),
			)
		}
	}

	return &VariantInfo{
		ProductID:   product.ID,
		ProductName: product.Name,
		ColorName:   color.Name,
		ColorHex:    color.Hex,
		UnitPrice:   product.EffectivePrice(),
		Available:   color.Stock,
		ImageURL:    color.PrimaryImage(),
	}, nil
}
