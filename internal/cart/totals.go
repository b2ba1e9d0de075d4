package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/internal/catalog"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// VariantResolver supplies live pricing and stock for a (product, color) pair.
type VariantResolver interface {
	Resolve(ctx context.Context, productID uuid.UUID, colorHex string) (*catalog.VariantInfo, error)
}

// Warning records a cart line dropped during recompute, for the caller to log.
type Warning struct {
	ProductID uuid.UUID
	ColorHex  string
	Reason    string
}

// LineKey identifies one (product, color) cart line.
type LineKey struct {
	ProductID uuid.UUID
	ColorHex  string
}

// RecomputeTotals re-derives every line subtotal and the cart total from live
// catalog data. Lines whose variant no longer resolves are removed and
// reported as warnings. Each surviving subtotal is
// min(quantity, live stock) x live effective price; stored quantities are not
// mutated. The function only touches the cart value, never storage.
func RecomputeTotals(ctx context.Context, cart *models.Cart, resolver VariantResolver) (map[LineKey]*catalog.VariantInfo, []Warning, error) {
	resolved := make(map[LineKey]*catalog.VariantInfo, len(cart.Items))
	var warnings []Warning

	kept := cart.Items[:0]
	total := decimal.Zero

	for i := range cart.Items {
		item := cart.Items[i]

		info, err := resolver.Resolve(ctx, item.ProductID, item.ColorHex)
		if err != nil {
			typed := pkgerrors.As(err)
			if typed != nil && (typed.Code() == pkgerrors.CodeNotFound || typed.Code() == pkgerrors.CodeValidation) {
				warnings = append(warnings, Warning{
					ProductID: item.ProductID,
					ColorHex:  item.ColorHex,
					Reason:    typed.Message(),
				})
				continue
			}
			return nil, nil, err
		}

		effectiveQty := item.Quantity
		if info.Available < effectiveQty {
			effectiveQty = info.Available
		}

		item.ColorName = info.ColorName
		item.Subtotal = info.UnitPrice.Mul(decimal.NewFromInt(int64(effectiveQty))).Round(2)
		total = total.Add(item.Subtotal)

		resolved[LineKey{ProductID: item.ProductID, ColorHex: item.ColorHex}] = info
		kept = append(kept, item)
	}

	cart.Items = kept
	cart.TotalPrice = total.Round(2)
	return resolved, warnings, nil
}
