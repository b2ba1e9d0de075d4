package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/internal/catalog"
	"github.com/lmorales/shopworks-backend/pkg/db"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/lmorales/shopworks-backend/pkg/logger"
	"gorm.io/gorm"
)

// Service exposes the storefront cart operations.
type Service interface {
	AddItems(ctx context.Context, userID uuid.UUID, inputs []AddItemInput) (*CartDTO, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, input UpdateItemInput) (*CartDTO, error)
}

// AddItemInput is one requested line. An empty ColorHex selects the
// product's first color.
type AddItemInput struct {
	ProductID uuid.UUID
	ColorHex  string
	Quantity  int
}

// UpdateItemInput targets one existing line. Quantity 0 removes it.
type UpdateItemInput struct {
	ProductID uuid.UUID
	ColorHex  string
	Quantity  int
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	resolver VariantResolver
	logg     *logger.Logger
}

// NewService constructs a cart service instance.
func NewService(repo *Repository, dbClient *db.Client, resolver VariantResolver, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("variant resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, resolver: resolver, logg: logg}, nil
}

// AddItems resolves each requested line, clamps it to live stock, merges it
// into any existing (product, color) line, and persists the recomputed cart.
// Lines whose variant has zero stock are skipped with a logged warning.
func (s *service) AddItems(ctx context.Context, userID uuid.UUID, inputs []AddItemInput) (*CartDTO, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "items are required")
	}
	for _, input := range inputs {
		if input.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
	}

	cart, err := s.loadOrNewCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, input := range inputs {
		info, err := s.resolver.Resolve(ctx, input.ProductID, input.ColorHex)
		if err != nil {
			return nil, err
		}

		if info.Available <= 0 {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"product_id": input.ProductID,
				"color_hex":  info.ColorHex,
			}), "skipping cart line with zero stock")
			continue
		}

		mergeLine(cart, info, input.Quantity)
	}

	resolved, warnings, err := RecomputeTotals(ctx, cart, s.resolver)
	if err != nil {
		return nil, err
	}
	s.logWarnings(ctx, warnings)

	// Carts are created lazily; a first add where every line was dropped
	// should not materialize an empty row.
	if cart.ID == uuid.Nil && len(cart.Items) == 0 {
		return toCartDTO(cart, resolved), nil
	}

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return toCartDTO(cart, resolved), nil
}

// GetCart returns the populated cart, re-deriving every subtotal from live
// catalog data. Missing carts are NOT_FOUND.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}

	resolved, warnings, err := RecomputeTotals(ctx, cart, s.resolver)
	if err != nil {
		return nil, err
	}
	s.logWarnings(ctx, warnings)

	return toCartDTO(cart, resolved), nil
}

// UpdateItem replaces the quantity of one line. Quantity 0 removes the line;
// positive quantities are stored as-is without clamping, so a later checkout
// can still fail on stock.
func (s *service) UpdateItem(ctx context.Context, userID uuid.UUID, input UpdateItemInput) (*CartDTO, error) {
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	cart, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}

	colorHex := input.ColorHex
	if colorHex == "" {
		info, err := s.resolver.Resolve(ctx, input.ProductID, "")
		if err != nil {
			return nil, err
		}
		colorHex = info.ColorHex
	}

	lineIdx := -1
	for i := range cart.Items {
		if cart.Items[i].ProductID == input.ProductID && cart.Items[i].ColorHex == colorHex {
			lineIdx = i
			break
		}
	}
	if lineIdx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if input.Quantity == 0 {
		cart.Items = append(cart.Items[:lineIdx], cart.Items[lineIdx+1:]...)
	} else {
		cart.Items[lineIdx].Quantity = input.Quantity
	}

	resolved, warnings, err := RecomputeTotals(ctx, cart, s.resolver)
	if err != nil {
		return nil, err
	}
	s.logWarnings(ctx, warnings)

	if err := s.persist(ctx, cart); err != nil {
		return nil, err
	}
	return toCartDTO(cart, resolved), nil
}

// mergeLine clamps the requested quantity to live stock and folds it into
// any existing (product, color) line; the merged quantity never exceeds
// stock either.
func mergeLine(cart *models.Cart, info *catalog.VariantInfo, quantity int) {
	if quantity > info.Available {
		quantity = info.Available
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == info.ProductID && cart.Items[i].ColorHex == info.ColorHex {
			combined := cart.Items[i].Quantity + quantity
			if combined > info.Available {
				combined = info.Available
			}
			cart.Items[i].Quantity = combined
			return
		}
	}

	cart.Items = append(cart.Items, models.CartItem{
		CartID:    cart.ID,
		ProductID: info.ProductID,
		ColorName: info.ColorName,
		ColorHex:  info.ColorHex,
		Quantity:  quantity,
		Position:  len(cart.Items),
	})
}

func (s *service) loadOrNewCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.Cart{UserID: userID}, nil
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
}

// persist writes the recomputed cart and its full line set in one transaction.
func (s *service) persist(ctx context.Context, cart *models.Cart) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if cart.ID == uuid.Nil {
			if _, err := txRepo.CreateCart(ctx, cart); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert cart")
			}
		} else if err := txRepo.SaveTotals(ctx, cart); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save cart totals")
		}

		items := cart.Items
		for i := range items {
			items[i].CartID = cart.ID
			items[i].Position = i
		}
		if err := txRepo.ReplaceItems(ctx, cart.ID, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace cart items")
		}
		return nil
	})
}

func (s *service) logWarnings(ctx context.Context, warnings []Warning) {
	for _, warning := range warnings {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"product_id": warning.ProductID,
			"color_hex":  warning.ColorHex,
			"reason":     warning.Reason,
		}), "dropped unresolvable cart line")
	}
}
