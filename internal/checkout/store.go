package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/internal/cart"
	"github.com/lmorales/shopworks-backend/internal/catalog"
	"github.com/lmorales/shopworks-backend/internal/orders"
	"github.com/lmorales/shopworks-backend/pkg/db"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"gorm.io/gorm"
)

// gormStore implements Store over the shared repositories.
type gormStore struct {
	dbClient    *db.Client
	cartRepo    *cart.Repository
	catalogRepo *catalog.Repository
	orderRepo   *orders.Repository
}

// NewStore builds the production checkout store.
func NewStore(dbClient *db.Client, cartRepo *cart.Repository, catalogRepo *catalog.Repository, orderRepo *orders.Repository) (Store, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &gormStore{
		dbClient:    dbClient,
		cartRepo:    cartRepo,
		catalogRepo: catalogRepo,
		orderRepo:   orderRepo,
	}, nil
}

func (s *gormStore) LoadCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.cartRepo.FindByUserID(ctx, userID)
}

// Commit inserts the order, applies every conditional stock decrement, and
// deletes the cart inside one transaction. A decrement that matches zero
// rows means stock moved under us; the whole transaction rolls back.
func (s *gormStore) Commit(ctx context.Context, order *models.Order, decrements []StockDecrement, cartID uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orderRepo.WithTx(tx).CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}

		txCatalog := s.catalogRepo.WithTx(tx)
		for _, decrement := range decrements {
			affected, err := txCatalog.DecrementStock(ctx, decrement.ProductID, decrement.ColorHex, decrement.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement stock")
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf(
					"insufficient stock for product %s (%s)",
					decrement.ProductID, decrement.ColorHex,
				))
			}
		}

		if err := s.cartRepo.WithTx(tx).DeleteByID(ctx, cartID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete cart")
		}
		return nil
	})
}
