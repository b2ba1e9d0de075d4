package checkout

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/internal/catalog"
	"github.com/lmorales/shopworks-backend/pkg/config"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/lmorales/shopworks-backend/pkg/logger"
	"github.com/lmorales/shopworks-backend/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryStore keeps carts, stock, and orders in maps and mimics the
// transactional all-or-nothing behavior of the real store.
type memoryStore struct {
	carts  map[uuid.UUID]*models.Cart
	stock  map[string]int
	orders []*models.Order
}

func stockKey(productID uuid.UUID, colorHex string) string {
	return productID.String() + "|" + colorHex
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		carts: make(map[uuid.UUID]*models.Cart),
		stock: make(map[string]int),
	}
}

func (m *memoryStore) LoadCart(_ context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, ok := m.carts[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cart, nil
}

func (m *memoryStore) Commit(_ context.Context, order *models.Order, decrements []StockDecrement, cartID uuid.UUID) error {
	// Verify every decrement before applying any, so a failure leaves stock
	// untouched just like a rolled-back transaction.
	for _, decrement := range decrements {
		if m.stock[stockKey(decrement.ProductID, decrement.ColorHex)] < decrement.Quantity {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock")
		}
	}
	for _, decrement := range decrements {
		m.stock[stockKey(decrement.ProductID, decrement.ColorHex)] -= decrement.Quantity
	}
	m.orders = append(m.orders, order)
	for userID, cart := range m.carts {
		if cart.ID == cartID {
			delete(m.carts, userID)
		}
	}
	return nil
}

type mapResolver struct {
	variants map[string]*catalog.VariantInfo
}

func (r *mapResolver) Resolve(_ context.Context, productID uuid.UUID, colorHex string) (*catalog.VariantInfo, error) {
	if colorHex == "" {
		for key, info := range r.variants {
			if strings.HasPrefix(key, productID.String()+"|") {
				return info, nil
			}
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	info, ok := r.variants[stockKey(productID, colorHex)]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return info, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
}

func validInput() PlaceOrderInput {
	return PlaceOrderInput{
		ShippingAddress: types.Address{
			FullName:   "Lena Ortiz",
			Line1:      "12 Harbor St",
			City:       "Portland",
			State:      "OR",
			PostalCode: "97201",
			Country:    "US",
		},
		PaymentMethod: "card",
		TransactionID: "txn_12345",
	}
}

// fixture wires a store, resolver, and service around one cart line of the
// given quantity against the given live stock.
func fixture(t *testing.T, quantity, stock int) (*memoryStore, Service, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	productID := uuid.New()
	cartID := uuid.New()
	hex := "#d2b48c"

	store := newMemoryStore()
	store.stock[stockKey(productID, hex)] = stock
	store.carts[userID] = &models.Cart{
		ID:     cartID,
		UserID: userID,
		Items: []models.CartItem{
			{CartID: cartID, ProductID: productID, ColorHex: hex, Quantity: quantity},
		},
	}

	resolver := &mapResolver{variants: map[string]*catalog.VariantInfo{
		stockKey(productID, hex): {
			ProductID:   productID,
			ProductName: "Canvas Tote",
			ColorName:   "Sand",
			ColorHex:    hex,
			UnitPrice:   decimal.NewFromInt(90),
			Available:   stock,
		},
	}}

	svc, err := NewService(store, resolver, config.CheckoutConfig{OrderNumberPrefix: "SW"}, testLogger())
	require.NoError(t, err)
	return store, svc, userID
}

func TestPlaceOrderSnapshotsCartAndDecrementsStock(t *testing.T) {
	store, svc, userID := fixture(t, 3, 3)

	order, err := svc.PlaceOrder(context.Background(), userID, validInput())
	require.NoError(t, err)

	assert.Equal(t, "270.00", order.TotalAmount)
	assert.Equal(t, "pending", order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Canvas Tote", order.Items[0].Name)
	assert.Equal(t, "90.00", order.Items[0].UnitPrice)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "SW-"))

	// Stock went down and the cart is gone.
	require.Len(t, store.orders, 1)
	for _, remaining := range store.stock {
		assert.Equal(t, 0, remaining)
	}
	assert.Empty(t, store.carts)
}

func TestPlaceOrderEmptyCartIsStateConflict(t *testing.T) {
	store, svc, userID := fixture(t, 1, 1)
	store.carts[userID].Items = nil

	_, err := svc.PlaceOrder(context.Background(), userID, validInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.Empty(t, store.orders)
}

func TestPlaceOrderMissingCartIsStateConflict(t *testing.T) {
	store, svc, _ := fixture(t, 1, 1)

	_, err := svc.PlaceOrder(context.Background(), uuid.New(), validInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.Empty(t, store.orders)
}

func TestPlaceOrderInsufficientStockLeavesEverythingUntouched(t *testing.T) {
	store, svc, userID := fixture(t, 5, 2)

	_, err := svc.PlaceOrder(context.Background(), userID, validInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	assert.Empty(t, store.orders)
	assert.Contains(t, store.carts, userID)
	for _, remaining := range store.stock {
		assert.Equal(t, 2, remaining)
	}
}

func TestPlaceOrderValidatesPayload(t *testing.T) {
	_, svc, userID := fixture(t, 1, 1)

	t.Run("missingAddressField", func(t *testing.T) {
		input := validInput()
		input.ShippingAddress.PostalCode = ""
		_, err := svc.PlaceOrder(context.Background(), userID, input)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	})

	t.Run("badPaymentMethod", func(t *testing.T) {
		input := validInput()
		input.PaymentMethod = "crypto"
		_, err := svc.PlaceOrder(context.Background(), userID, input)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	})

	t.Run("missingTransactionID", func(t *testing.T) {
		input := validInput()
		input.TransactionID = "  "
		_, err := svc.PlaceOrder(context.Background(), userID, input)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	})
}

func TestGenerateOrderNumberShape(t *testing.T) {
	number := generateOrderNumber("SW")
	parts := strings.Split(number, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "SW", parts[0])
	assert.Len(t, parts[2], 4)

	// Sequence advances between calls.
	assert.NotEqual(t, number, generateOrderNumber("SW"))
}
