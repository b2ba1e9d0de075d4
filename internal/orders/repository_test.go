package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lmorales/shopworks-backend/pkg/db/models"
	"github.com/lmorales/shopworks-backend/pkg/enums"
	"github.com/lmorales/shopworks-backend/pkg/pagination"
	"github.com/lmorales/shopworks-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ordersDDL := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  shipping_address TEXT,
  payment_method TEXT NOT NULL,
  transaction_id TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItemsDDL := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  color_name TEXT NOT NULL,
  color_hex TEXT NOT NULL,
  image_url TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ordersDDL).Error)
	require.NoError(t, db.Exec(orderItemsDDL).Error)
	return db
}

func seedOrder(t *testing.T, repo *Repository, userID uuid.UUID, status enums.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "SW-" + uuid.NewString()[:8],
		UserID:      userID,
		ShippingAddress: types.Address{
			FullName:   "Jamie Doe",
			Line1:      "12 Harbor Way",
			City:       "Portsmouth",
			State:      "NH",
			PostalCode: "03801",
			Country:    "US",
		},
		PaymentMethod: enums.PaymentMethodCard,
		TransactionID: "txn-" + uuid.NewString()[:8],
		TotalAmount:   decimal.RequireFromString("180.00"),
		Status:        status,
		CreatedAt:     createdAt,
		Items: []models.OrderItem{
			{
				ID:        uuid.New(),
				Name:      "Canvas Tote",
				Quantity:  2,
				UnitPrice: decimal.RequireFromString("90.00"),
				ColorName: "Sand",
				ColorHex:  "#d2b48c",
			},
		},
	}
	created, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestCreateAndFindOrder(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	userID := uuid.New()

	created := seedOrder(t, repo, userID, enums.OrderStatusPending, time.Now().UTC())

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.OrderNumber, found.OrderNumber)
	assert.Equal(t, userID, found.UserID)
	assert.True(t, found.TotalAmount.Equal(decimal.RequireFromString("180.00")))
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Canvas Tote", found.Items[0].Name)
	assert.Equal(t, "#d2b48c", found.Items[0].ColorHex)
}

func TestFindByIDMissingOrder(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListFiltersByUserAndStatus(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	alice := uuid.New()
	bob := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)

	seedOrder(t, repo, alice, enums.OrderStatusPending, base)
	seedOrder(t, repo, alice, enums.OrderStatusShipped, base.Add(time.Minute))
	seedOrder(t, repo, bob, enums.OrderStatusPending, base.Add(2*time.Minute))

	mine, err := repo.List(context.Background(), ListFilter{UserID: &alice, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	shipped := enums.OrderStatusShipped
	filtered, err := repo.List(context.Background(), ListFilter{UserID: &alice, Status: &shipped, Limit: 10})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, enums.OrderStatusShipped, filtered[0].Status)
}

func TestListKeysetPaginationNewestFirst(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	userID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)

	oldest := seedOrder(t, repo, userID, enums.OrderStatusPending, base)
	middle := seedOrder(t, repo, userID, enums.OrderStatusPending, base.Add(time.Minute))
	newest := seedOrder(t, repo, userID, enums.OrderStatusPending, base.Add(2*time.Minute))

	first, err := repo.List(context.Background(), ListFilter{UserID: &userID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, newest.ID, first[0].ID)

	cursor := &pagination.Cursor{CreatedAt: first[1].CreatedAt, ID: first[1].ID}
	rest, err := repo.List(context.Background(), ListFilter{UserID: &userID, Cursor: cursor, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, oldest.ID, rest[0].ID)
	assert.NotEqual(t, middle.ID, rest[0].ID)
}

func TestUpdateStatus(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	created := seedOrder(t, repo, uuid.New(), enums.OrderStatusPending, time.Now().UTC())

	require.NoError(t, repo.UpdateStatus(context.Background(), created.ID, enums.OrderStatusDelivered))

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDelivered, found.Status)

	err = repo.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatusCancelled)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
