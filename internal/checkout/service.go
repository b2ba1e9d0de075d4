package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/internal/cart"
	"github.com/lmorales/shopworks-backend/internal/orders"
	"github.com/lmorales/shopworks-backend/pkg/config"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	"github.com/lmorales/shopworks-backend/pkg/enums"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/lmorales/shopworks-backend/pkg/logger"
	"github.com/lmorales/shopworks-backend/pkg/types"
	"gorm.io/gorm"
)

// Service turns a cart into an order.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*orders.OrderDTO, error)
}

// PlaceOrderInput is the validated checkout payload. The transaction
// reference comes from the caller; there is no payment-provider integration.
type PlaceOrderInput struct {
	ShippingAddress types.Address
	PaymentMethod   string
	TransactionID   string
}

// StockDecrement is one conditional stock reduction executed at commit time.
type StockDecrement struct {
	ProductID uuid.UUID
	ColorHex  string
	Quantity  int
}

// Store is the persistence surface checkout needs. Commit must run order
// insert, every stock decrement, and the cart deletion atomically, and must
// fail the whole batch when any decrement matches zero rows.
type Store interface {
	LoadCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	Commit(ctx context.Context, order *models.Order, decrements []StockDecrement, cartID uuid.UUID) error
}

type service struct {
	store    Store
	resolver cart.VariantResolver
	cfg      config.CheckoutConfig
	logg     *logger.Logger
}

// NewService constructs a checkout service instance.
func NewService(store Store, resolver cart.VariantResolver, cfg config.CheckoutConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("checkout store required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("variant resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{store: store, resolver: resolver, cfg: cfg, logg: logg}, nil
}

// PlaceOrder validates the payload, reconciles the cart against live catalog
// data, snapshots it into an order, and commits order + stock decrements +
// cart deletion in one transaction. Stock is only ever reduced through the
// conditional decrement, so two checkouts racing for the last unit cannot
// both succeed.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, input PlaceOrderInput) (*orders.OrderDTO, error) {
	if missing := input.ShippingAddress.Validate(); missing != "" {
		return nil, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("shipping_address.%s is required", missing),
		)
	}
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if strings.TrimSpace(input.TransactionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction_id is required")
	}

	userCart, err := s.store.LoadCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}

	resolved, warnings, err := cart.RecomputeTotals(ctx, userCart, s.resolver)
	if err != nil {
		return nil, err
	}
	for _, warning := range warnings {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"product_id": warning.ProductID,
			"color_hex":  warning.ColorHex,
			"reason":     warning.Reason,
		}), "dropped unresolvable cart line at checkout")
	}
	if len(userCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	order := &models.Order{
		OrderNumber:     generateOrderNumber(s.cfg.OrderNumberPrefix),
		UserID:          userID,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   method,
		TransactionID:   strings.TrimSpace(input.TransactionID),
		TotalAmount:     userCart.TotalPrice,
		Status:          enums.OrderStatusPending,
	}

	decrements := make([]StockDecrement, 0, len(userCart.Items))
	for _, item := range userCart.Items {
		info := resolved[cart.LineKey{ProductID: item.ProductID, ColorHex: item.ColorHex}]
		if item.Quantity > info.Available {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf(
				"insufficient stock for %s (%s): requested %d, available %d",
				info.ProductName, info.ColorName, item.Quantity, info.Available,
			))
		}

		productID := item.ProductID
		var imageURL *string
		if info.ImageURL != "" {
			url := info.ImageURL
			imageURL = &url
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: &productID,
			Name:      info.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: info.UnitPrice.Round(2),
			ColorName: info.ColorName,
			ColorHex:  info.ColorHex,
			ImageURL:  imageURL,
		})
		decrements = append(decrements, StockDecrement{
			ProductID: item.ProductID,
			ColorHex:  item.ColorHex,
			Quantity:  item.Quantity,
		})
	}

	if err := s.store.Commit(ctx, order, decrements, userCart.ID); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount.StringFixed(2),
		"line_count":   len(order.Items),
	}), "order placed")

	return orders.ToOrderDTO(order), nil
}

var orderSeq atomic.Uint32

// generateOrderNumber builds a human-readable token like SW-MBQZ1T2K-0042.
// Uniqueness is enforced by the orders.order_number constraint; the
// timestamp plus per-process sequence makes collisions effectively
// impossible in practice.
func generateOrderNumber(prefix string) string {
	if prefix == "" {
		prefix = "SW"
	}
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	seq := orderSeq.Add(1) % 10000
	return fmt.Sprintf("%s-%s-%04d", prefix, ts, seq)
}
