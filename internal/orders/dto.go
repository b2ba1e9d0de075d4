package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	"github.com/lmorales/shopworks-backend/pkg/types"
)

// OrderItemDTO is one immutable snapshot line of an order.
type OrderItemDTO struct {
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
	UnitPrice string     `json:"unit_price"`
	ColorName string     `json:"color_name"`
	ColorHex  string     `json:"color_hex"`
	ImageURL  *string    `json:"image_url,omitempty"`
}

// OrderDTO is the API-facing shape of an order.
type OrderDTO struct {
	ID              uuid.UUID      `json:"id"`
	OrderNumber     string         `json:"order_number"`
	UserID          uuid.UUID      `json:"user_id"`
	Items           []OrderItemDTO `json:"items"`
	ShippingAddress types.Address  `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"`
	TransactionID   string         `json:"transaction_id"`
	TotalAmount     string         `json:"total_amount"`
	Status          string         `json:"status"`
	CreatedAt       string         `json:"created_at"`
}

// OrderListResult carries one page of orders plus the next cursor.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// ToOrderDTO converts a stored order to its API shape. Checkout uses it too.
func ToOrderDTO(order *models.Order) *OrderDTO {
	items := make([]OrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			ColorName: item.ColorName,
			ColorHex:  item.ColorHex,
			ImageURL:  item.ImageURL,
		})
	}
	return &OrderDTO{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Items:           items,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod.String(),
		TransactionID:   order.TransactionID,
		TotalAmount:     order.TotalAmount.StringFixed(2),
		Status:          order.Status.String(),
		CreatedAt:       order.CreatedAt.UTC().Format(time.RFC3339),
	}
}
