package cart

import (
	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/internal/catalog"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
)

// CartItemDTO is one populated cart line.
type CartItemDTO struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	ColorName   string    `json:"color_name"`
	ColorHex    string    `json:"color_hex"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	Subtotal    string    `json:"subtotal"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// CartDTO is the populated cart view returned to the storefront.
type CartDTO struct {
	ID         uuid.UUID     `json:"id"`
	Items      []CartItemDTO `json:"items"`
	TotalPrice string        `json:"total_price"`
}

func toCartDTO(cart *models.Cart, resolved map[LineKey]*catalog.VariantInfo) *CartDTO {
	items := make([]CartItemDTO, 0, len(cart.Items))
	for _, item := range cart.Items {
		dto := CartItemDTO{
			ProductID: item.ProductID,
			ColorName: item.ColorName,
			ColorHex:  item.ColorHex,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal.StringFixed(2),
		}
		if info, ok := resolved[LineKey{ProductID: item.ProductID, ColorHex: item.ColorHex}]; ok {
			dto.ProductName = info.ProductName
			dto.UnitPrice = info.UnitPrice.Round(2).StringFixed(2)
			dto.ImageURL = info.ImageURL
		}
		items = append(items, dto)
	}
	return &CartDTO{
		ID:         cart.ID,
		Items:      items,
		TotalPrice: cart.TotalPrice.StringFixed(2),
	}
}
