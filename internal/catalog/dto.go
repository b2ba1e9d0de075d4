package catalog

import (
	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
)

// ColorDTO is the API-facing shape of one product variant.
type ColorDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Hex      string    `json:"hex"`
	Stock    int       `json:"stock"`
	Images   []string  `json:"images"`
	Position int       `json:"position"`
}

// ProductDTO is the API-facing shape of a product.
type ProductDTO struct {
	ID             uuid.UUID  `json:"id"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	Description    *string    `json:"description,omitempty"`
	Price          string     `json:"price"`
	SalePercent    int        `json:"sale_percent"`
	EffectivePrice string     `json:"effective_price"`
	IsActive       bool       `json:"is_active"`
	Colors         []ColorDTO `json:"colors"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
}

// CategoryDTO is the API-facing shape of a category.
type CategoryDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Position int       `json:"position"`
}

// ProductListResult carries one page of products plus the next cursor.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func toColorDTO(color models.ProductColor) ColorDTO {
	images := []string(color.Images)
	if images == nil {
		images = []string{}
	}
	return ColorDTO{
		ID:       color.ID,
		Name:     color.Name,
		Hex:      color.Hex,
		Stock:    color.Stock,
		Images:   images,
		Position: color.Position,
	}
}

func toProductDTO(product *models.Product) *ProductDTO {
	colors := make([]ColorDTO, 0, len(product.Colors))
	for _, color := range product.Colors {
		colors = append(colors, toColorDTO(color))
	}
	return &ProductDTO{
		ID:             product.ID,
		CategoryID:     product.CategoryID,
		Name:           product.Name,
		Slug:           product.Slug,
		Description:    product.Description,
		Price:          product.Price.StringFixed(2),
		SalePercent:    product.SalePercent,
		EffectivePrice: product.EffectivePrice().Round(2).StringFixed(2),
		IsActive:       product.IsActive,
		Colors:         colors,
		CreatedAt:      product.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      product.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toCategoryDTO(category *models.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:       category.ID,
		Name:     category.Name,
		Slug:     category.Slug,
		Position: category.Position,
	}
}
