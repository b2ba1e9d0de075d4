package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/api/responses"
	"github.com/lmorales/shopworks-backend/api/validators"
	"github.com/lmorales/shopworks-backend/internal/catalog"
	"github.com/lmorales/shopworks-backend/pkg/logger"
	"github.com/lmorales/shopworks-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

type productColorPayload struct {
	Name     string   `json:"name" validate:"required,min=1,max=60"`
	Hex      string   `json:"hex" validate:"required,hexcolor"`
	Stock    int      `json:"stock" validate:"min=0"`
	Images   []string `json:"images" validate:"omitempty,dive,url"`
	Position int      `json:"position" validate:"min=0"`
}

type createProductRequest struct {
	CategoryID  *uuid.UUID            `json:"category_id"`
	Name        string                `json:"name" validate:"required,min=1,max=200"`
	Slug        string                `json:"slug" validate:"required,min=1,max=200"`
	Description *string               `json:"description"`
	Price       decimal.Decimal       `json:"price" validate:"required"`
	SalePercent int                   `json:"sale_percent" validate:"min=0,max=100"`
	IsActive    bool                  `json:"is_active"`
	Colors      []productColorPayload `json:"colors" validate:"required,min=1,dive"`
}

type updateProductRequest struct {
	CategoryID  *uuid.UUID             `json:"category_id"`
	Name        *string                `json:"name" validate:"omitempty,min=1,max=200"`
	Slug        *string                `json:"slug" validate:"omitempty,min=1,max=200"`
	Description *string                `json:"description"`
	Price       *decimal.Decimal       `json:"price"`
	SalePercent *int                   `json:"sale_percent" validate:"omitempty,min=0,max=100"`
	IsActive    *bool                  `json:"is_active"`
	Colors      *[]productColorPayload `json:"colors" validate:"omitempty,dive"`
}

func toColorInputs(payloads []productColorPayload) []catalog.ColorInput {
	colors := make([]catalog.ColorInput, 0, len(payloads))
	for _, payload := range payloads {
		colors = append(colors, catalog.ColorInput{
			Name:     payload.Name,
			Hex:      strings.ToLower(payload.Hex),
			Stock:    payload.Stock,
			Images:   payload.Images,
			Position: payload.Position,
		})
	}
	return colors
}

// ProductsList serves the storefront product listing.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listProducts(svc, logg, false)
}

// AdminProductsList includes inactive products.
func AdminProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return listProducts(svc, logg, true)
}

func listProducts(svc catalog.Service, logg *logger.Logger, includeHidden bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), catalog.ListProductsInput{
			CategorySlug:  strings.TrimSpace(r.URL.Query().Get("category")),
			IncludeHidden: includeHidden,
			Limit:         limit,
			Cursor:        r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductGetBySlug serves the storefront product detail page.
func ProductGetBySlug(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminProductGet loads one product by ID.
func AdminProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminProductCreate creates a product with its color variants.
func AdminProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			CategoryID:  payload.CategoryID,
			Name:        payload.Name,
			Slug:        payload.Slug,
			Description: payload.Description,
			Price:       payload.Price,
			SalePercent: payload.SalePercent,
			IsActive:    payload.IsActive,
			Colors:      toColorInputs(payload.Colors),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminProductUpdate applies a partial update; colors replace the whole set.
func AdminProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateProductInput{
			CategoryID:  payload.CategoryID,
			Name:        payload.Name,
			Slug:        payload.Slug,
			Description: payload.Description,
			Price:       payload.Price,
			SalePercent: payload.SalePercent,
			IsActive:    payload.IsActive,
		}
		if payload.Colors != nil {
			colors := toColorInputs(*payload.Colors)
			input.Colors = &colors
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminProductDelete removes a product.
func AdminProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
