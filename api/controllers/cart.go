package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/api/responses"
	"github.com/lmorales/shopworks-backend/api/validators"
	cartsvc "github.com/lmorales/shopworks-backend/internal/cart"
	"github.com/lmorales/shopworks-backend/pkg/logger"
)

type addItemPayload struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	ColorHex  string    `json:"color_hex" validate:"omitempty,hexcolor"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type addItemsRequest struct {
	Items []addItemPayload `json:"items" validate:"required,min=1,dive"`
}

type updateItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	ColorHex  string    `json:"color_hex" validate:"omitempty,hexcolor"`
	Quantity  int       `json:"quantity" validate:"min=0"`
}

// CartGet returns the caller's populated cart.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cart, err := svc.GetCart(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// CartAddItems adds lines to the caller's cart, creating it on first use.
func CartAddItems(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inputs := make([]cartsvc.AddItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			inputs = append(inputs, cartsvc.AddItemInput{
				ProductID: item.ProductID,
				ColorHex:  strings.ToLower(item.ColorHex),
				Quantity:  item.Quantity,
			})
		}

		cart, err := svc.AddItems(r.Context(), userID, inputs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cart)
	}
}

// CartUpdateItem sets a line's quantity; zero removes the line.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.UpdateItem(r.Context(), userID, cartsvc.UpdateItemInput{
			ProductID: payload.ProductID,
			ColorHex:  strings.ToLower(payload.ColorHex),
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}
