package controllers

import (
	"net/http"

	"github.com/lmorales/shopworks-backend/api/responses"
	"github.com/lmorales/shopworks-backend/api/validators"
	checkoutsvc "github.com/lmorales/shopworks-backend/internal/checkout"
	"github.com/lmorales/shopworks-backend/pkg/logger"
	"github.com/lmorales/shopworks-backend/pkg/types"
)

type checkoutRequest struct {
	ShippingAddress types.Address `json:"shipping_address" validate:"required"`
	PaymentMethod   string        `json:"payment_method" validate:"required,oneof=card cod bank_transfer"`
	TransactionID   string        `json:"transaction_id" validate:"required,min=1,max=200"`
}

// CheckoutPlaceOrder turns the caller's cart into an order.
func CheckoutPlaceOrder(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), userID, checkoutsvc.PlaceOrderInput{
			ShippingAddress: payload.ShippingAddress,
			PaymentMethod:   payload.PaymentMethod,
			TransactionID:   payload.TransactionID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
