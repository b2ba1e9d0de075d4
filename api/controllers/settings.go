package controllers

import (
	"net/http"

	"github.com/lmorales/shopworks-backend/api/responses"
	"github.com/lmorales/shopworks-backend/api/validators"
	settingssvc "github.com/lmorales/shopworks-backend/internal/settings"
	"github.com/lmorales/shopworks-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type updateSettingsRequest struct {
	StoreName       *string          `json:"store_name" validate:"omitempty,min=1,max=200"`
	SupportEmail    *string          `json:"support_email" validate:"omitempty,email"`
	CurrencyCode    *string          `json:"currency_code" validate:"omitempty,len=3"`
	ShippingFlatFee *decimal.Decimal `json:"shipping_flat_fee"`
	Maintenance     *bool            `json:"maintenance"`
}

// AdminSettingsGet returns the store configuration.
func AdminSettingsGet(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

// AdminSettingsUpdate applies configuration changes.
func AdminSettingsUpdate(svc settingssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		settings, err := svc.Update(r.Context(), settingssvc.UpdateInput{
			StoreName:       payload.StoreName,
			SupportEmail:    payload.SupportEmail,
			CurrencyCode:    payload.CurrencyCode,
			ShippingFlatFee: payload.ShippingFlatFee,
			Maintenance:     payload.Maintenance,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}
