package controllers

import (
	"net/http"

	"github.com/lmorales/shopworks-backend/api/responses"
	dashboardsvc "github.com/lmorales/shopworks-backend/internal/dashboard"
	"github.com/lmorales/shopworks-backend/pkg/logger"
)

// AdminDashboardSummary serves the back-office landing aggregates.
func AdminDashboardSummary(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
