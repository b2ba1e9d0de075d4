package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lmorales/shopworks-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags the request and its logger with a correlation ID. Inbound
// values are only trusted when they parse as a UUID, so callers cannot
// inject arbitrary text into logs.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(reqID); err != nil {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
