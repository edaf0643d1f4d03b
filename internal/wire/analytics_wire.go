package wire

import (
	"net/http"

	"cinema-kiosk/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAnalytics(r chi.Router, analyticsHandler *adaptor.AnalyticsHandler, admin func(http.Handler) http.Handler) {
	r.With(admin).Get("/api/admin/analytics/sales", analyticsHandler.GetSales)
}
