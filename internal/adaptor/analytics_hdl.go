package adaptor

import (
	"net/http"

	"cinema-kiosk/internal/usecase"
	"cinema-kiosk/pkg/utils"

	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	service usecase.AnalyticsService
	log     *zap.Logger
}

func NewAnalyticsHandler(service usecase.AnalyticsService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		log:     log.With(zap.String("handler", "analytics")),
	}
}

// GetSales handles GET /api/admin/analytics/sales
func (h *AnalyticsHandler) GetSales(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Sales(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get sales report")
		return
	}

	utils.ResponseSuccess(w, "success", report)
}
