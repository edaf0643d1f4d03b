package adaptor

import (
	"net/http"

	"cinema-kiosk/internal/dto/request"
	"cinema-kiosk/internal/usecase"
	"cinema-kiosk/pkg/utils"

	"go.uber.org/zap"
)

type SeatHandler struct {
	service usecase.SeatService
	log     *zap.Logger
}

func NewSeatHandler(service usecase.SeatService, log *zap.Logger) *SeatHandler {
	return &SeatHandler{
		service: service,
		log:     log.With(zap.String("handler", "seat")),
	}
}

// GetSeats handles GET /api/seats?movie_id=&day_of_week=&week_number=
func (h *SeatHandler) GetSeats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := request.SeatStatusQuery{
		MovieID:    query.Get("movie_id"),
		DayOfWeek:  query.Get("day_of_week"),
		WeekNumber: query.Get("week_number"),
	}

	if validationErrors := utils.ValidateStruct(q); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "movie_id is required", validationErrors)
		return
	}

	seats, err := h.service.Availability(r.Context(), q)
	if err != nil {
		handleServiceError(w, h.log, err, "get seats")
		return
	}

	utils.ResponseSuccess(w, "success", seats)
}
