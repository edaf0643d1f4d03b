package wire

import (
	"cinema-kiosk/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSeat(r chi.Router, seatHandler *adaptor.SeatHandler) {
	// GET /api/seats?movie_id=&day_of_week=&week_number=
	r.Get("/api/seats", seatHandler.GetSeats)
}
