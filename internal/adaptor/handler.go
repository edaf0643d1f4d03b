package adaptor

import (
	"cinema-kiosk/internal/usecase"
	"cinema-kiosk/pkg/assets"
	"context"

	"go.uber.org/zap"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Movie     *MovieHandler
	Seat      *SeatHandler
	Ticket    *TicketHandler
	Analytics *AnalyticsHandler
	Health    *HealthHandler
}

func NewHandler(service *usecase.Service, store *assets.Store, db Pinger, log *zap.Logger) *Handler {
	return &Handler{
		Movie:     NewMovieHandler(service.Movie, store, log),
		Seat:      NewSeatHandler(service.Seat, log),
		Ticket:    NewTicketHandler(service.Reservation, service.Ticket, service.Payment, log),
		Analytics: NewAnalyticsHandler(service.Analytics, log),
		Health:    NewHealthHandler(db, log),
	}
}
