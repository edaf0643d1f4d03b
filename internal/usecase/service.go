package usecase

import (
	"cinema-kiosk/internal/data/repository"
	"cinema-kiosk/pkg/cache"
	"cinema-kiosk/pkg/clock"
	"cinema-kiosk/pkg/events"
	"cinema-kiosk/pkg/ticketqr"
	"cinema-kiosk/pkg/utils"
	"time"

	"go.uber.org/zap"
)

// Infra bundles the collaborators that are not repositories.
type Infra struct {
	Clock  clock.Clock
	Cache  cache.Cache
	Events events.Publisher
	QR     *ticketqr.Generator
}

type Service struct {
	Movie       MovieService
	Reservation ReservationService
	Seat        SeatService
	Ticket      TicketService
	Payment     PaymentService
	Analytics   AnalyticsService
}

func NewService(repo *repository.Repository, config *utils.Config, infra Infra, log *zap.Logger) *Service {
	if infra.Clock == nil {
		infra.Clock = clock.NewSystem(time.Local)
	}
	if infra.Cache == nil {
		infra.Cache = cache.Noop{}
	}
	if infra.Events == nil {
		infra.Events = events.Noop{}
	}

	policy := newHoldPolicy(config.Reservation)

	return &Service{
		Movie:       NewMovieService(repo, infra.Clock, log),
		Reservation: NewReservationService(repo, policy, infra, log),
		Seat:        NewSeatService(repo, policy, infra.Clock, log),
		Ticket:      NewTicketService(repo, infra.QR, log),
		Payment:     NewPaymentService(repo, policy, infra, log),
		Analytics:   NewAnalyticsService(repo, infra.Clock, infra.Cache, log),
	}
}

const defaultHoldTTL = 20 * time.Minute

// holdPolicy holds the pricing and expiry rules shared by the reservation services.
type holdPolicy struct {
	ttl       time.Duration
	unitPrice int64
}

func newHoldPolicy(cfg utils.ReservationConfig) holdPolicy {
	p := holdPolicy{ttl: cfg.HoldTTL, unitPrice: cfg.UnitPrice}
	if p.ttl <= 0 {
		p.ttl = defaultHoldTTL
	}
	if p.unitPrice <= 0 {
		p.unitPrice = 200
	}
	return p
}

// cutoff is the newest creation time an expired kiosk hold can have.
func (p holdPolicy) cutoff(now time.Time) time.Time {
	return now.Add(-p.ttl)
}
