package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cinema-kiosk/internal/data/entity"
	"cinema-kiosk/internal/data/repository"
	"cinema-kiosk/internal/dto/request"
	"cinema-kiosk/internal/dto/response"
	"cinema-kiosk/internal/showing"
	"cinema-kiosk/pkg/cache"
	"cinema-kiosk/pkg/clock"
	"cinema-kiosk/pkg/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationService interface {
	// Reserve creates ticket, payment and seats atomically. replayed is true
	// when the idempotency key matched an existing ticket.
	Reserve(ctx context.Context, req *request.CreateTicketRequest) (ticket *response.TicketResponse, replayed bool, err error)
}

type reservationService struct {
	repo   *repository.Repository
	policy holdPolicy
	clock  clock.Clock
	cache  cache.Cache
	events events.Publisher
	log    *zap.Logger
}

func NewReservationService(repo *repository.Repository, policy holdPolicy, infra Infra, log *zap.Logger) ReservationService {
	return &reservationService{
		repo:   repo,
		policy: policy,
		clock:  infra.Clock,
		cache:  infra.Cache,
		events: infra.Events,
		log:    log.With(zap.String("service", "reservation")),
	}
}

func (s *reservationService) validate(req *request.CreateTicketRequest) (entity.Platform, entity.PaymentStatus, []string, error) {
	platform := entity.Platform(strings.ToLower(strings.TrimSpace(req.Platform)))
	if !platform.Valid() {
		return "", "", nil, invalidField("platform", "Must be one of: kiosk, website")
	}

	status := entity.PaymentStatus(strings.ToLower(strings.TrimSpace(req.PaymentStatus)))
	if status == "" {
		status = entity.PaymentPending
	}
	if status != entity.PaymentPending && status != entity.PaymentPaid {
		return "", "", nil, invalidField("payment_status", "Must be one of: pending, paid")
	}

	if len(req.SeatNumbers) == 0 {
		return "", "", nil, invalidField("seat_numbers", "At least one seat is required")
	}

	seen := make(map[string]bool, len(req.SeatNumbers))
	seats := make([]string, 0, len(req.SeatNumbers))
	for _, raw := range req.SeatNumbers {
		seat := strings.ToUpper(strings.TrimSpace(raw))
		if err := showing.ValidSeat(seat); err != nil {
			return "", "", nil, invalidField("seat_numbers", err.Error())
		}
		if seen[seat] {
			return "", "", nil, invalidField("seat_numbers", fmt.Sprintf("seat %s requested twice", seat))
		}
		seen[seat] = true
		seats = append(seats, seat)
	}
	showing.SortSeats(seats)

	if req.PaymentAmount < 0 {
		return "", "", nil, invalidField("payment_amount", "Must not be negative")
	}
	if platform == entity.PlatformKiosk {
		expected := int64(len(seats)) * s.policy.unitPrice
		if req.PaymentAmount != expected {
			return "", "", nil, invalidField("payment_amount",
				fmt.Sprintf("Must be %d for %d seat(s)", expected, len(seats)))
		}
	}

	return platform, status, seats, nil
}

func (s *reservationService) Reserve(ctx context.Context, req *request.CreateTicketRequest) (*response.TicketResponse, bool, error) {
	platform, status, seats, err := s.validate(req)
	if err != nil {
		return nil, false, err
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" {
		if existing, err := s.replay(ctx, key, req, platform, seats); err != nil || existing != nil {
			return existing, existing != nil, err
		}
	}

	movie, err := s.repo.Movie.FindBySlug(ctx, showing.Slug(req.MovieTitle))
	if err != nil {
		return nil, false, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, false, notFound("movie %q", req.MovieTitle)
	}

	now := s.clock.Now()
	show := showing.Resolve(now, movie.ID)
	scope := repository.ShowingScope{MovieID: movie.ID, DayOfWeek: show.DayOfWeek, WeekNumber: show.WeekNumber}

	var (
		ticketID int64
		expired  []entity.ExpiredHold
	)

	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		expired, err = s.repo.Payment.ExpireHolds(ctx, s.policy.cutoff(now), now, &scope)
		if err != nil {
			return err
		}

		claims, err := s.repo.Seat.ActiveByShowing(ctx, scope, s.policy.cutoff(now))
		if err != nil {
			return err
		}
		if taken := overlap(seats, claims); len(taken) > 0 {
			return &SeatConflictError{Seats: taken}
		}

		ticket := &entity.Ticket{
			MovieID:    movie.ID,
			Platform:   platform,
			DayOfWeek:  show.DayOfWeek,
			WeekNumber: show.WeekNumber,
			CreatedAt:  now,
		}
		if key != "" {
			ticket.IdempotencyKey = &key
		}
		if err := s.repo.Ticket.Create(ctx, ticket); err != nil {
			return err
		}
		ticketID = ticket.ID

		payment := &entity.Payment{
			BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			TicketID:     ticket.ID,
			MovieID:      movie.ID,
			Amount:       req.PaymentAmount,
			Status:       status,
		}
		if err := s.repo.Payment.Create(ctx, payment); err != nil {
			return err
		}

		claims := make([]entity.ReservedSeat, 0, len(seats))
		for _, seat := range seats {
			claims = append(claims, entity.ReservedSeat{
				BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
				TicketID:   ticket.ID,
				MovieID:    movie.ID,
				DayOfWeek:  show.DayOfWeek,
				WeekNumber: show.WeekNumber,
				SeatNumber: seat,
				Active:     true,
			})
		}
		return s.repo.Seat.CreateAll(ctx, claims)
	})

	if err != nil {
		return s.handleWriteError(ctx, err, req, platform, seats, scope)
	}

	s.log.Info("Reservation created",
		zap.Int64("ticket_id", ticketID),
		zap.String("showing", show.String()),
		zap.Strings("seats", seats),
		zap.String("platform", string(platform)),
		zap.String("status", string(status)),
	)

	s.publishExpired(ctx, expired)

	seatStatus := events.SeatPending
	if status == entity.PaymentPaid {
		seatStatus = events.SeatSold
		invalidateSales(ctx, s.cache, s.log, now)
	}
	publish(ctx, s.events, s.log, events.SeatStatusChanged{
		MovieID:    movie.ID.String(),
		DayOfWeek:  show.DayOfWeek,
		WeekNumber: show.WeekNumber,
		TicketID:   ticketID,
		Seats:      seats,
		Status:     seatStatus,
		OccurredAt: now,
	})

	res, err := s.repo.Ticket.FindReservation(ctx, ticketID)
	if err != nil {
		return nil, false, fmt.Errorf("load reservation: %w", err)
	}
	if res == nil {
		return nil, false, fmt.Errorf("reservation %d vanished after commit", ticketID)
	}

	resp := response.ReservationToResponse(res)
	return &resp, false, nil
}

// handleWriteError turns a failed transaction into the caller-facing error.
func (s *reservationService) handleWriteError(ctx context.Context, err error, req *request.CreateTicketRequest, platform entity.Platform, seats []string, scope repository.ShowingScope) (*response.TicketResponse, bool, error) {
	key := strings.TrimSpace(req.IdempotencyKey)
	var conflict *SeatConflictError
	switch {
	case errors.As(err, &conflict):
		s.log.Info("Seat conflict", zap.Strings("requested", seats), zap.Strings("taken", conflict.Seats))
		return nil, false, conflict

	case errors.Is(err, repository.ErrSeatTaken):
		// Lost the race on the unique index; re-read to report exactly which seats.
		taken := seats
		claims, readErr := s.repo.Seat.ActiveByShowing(ctx, scope, s.policy.cutoff(s.clock.Now()))
		if readErr == nil {
			if overlapping := overlap(seats, claims); len(overlapping) > 0 {
				taken = overlapping
			}
		} else {
			s.log.Warn("Failed to re-read showing after seat conflict", zap.Error(readErr))
		}
		s.log.Info("Seat conflict on insert", zap.Strings("requested", seats), zap.Strings("taken", taken))
		return nil, false, &SeatConflictError{Seats: taken}

	case errors.Is(err, repository.ErrDuplicateIdempotencyKey) && key != "":
		existing, replayErr := s.replay(ctx, key, req, platform, seats)
		if replayErr != nil {
			return nil, false, replayErr
		}
		if existing != nil {
			return existing, true, nil
		}
		return nil, false, fmt.Errorf("idempotency key %q: %w", key, err)
	}

	s.log.Error("Failed to create reservation", zap.Error(err), zap.Strings("seats", seats))
	return nil, false, fmt.Errorf("create reservation: %w", err)
}

// replay returns the ticket already stored under key. A key reused for a
// different movie, platform or seat set is rejected.
func (s *reservationService) replay(ctx context.Context, key string, req *request.CreateTicketRequest, platform entity.Platform, seats []string) (*response.TicketResponse, error) {
	ticket, err := s.repo.Ticket.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find ticket by idempotency key: %w", err)
	}
	if ticket == nil {
		return nil, nil
	}

	res, err := s.repo.Ticket.FindReservation(ctx, ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("load reservation: %w", err)
	}
	if res == nil {
		return nil, fmt.Errorf("ticket %d has no complete reservation", ticket.ID)
	}

	if res.MovieSlug != showing.Slug(req.MovieTitle) || res.Ticket.Platform != platform || !sameSeats(res.Seats, seats) {
		s.log.Warn("Idempotency key reused with a different request",
			zap.String("idempotency_key", key),
			zap.Int64("ticket_id", ticket.ID),
			zap.Strings("stored_seats", res.Seats),
			zap.Strings("requested_seats", seats),
		)
		return nil, invalidField("idempotency_key", "Idempotency key reused with a different request")
	}

	s.log.Info("Idempotent replay", zap.String("idempotency_key", key), zap.Int64("ticket_id", ticket.ID))
	resp := response.ReservationToResponse(res)
	return &resp, nil
}

func (s *reservationService) publishExpired(ctx context.Context, expired []entity.ExpiredHold) {
	for _, hold := range expired {
		s.log.Info("Expired kiosk hold released",
			zap.Int64("ticket_id", hold.TicketID),
			zap.Strings("seats", hold.Seats),
		)
		publish(ctx, s.events, s.log, expiredEvent(hold, s.clock.Now()))
	}
}

func sameSeats(stored, requested []string) bool {
	if len(stored) != len(requested) {
		return false
	}
	set := make(map[string]bool, len(stored))
	for _, seat := range stored {
		set[seat] = true
	}
	for _, seat := range requested {
		if !set[seat] {
			return false
		}
	}
	return true
}

// overlap returns the requested seats that are already claimed, sorted.
func overlap(requested []string, claims []entity.SeatClaim) []string {
	held := make(map[string]bool, len(claims))
	for _, c := range claims {
		held[c.SeatNumber] = true
	}

	var taken []string
	for _, seat := range requested {
		if held[seat] {
			taken = append(taken, seat)
		}
	}
	showing.SortSeats(taken)
	return taken
}
