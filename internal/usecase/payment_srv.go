package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinema-kiosk/internal/data/entity"
	"cinema-kiosk/internal/data/repository"
	"cinema-kiosk/internal/dto/response"
	"cinema-kiosk/pkg/cache"
	"cinema-kiosk/pkg/clock"
	"cinema-kiosk/pkg/events"

	"go.uber.org/zap"
)

type PaymentService interface {
	// UpdateStatus moves a pending payment to paid, cancelled or refunded.
	// Repeating the current status is a no-op.
	UpdateStatus(ctx context.Context, ticketID int64, status string) (*response.PaymentResponse, error)

	// ExpirePending cancels kiosk holds older than the hold TTL and returns
	// how many tickets were expired.
	ExpirePending(ctx context.Context) (int, error)

	// RunExpirySweeper calls ExpirePending every interval until ctx is done.
	RunExpirySweeper(ctx context.Context, interval time.Duration)
}

type paymentService struct {
	repo   *repository.Repository
	policy holdPolicy
	clock  clock.Clock
	cache  cache.Cache
	events events.Publisher
	log    *zap.Logger
}

func NewPaymentService(repo *repository.Repository, policy holdPolicy, infra Infra, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:   repo,
		policy: policy,
		clock:  infra.Clock,
		cache:  infra.Cache,
		events: infra.Events,
		log:    log.With(zap.String("service", "payment")),
	}
}

func (s *paymentService) UpdateStatus(ctx context.Context, ticketID int64, raw string) (*response.PaymentResponse, error) {
	target := entity.PaymentStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !target.Valid() {
		return nil, invalidField("status", "Must be one of: pending, paid, cancelled, refunded")
	}

	ticket, err := s.repo.Ticket.FindByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	if ticket == nil {
		return nil, notFound("ticket %d", ticketID)
	}

	now := s.clock.Now()
	scope := repository.ShowingScope{MovieID: ticket.MovieID, DayOfWeek: ticket.DayOfWeek, WeekNumber: ticket.WeekNumber}

	// Settle an overdue hold first so a late "paid" cannot resurrect it.
	expired, err := s.repo.Payment.ExpireHolds(ctx, s.policy.cutoff(now), now, &scope)
	if err != nil {
		return nil, fmt.Errorf("expire holds: %w", err)
	}
	for _, hold := range expired {
		publish(ctx, s.events, s.log, expiredEvent(hold, now))
	}

	var (
		updated  *entity.Payment
		released []string
		changed  bool
	)

	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.Payment.FindByTicketID(ctx, ticketID)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("payment for ticket %d", ticketID)
		}

		if current.Status == target {
			updated = current
			return nil
		}
		if current.Status.Terminal() {
			return invalid("payment is already %s and cannot become %s", current.Status, target)
		}

		p, err := s.repo.Payment.UpdateStatusIfPending(ctx, ticketID, target, now)
		if err != nil {
			return err
		}
		if p == nil {
			// Someone else moved it between the read and the update.
			latest, err := s.repo.Payment.FindByTicketID(ctx, ticketID)
			if err != nil {
				return err
			}
			if latest != nil && latest.Status == target {
				updated = latest
				return nil
			}
			return invalid("payment status changed concurrently, retry")
		}
		updated = p
		changed = true

		if !target.HoldsSeat() {
			released, err = s.repo.Seat.Release(ctx, ticketID)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		s.log.Warn("Payment status update rejected",
			zap.Error(err),
			zap.Int64("ticket_id", ticketID),
			zap.String("target", string(target)),
		)
		return nil, err
	}

	if changed {
		s.log.Info("Payment status updated",
			zap.Int64("ticket_id", ticketID),
			zap.String("status", string(target)),
		)
		s.afterTransition(ctx, ticket, updated, released, now)
	}

	resp := response.PaymentToResponse(updated)
	return &resp, nil
}

func (s *paymentService) afterTransition(ctx context.Context, ticket *entity.Ticket, p *entity.Payment, released []string, now time.Time) {
	if p.Status == entity.PaymentPaid || p.Status == entity.PaymentRefunded {
		invalidateSales(ctx, s.cache, s.log, ticket.CreatedAt.In(now.Location()), now)
	}

	event := events.SeatStatusChanged{
		MovieID:    ticket.MovieID.String(),
		DayOfWeek:  ticket.DayOfWeek,
		WeekNumber: ticket.WeekNumber,
		TicketID:   ticket.ID,
		OccurredAt: now,
	}
	switch p.Status {
	case entity.PaymentPaid:
		res, err := s.repo.Ticket.FindReservation(ctx, ticket.ID)
		if err != nil || res == nil {
			s.log.Warn("Failed to load seats for sold event", zap.Error(err), zap.Int64("ticket_id", ticket.ID))
			return
		}
		event.Seats = res.Seats
		event.Status = events.SeatSold
	default:
		if len(released) == 0 {
			return
		}
		event.Seats = released
		event.Status = events.SeatAvailable
	}
	publish(ctx, s.events, s.log, event)
}

func (s *paymentService) ExpirePending(ctx context.Context) (int, error) {
	now := s.clock.Now()
	expired, err := s.repo.Payment.ExpireHolds(ctx, s.policy.cutoff(now), now, nil)
	if err != nil {
		return 0, fmt.Errorf("expire pending holds: %w", err)
	}

	for _, hold := range expired {
		publish(ctx, s.events, s.log, expiredEvent(hold, now))
	}

	if len(expired) > 0 {
		s.log.Info("Expired pending kiosk holds", zap.Int("count", len(expired)))
	}
	return len(expired), nil
}

func (s *paymentService) RunExpirySweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("Expiry sweeper started", zap.Duration("interval", interval), zap.Duration("hold_ttl", s.policy.ttl))
	for {
		if _, err := s.ExpirePending(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("Expiry sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			s.log.Info("Expiry sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}
