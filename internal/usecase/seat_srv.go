package usecase

import (
	"context"
	"fmt"
	"strings"

	"cinema-kiosk/internal/data/entity"
	"cinema-kiosk/internal/data/repository"
	"cinema-kiosk/internal/dto/request"
	"cinema-kiosk/internal/dto/response"
	"cinema-kiosk/internal/showing"
	"cinema-kiosk/pkg/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SeatService interface {
	// Availability classifies every seat of the showing. Missing day or week
	// default to the showing the current time resolves to.
	Availability(ctx context.Context, q request.SeatStatusQuery) (*response.SeatMapResponse, error)
}

type seatService struct {
	repo   *repository.Repository
	policy holdPolicy
	clock  clock.Clock
	log    *zap.Logger
}

func NewSeatService(repo *repository.Repository, policy holdPolicy, clk clock.Clock, log *zap.Logger) SeatService {
	return &seatService{
		repo:   repo,
		policy: policy,
		clock:  clk,
		log:    log.With(zap.String("service", "seat")),
	}
}

func (s *seatService) Availability(ctx context.Context, q request.SeatStatusQuery) (*response.SeatMapResponse, error) {
	ref := strings.TrimSpace(q.MovieID)
	if ref == "" {
		return nil, invalidField("movie_id", "This field is required")
	}

	movie, err := s.resolveMovie(ctx, ref)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	key := showing.Resolve(now, movie.ID)

	if q.DayOfWeek != "" {
		if key.DayOfWeek, err = showing.ParseDay(q.DayOfWeek); err != nil {
			return nil, invalidField("day_of_week", "Must be a weekday name")
		}
	}
	if q.WeekNumber != "" {
		if key.WeekNumber, err = showing.ParseWeekLabel(q.WeekNumber); err != nil {
			return nil, invalidField("week_number", "Must be Week 1 to Week 4")
		}
	}

	scope := repository.ShowingScope{MovieID: movie.ID, DayOfWeek: key.DayOfWeek, WeekNumber: key.WeekNumber}
	claims, err := s.repo.Seat.ActiveByShowing(ctx, scope, s.policy.cutoff(now))
	if err != nil {
		return nil, fmt.Errorf("read seat claims: %w", err)
	}

	return buildSeatMap(movie, key, claims), nil
}

func (s *seatService) resolveMovie(ctx context.Context, ref string) (*entity.Movie, error) {
	var (
		movie *entity.Movie
		err   error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		movie, err = s.repo.Movie.FindByID(ctx, id)
	} else {
		movie, err = s.repo.Movie.FindBySlug(ctx, showing.Slug(ref))
	}
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, notFound("movie %q", ref)
	}
	return movie, nil
}

func buildSeatMap(movie *entity.Movie, key showing.Key, claims []entity.SeatClaim) *response.SeatMapResponse {
	status := make(map[string]string, len(claims))
	for _, c := range claims {
		switch c.Status {
		case entity.PaymentPaid:
			status[c.SeatNumber] = response.SeatSold
		case entity.PaymentPending:
			if status[c.SeatNumber] != response.SeatSold {
				status[c.SeatNumber] = response.SeatPending
			}
		}
	}

	layout := showing.Seats()
	result := &response.SeatMapResponse{
		MovieID:    movie.ID.String(),
		MovieSlug:  movie.Slug,
		DayOfWeek:  key.DayOfWeek,
		WeekNumber: key.WeekNumber,
		Total:      len(layout),
		Seats:      make([]response.SeatResponse, len(layout)),
	}

	for i, seat := range layout {
		st, ok := status[seat]
		if !ok {
			st = response.SeatAvailable
		}
		switch st {
		case response.SeatSold:
			result.Sold++
		case response.SeatPending:
			result.Pending++
		default:
			result.Available++
		}
		result.Seats[i] = response.SeatResponse{SeatNumber: seat, Status: st}
	}

	return result
}
