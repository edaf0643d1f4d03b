package usecase

import (
	"context"
	"errors"
	"fmt"

	"cinema-kiosk/internal/data/entity"
	"cinema-kiosk/internal/data/repository"
	"cinema-kiosk/internal/dto/request"
	"cinema-kiosk/internal/dto/response"
	"cinema-kiosk/internal/showing"
	"cinema-kiosk/pkg/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MovieService interface {
	ListMovies(ctx context.Context) ([]response.MovieResponse, error)
	GetMovie(ctx context.Context, slug string) (*response.MovieResponse, error)
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, slug string, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, slug string) (*response.MovieResponse, error)
}

type movieService struct {
	repo  *repository.Repository
	clock clock.Clock
	log   *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	clk clock.Clock,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo:  repo,
		clock: clk,
		log:   log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) ListMovies(ctx context.Context) ([]response.MovieResponse, error) {
	movies, err := s.repo.Movie.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}

	result := make([]response.MovieResponse, len(movies))
	for i, movie := range movies {
		result[i] = response.MovieToResponse(movie)
	}

	s.log.Debug("Movies retrieved", zap.Int("count", len(movies)))
	return result, nil
}

func (s *movieService) GetMovie(ctx context.Context, slug string) (*response.MovieResponse, error) {
	movie, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) findBySlug(ctx context.Context, slug string) (*entity.Movie, error) {
	movie, err := s.repo.Movie.FindBySlug(ctx, showing.Slug(slug))
	if err != nil {
		return nil, fmt.Errorf("get movie by slug: %w", err)
	}
	if movie == nil {
		return nil, notFound("movie %q", slug)
	}
	return movie, nil
}

// schedule holds the normalized scheduling fields.
type schedule struct {
	timeslot, month, week string
}

func normalizeSchedule(timeslot, month, week string) (schedule, error) {
	fields := map[string]string{}
	var sc schedule
	var err error

	if sc.timeslot, err = showing.NormalizeTimeslot(timeslot); err != nil {
		fields["timeslot"] = "Must be a time such as 19:30 or 7:30 PM"
	}
	if sc.month, err = showing.NormalizeMonth(month); err != nil {
		fields["month"] = "Must be a month name"
	}
	if sc.week, err = showing.NormalizeWeek(week); err != nil {
		fields["week"] = "Must be week-1 to week-4"
	}

	if len(fields) > 0 {
		return sc, &ValidationError{Message: "Validation failed", Fields: fields}
	}
	return sc, nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	slug := showing.Slug(req.Title)
	if slug == "" {
		return nil, invalidField("title", "Must contain at least one letter or digit")
	}

	sc, err := normalizeSchedule(req.Timeslot, req.Month, req.Week)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Movie.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("check movie slug: %w", err)
	}
	if existing != nil {
		s.log.Warn("Movie already exists", zap.String("slug", slug))
		return nil, invalid("movie %q already exists", req.Title)
	}

	now := s.clock.Now()
	movie := &entity.Movie{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Slug:            slug,
		Title:           req.Title,
		Director:        req.Director,
		ReleasedYear:    req.ReleasedYear,
		DurationMinutes: req.DurationMinutes,
		Summary:         req.Summary,
		PosterURL:       req.PosterURL,
		PreviewURL:      req.PreviewURL,
		Timeslot:        sc.timeslot,
		Month:           sc.month,
		Week:            sc.week,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, invalid("movie %q already exists", req.Title)
		}
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("slug", movie.Slug),
	)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, slug string, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	if req.Empty() {
		return nil, invalid("no fields to update")
	}

	movie, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	// Cosmetic fields can always change.
	if req.Director != nil {
		movie.Director = *req.Director
	}
	if req.ReleasedYear != nil {
		movie.ReleasedYear = *req.ReleasedYear
	}
	if req.Summary != nil {
		movie.Summary = *req.Summary
	}
	if req.PosterURL != nil {
		movie.PosterURL = req.PosterURL
	}
	if req.PreviewURL != nil {
		movie.PreviewURL = req.PreviewURL
	}

	before := *movie
	if err := applySchedulingUpdate(movie, req); err != nil {
		return nil, err
	}

	schedulingChanged := movie.Title != before.Title ||
		movie.DurationMinutes != before.DurationMinutes ||
		movie.Timeslot != before.Timeslot ||
		movie.Month != before.Month ||
		movie.Week != before.Week

	if schedulingChanged {
		hasTickets, err := s.repo.Movie.HasTickets(ctx, movie.ID)
		if err != nil {
			return nil, fmt.Errorf("check movie tickets: %w", err)
		}
		if hasTickets {
			s.log.Warn("Rejected schedule change on movie with tickets", zap.String("slug", movie.Slug))
			return nil, invalid("title, duration and schedule cannot change once tickets exist")
		}
	}

	if movie.Slug != before.Slug {
		other, err := s.repo.Movie.FindBySlug(ctx, movie.Slug)
		if err != nil {
			return nil, fmt.Errorf("check movie slug: %w", err)
		}
		if other != nil && other.ID != movie.ID {
			return nil, invalid("movie %q already exists", movie.Title)
		}
	}

	movie.UpdatedAt = s.clock.Now()
	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateSlug):
			return nil, invalid("movie %q already exists", movie.Title)
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("movie %q", slug)
		}
		return nil, fmt.Errorf("update movie: %w", err)
	}

	s.log.Info("Movie updated",
		zap.String("movie_id", movie.ID.String()),
		zap.String("slug", movie.Slug),
	)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func applySchedulingUpdate(movie *entity.Movie, req *request.MovieUpdateRequest) error {
	if req.Title != nil {
		slug := showing.Slug(*req.Title)
		if slug == "" {
			return invalidField("title", "Must contain at least one letter or digit")
		}
		movie.Title = *req.Title
		movie.Slug = slug
	}
	if req.DurationMinutes != nil {
		movie.DurationMinutes = *req.DurationMinutes
	}

	if req.Timeslot == nil && req.Month == nil && req.Week == nil {
		return nil
	}

	timeslot, month, week := movie.Timeslot, movie.Month, movie.Week
	if req.Timeslot != nil {
		timeslot = *req.Timeslot
	}
	if req.Month != nil {
		month = *req.Month
	}
	if req.Week != nil {
		week = *req.Week
	}

	sc, err := normalizeSchedule(timeslot, month, week)
	if err != nil {
		return err
	}
	movie.Timeslot, movie.Month, movie.Week = sc.timeslot, sc.month, sc.week
	return nil
}

func (s *movieService) DeleteMovie(ctx context.Context, slug string) (*response.MovieResponse, error) {
	movie, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.repo.Movie.Delete(ctx, movie.ID, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("movie %q", slug)
		}
		return nil, fmt.Errorf("delete movie: %w", err)
	}

	movie.DeletedAt = &now
	movie.UpdatedAt = now

	s.log.Info("Movie deleted",
		zap.String("movie_id", movie.ID.String()),
		zap.String("slug", movie.Slug),
	)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}
