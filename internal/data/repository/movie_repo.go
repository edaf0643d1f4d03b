package repository

import (
	"cinema-kiosk/internal/data/entity"
	"cinema-kiosk/pkg/database"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MovieRepository interface {
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Movie, error)
	FindAll(ctx context.Context) ([]*entity.Movie, error)
	Update(ctx context.Context, movie *entity.Movie) error
	Delete(ctx context.Context, id uuid.UUID, at time.Time) error

	// HasTickets reports whether any ticket references the movie.
	HasTickets(ctx context.Context, id uuid.UUID) (bool, error)
}

type movieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

const movieColumns = `id, slug, title, director, released_year, duration_minutes, summary,
		       poster_url, preview_url, timeslot, month, week, created_at, updated_at, deleted_at`

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var movie entity.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Slug,
		&movie.Title,
		&movie.Director,
		&movie.ReleasedYear,
		&movie.DurationMinutes,
		&movie.Summary,
		&movie.PosterURL,
		&movie.PreviewURL,
		&movie.Timeslot,
		&movie.Month,
		&movie.Week,
		&movie.CreatedAt,
		&movie.UpdatedAt,
		&movie.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	query := `
		INSERT INTO movies (id, slug, title, director, released_year, duration_minutes, summary,
		                    poster_url, preview_url, timeslot, month, week, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		movie.ID,
		movie.Slug,
		movie.Title,
		movie.Director,
		movie.ReleasedYear,
		movie.DurationMinutes,
		movie.Summary,
		movie.PosterURL,
		movie.PreviewURL,
		movie.Timeslot,
		movie.Month,
		movie.Week,
		movie.CreatedAt,
		movie.UpdatedAt,
	)

	if err != nil {
		err = translate(err)
		if errors.Is(err, ErrDuplicateSlug) {
			return err
		}
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("slug", movie.Slug),
		)
		return fmt.Errorf("create movie %s: %w", movie.Slug, err)
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1 AND deleted_at IS NULL`

	movie, err := scanMovie(conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return nil, fmt.Errorf("find movie %s: %w", id, translate(err))
	}

	return movie, nil
}

func (r *movieRepository) FindBySlug(ctx context.Context, slug string) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE slug = $1 AND deleted_at IS NULL`

	movie, err := scanMovie(conn(ctx, r.db).QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by slug",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return nil, fmt.Errorf("find movie %s: %w", slug, translate(err))
	}

	return movie, nil
}

func (r *movieRepository) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE deleted_at IS NULL ORDER BY created_at ASC, title ASC`

	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all movies", zap.Error(err))
		return nil, fmt.Errorf("find movies: %w", translate(err))
	}
	defer rows.Close()

	movies := []*entity.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate movies: %w", translate(err))
	}

	return movies, nil
}

func (r *movieRepository) Update(ctx context.Context, movie *entity.Movie) error {
	query := `
		UPDATE movies
		SET slug = $2, title = $3, director = $4, released_year = $5, duration_minutes = $6,
		    summary = $7, poster_url = $8, preview_url = $9, timeslot = $10, month = $11,
		    week = $12, updated_at = $13
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := conn(ctx, r.db).Exec(ctx, query,
		movie.ID,
		movie.Slug,
		movie.Title,
		movie.Director,
		movie.ReleasedYear,
		movie.DurationMinutes,
		movie.Summary,
		movie.PosterURL,
		movie.PreviewURL,
		movie.Timeslot,
		movie.Month,
		movie.Week,
		movie.UpdatedAt,
	)

	if err != nil {
		err = translate(err)
		if errors.Is(err, ErrDuplicateSlug) {
			return err
		}
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movie.ID.String()),
		)
		return fmt.Errorf("update movie %s: %w", movie.ID, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE movies SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := conn(ctx, r.db).Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return fmt.Errorf("delete movie %s: %w", id, translate(err))
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *movieRepository) HasTickets(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM tickets WHERE movie_id = $1)`

	var exists bool
	if err := conn(ctx, r.db).QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check movie tickets",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return false, fmt.Errorf("check tickets for movie %s: %w", id, translate(err))
	}

	return exists, nil
}
