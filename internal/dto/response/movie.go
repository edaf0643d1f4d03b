package response

import (
	"cinema-kiosk/internal/data/entity"
	"time"
)

type MovieResponse struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Director        string    `json:"director"`
	ReleasedYear    int       `json:"released_year"`
	DurationMinutes int       `json:"duration_minutes"`
	Summary         string    `json:"summary"`
	PosterURL       *string   `json:"poster,omitempty"`
	PreviewURL      *string   `json:"preview,omitempty"`
	Timeslot        string    `json:"timeslot"`
	Month           string    `json:"month"`
	Week            string    `json:"week"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:              movie.ID.String(),
		Slug:            movie.Slug,
		Title:           movie.Title,
		Director:        movie.Director,
		ReleasedYear:    movie.ReleasedYear,
		DurationMinutes: movie.DurationMinutes,
		Summary:         movie.Summary,
		PosterURL:       movie.PosterURL,
		PreviewURL:      movie.PreviewURL,
		Timeslot:        movie.Timeslot,
		Month:           movie.Month,
		Week:            movie.Week,
		CreatedAt:       movie.CreatedAt,
		UpdatedAt:       movie.UpdatedAt,
	}
}
